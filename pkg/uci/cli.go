package uci

import (
	"bufio"
	"io"
	"strings"
)

// readCommands sends non-empty input lines until quit or end of input.
func readCommands(in io.Reader, commands chan<- string) error {
	var scanner = bufio.NewScanner(in)
	for scanner.Scan() {
		var commandLine = strings.TrimSpace(scanner.Text())
		if commandLine == "quit" {
			return nil
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
	return scanner.Err()
}

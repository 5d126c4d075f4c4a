package uci

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var errOutOfRange = errors.New("argument out of range")

type Option interface {
	UciName() string
	UciString() string
	Set(s string) error
}

type IntOption struct {
	Name  string
	Min   int
	Max   int
	Value *int
}

func (opt *IntOption) UciName() string {
	return opt.Name
}

func (opt *IntOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v min %v max %v",
		opt.Name, "spin", *opt.Value, opt.Min, opt.Max)
}

func (opt *IntOption) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < opt.Min || v > opt.Max {
		return fmt.Errorf("%v %v: %w", opt.Name, v, errOutOfRange)
	}
	*opt.Value = v
	return nil
}

// MillisecondsOption exposes a duration as a spin option in milliseconds.
type MillisecondsOption struct {
	Name  string
	Min   time.Duration
	Max   time.Duration
	Value *time.Duration
}

func (opt *MillisecondsOption) UciName() string {
	return opt.Name
}

func (opt *MillisecondsOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v min %v max %v",
		opt.Name, "spin", opt.Value.Milliseconds(), opt.Min.Milliseconds(), opt.Max.Milliseconds())
}

func (opt *MillisecondsOption) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	var d = time.Duration(v) * time.Millisecond
	if d < opt.Min || d > opt.Max {
		return fmt.Errorf("%v %v: %w", opt.Name, v, errOutOfRange)
	}
	*opt.Value = d
	return nil
}

type ButtonOption struct {
	Name   string
	Action func()
}

func (opt *ButtonOption) UciName() string {
	return opt.Name
}

func (opt *ButtonOption) UciString() string {
	return fmt.Sprintf("option name %v type button", opt.Name)
}

func (opt *ButtonOption) Set(s string) error {
	opt.Action()
	return nil
}

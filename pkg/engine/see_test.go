package engine

import (
	"testing"

	. "github.com/tessera-chess/tessera/pkg/common"
)

func TestSee(t *testing.T) {
	var tests = []struct {
		fen  string
		move string
		want int
	}{
		{"1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1", "e1e5", 100},
		{"1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1", "d3e5", -225},
		{"4k3/8/3p4/4p3/8/8/8/4QK2 w - - 0 1", "e1e5", -900},
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", 100},
		{"4k3/8/8/3r4/8/8/3R4/3RK3 w - - 0 1", "d2d5", 500},
		{"3rk3/8/8/3r4/8/8/3R4/4K3 w - - 0 1", "d2d5", 0},
		{"3rk3/8/8/3r4/8/8/3R4/3RK3 w - - 0 1", "d2d5", 500},
		{"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8q", 900},
	}
	for _, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(err)
		}
		var move, ok = p.ParseMoveLAN(test.move)
		if !ok {
			t.Fatalf("%v: move %v not found", test.fen, test.move)
		}
		if got := see(&p, move); got != test.want {
			t.Errorf("see %v %v = %v, want %v", test.fen, test.move, got, test.want)
		}
		if !seeGE(&p, move, test.want) {
			t.Errorf("seeGE %v %v %v is false", test.fen, test.move, test.want)
		}
		if seeGE(&p, move, test.want+1) {
			t.Errorf("seeGE %v %v %v is true", test.fen, test.move, test.want+1)
		}
	}
}

package material

import (
	"testing"

	. "github.com/tessera-chess/tessera/pkg/common"
)

func TestEvaluate(t *testing.T) {
	var e = NewEvaluationService()
	var tests = []struct {
		fen  string
		sign int
	}{
		{InitialPositionFen, 0},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1", -1},
		{"4k3/8/8/8/8/8/8/R3K3 b - - 0 1", 1},
		{"8/8/4k3/8/8/3NK3/8/8 w - - 0 1", 0},
	}
	for _, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(err)
		}
		var score = e.Evaluate(&p)
		var sign = 0
		if score > 0 {
			sign = 1
		} else if score < 0 {
			sign = -1
		}
		if sign != test.sign {
			t.Errorf("%v: score %v", test.fen, score)
		}
		var mirror = MirrorPosition(&p)
		if got := e.Evaluate(&mirror); got != -score {
			t.Errorf("%v: mirrored score %v, want %v", test.fen, got, -score)
		}
	}
}

package material

import (
	. "github.com/tessera-chess/tessera/pkg/common"
	"github.com/tessera-chess/tessera/pkg/eval"
)

var pieceValues = [King + 1]Score{
	Pawn:   S(100, 100),
	Knight: S(320, 300),
	Bishop: S(330, 310),
	Rook:   S(500, 530),
	Queen:  S(950, 980),
}

// EvaluationService counts material and the incremental piece-square score.
// It is stateless and much faster than the full evaluation.
type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

func (e *EvaluationService) Evaluate(p *Position) int {
	if eval.IsGuaranteedDraw(p) {
		return 0
	}
	var s = p.Psqt
	for piece := Pawn; piece <= Queen; piece++ {
		var b = p.PiecesByType(piece)
		s += pieceValues[piece] * Score(PopCount(b&p.White)-PopCount(b&p.Black))
	}
	var phase = eval.Phase(p)
	return (s.Mg()*phase + s.Eg()*(128-phase)) / 128
}

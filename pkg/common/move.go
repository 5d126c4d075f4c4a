package common

import (
	"fmt"
	"strings"
)

// Move packs from (6 bits), to (6), moving piece (3), captured piece (3),
// promotion (3) and kind (3).
type Move int32

const MoveEmpty = Move(0)

type MoveKind int

const (
	Quiet MoveKind = iota
	Capture
	DoublePawnPush
	EnPassant
	CastleKingSide
	CastleQueenSide
	Promotion
)

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	var kind = Quiet
	if capturedPiece != Empty {
		kind = Capture
	}
	return makeMoveKind(from, to, movingPiece, capturedPiece, Empty, kind)
}

func makeMoveKind(from, to, movingPiece, capturedPiece, promotion int, kind MoveKind) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15) ^
		(promotion << 18) ^ (int(kind) << 21))
}

func makePromotion(from, to, capturedPiece, promotion int) Move {
	return makeMoveKind(from, to, Pawn, capturedPiece, promotion, Promotion)
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

func (m Move) Kind() MoveKind {
	return MoveKind((m >> 21) & 7)
}

func (m Move) IsCapture() bool {
	return m.CapturedPiece() != Empty
}

func (m Move) IsCaptureOrPromotion() bool {
	return m.CapturedPiece() != Empty || m.Promotion() != Empty
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

func (k MoveKind) String() string {
	switch k {
	case Quiet:
		return "quiet"
	case Capture:
		return "capture"
	case DoublePawnPush:
		return "double-pawn-push"
	case EnPassant:
		return "en-passant"
	case CastleKingSide:
		return "castle-kingside"
	case CastleQueenSide:
		return "castle-queenside"
	case Promotion:
		return "promotion"
	}
	return fmt.Sprintf("MoveKind(%d)", int(k))
}

// ParseMoveLAN finds the legal move written in long algebraic notation, e.g. e2e4 or a7a8q.
func (p *Position) ParseMoveLAN(lan string) (Move, bool) {
	var buffer [MaxMoves]OrderedMove
	var child Position
	for _, item := range p.GenerateMoves(buffer[:]) {
		if strings.EqualFold(item.Move.String(), lan) && p.MakeMove(item.Move, &child) {
			return item.Move, true
		}
	}
	return MoveEmpty, false
}

func (p *Position) MakeMoveLAN(lan string) (Position, bool) {
	var mv, ok = p.ParseMoveLAN(lan)
	if !ok {
		return Position{}, false
	}
	var newPosition = Position{}
	p.MakeMove(mv, &newPosition)
	return newPosition, true
}

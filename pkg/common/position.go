package common

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var castleMask = initCastleMask()

func initCastleMask() (result [64]int) {
	for i := range result {
		result[i] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	result[SquareA1] &^= WhiteQueenSide
	result[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	result[SquareH1] &^= WhiteKingSide
	result[SquareA8] &^= BlackQueenSide
	result[SquareE8] &^= BlackQueenSide | BlackKingSide
	result[SquareH8] &^= BlackKingSide
	return
}

func createPosition(board *[64]coloredPiece, wtm bool,
	castleRights, ep, fifty, moveNumber int,
	tables *AttackTables, keys *ZobristKeys) (Position, error) {
	var p = Position{
		tables:       tables,
		keys:         keys,
		WhiteMove:    wtm,
		CastleRights: castleRights,
		EpSquare:     ep,
		Rule50:       fifty,
		MoveNumber:   moveNumber,
		LastMove:     MoveEmpty,
	}

	for sq, piece := range board {
		if piece.Type != Empty {
			xorPiece(&p, piece.Type, piece.Side, sq)
		}
	}

	if PopCount(p.Kings&p.White) != 1 || PopCount(p.Kings&p.Black) != 1 {
		return Position{}, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	if p.Pawns&(Rank1Mask|Rank8Mask) != 0 {
		return Position{}, fmt.Errorf("%w: pawn on the back rank", ErrInvalidFEN)
	}
	if !p.isLegal() {
		return Position{}, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}
	p.CastleRights &= p.possibleCastleRights()

	p.Key = p.ComputeKey()
	p.Checkers = p.computeCheckers()
	return p, nil
}

// possibleCastleRights drops rights whose king or rook is not on its home square.
func (p *Position) possibleCastleRights() int {
	var result = 0
	var whiteRooks = p.Rooks & p.White
	var blackRooks = p.Rooks & p.Black
	if p.Kings&p.White&SquareMask[SquareE1] != 0 {
		if whiteRooks&SquareMask[SquareH1] != 0 {
			result |= WhiteKingSide
		}
		if whiteRooks&SquareMask[SquareA1] != 0 {
			result |= WhiteQueenSide
		}
	}
	if p.Kings&p.Black&SquareMask[SquareE8] != 0 {
		if blackRooks&SquareMask[SquareH8] != 0 {
			result |= BlackKingSide
		}
		if blackRooks&SquareMask[SquareA8] != 0 {
			result |= BlackQueenSide
		}
	}
	return result
}

// NewPositionFromFEN parses fen with the process wide attack tables and keys.
func NewPositionFromFEN(fen string) (Position, error) {
	return NewPositionFromFENWith(fen, Attacks(), Zobrist())
}

// NewPositionFromFENWith parses fen. The tables and keys are shared by every
// position derived from the result and must not be modified.
func NewPositionFromFENWith(fen string, tables *AttackTables, keys *ZobristKeys) (Position, error) {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidFEN, fen)
	}

	var board [64]coloredPiece

	var i = 0
	for _, ch := range tokens[0] {
		if unicode.IsDigit(ch) {
			i += int(ch - '0')
		} else if unicode.IsLetter(ch) {
			var pt = parsePiece(ch)
			if pt.Type == Empty || i >= 64 {
				return Position{}, fmt.Errorf("%w: %v", ErrInvalidFEN, fen)
			}
			board[FlipSquare(i)] = pt
			i++
		}
	}
	if i != 64 {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidFEN, fen)
	}

	var whiteMove bool
	switch tokens[1] {
	case "w":
		whiteMove = true
	case "b":
		whiteMove = false
	default:
		return Position{}, fmt.Errorf("%w: side to move %v", ErrInvalidFEN, tokens[1])
	}

	var sCastleRights = tokens[2]
	var cr = 0
	if strings.Contains(sCastleRights, "K") {
		cr |= WhiteKingSide
	}
	if strings.Contains(sCastleRights, "Q") {
		cr |= WhiteQueenSide
	}
	if strings.Contains(sCastleRights, "k") {
		cr |= BlackKingSide
	}
	if strings.Contains(sCastleRights, "q") {
		cr |= BlackQueenSide
	}

	var epSquare = ParseSquare(tokens[3])
	if epSquare != SquareNone && Rank(epSquare) != Rank3 && Rank(epSquare) != Rank6 {
		return Position{}, fmt.Errorf("%w: en passant square %v", ErrInvalidFEN, tokens[3])
	}

	var rule50 = 0
	if len(tokens) > 4 {
		var err error
		rule50, err = strconv.Atoi(tokens[4])
		if err != nil {
			return Position{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
	}

	var moveNumber = 1
	if len(tokens) > 5 {
		var err error
		moveNumber, err = strconv.Atoi(tokens[5])
		if err != nil {
			return Position{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
	}

	return createPosition(&board, whiteMove, cr, epSquare, rule50, moveNumber, tables, keys)
}

func (p *Position) String() string {
	var sb strings.Builder

	var emptyCount = 0

	for i := 0; i < 64; i++ {
		var sq = FlipSquare(i)
		var piece, side = p.GetPieceTypeAndSide(sq)
		if piece == Empty {
			emptyCount++
		} else {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			sb.WriteString(pieceToChar(piece, side))
		}

		if File(sq) == FileH {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			if Rank(sq) != Rank1 {
				sb.WriteString("/")
			}
		}
	}

	if p.WhiteMove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.CastleRights == 0 {
		sb.WriteString("-")
	} else {
		if (p.CastleRights & WhiteKingSide) != 0 {
			sb.WriteString("K")
		}
		if (p.CastleRights & WhiteQueenSide) != 0 {
			sb.WriteString("Q")
		}
		if (p.CastleRights & BlackKingSide) != 0 {
			sb.WriteString("k")
		}
		if (p.CastleRights & BlackQueenSide) != 0 {
			sb.WriteString("q")
		}
	}
	sb.WriteString(" ")

	if p.EpSquare == SquareNone {
		sb.WriteString("-")
	} else {
		sb.WriteString(SquareName(p.EpSquare))
	}

	fmt.Fprintf(&sb, " %d %d", p.Rule50, p.MoveNumber)
	return sb.String()
}

func (p *Position) GetPieceTypeAndSide(sq int) (pieceType int, side bool) {
	var bb = SquareMask[sq]
	if (p.White & bb) != 0 {
		side = true
	} else if (p.Black & bb) == 0 {
		return Empty, false
	}
	return p.WhatPiece(sq), side
}

func (p *Position) WhatPiece(sq int) int {
	var bb = SquareMask[sq]
	if ((p.White | p.Black) & bb) == 0 {
		return Empty
	}
	if (p.Pawns & bb) != 0 {
		return Pawn
	}
	if (p.Knights & bb) != 0 {
		return Knight
	}
	if (p.Bishops & bb) != 0 {
		return Bishop
	}
	if (p.Rooks & bb) != 0 {
		return Rook
	}
	if (p.Queens & bb) != 0 {
		return Queen
	}
	return King
}

func (p *Position) Colours(side bool) uint64 {
	if side {
		return p.White
	}
	return p.Black
}

func (p *Position) AllPieces() uint64 {
	return p.White | p.Black
}

func (p *Position) PiecesByType(piece int) uint64 {
	switch piece {
	case Pawn:
		return p.Pawns
	case Knight:
		return p.Knights
	case Bishop:
		return p.Bishops
	case Rook:
		return p.Rooks
	case Queen:
		return p.Queens
	case King:
		return p.Kings
	}
	return 0
}

func (p *Position) KingSquare(side bool) int {
	return FirstOne(p.Kings & p.Colours(side))
}

// MakeMove applies a pseudo-legal move into result and reports whether it was legal.
// The source position is never modified.
func (src *Position) MakeMove(move Move, result *Position) bool {
	var from = move.From()
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()
	var side = src.WhiteMove

	*result = *src
	result.WhiteMove = !side
	result.Key ^= result.keys.Side
	if !side {
		result.MoveNumber++
	}

	result.CastleRights = src.CastleRights & castleMask[from] & castleMask[to]
	if result.CastleRights != src.CastleRights {
		result.Key ^= result.keys.Castling[src.CastleRights] ^ result.keys.Castling[result.CastleRights]
	}

	if movingPiece == Pawn || capturedPiece != Empty {
		result.Rule50 = 0
	} else {
		result.Rule50 = src.Rule50 + 1
	}

	result.EpSquare = SquareNone
	if src.EpSquare != SquareNone {
		result.Key ^= result.keys.EnPassant[File(src.EpSquare)]
	}

	switch move.Kind() {
	case EnPassant:
		xorPiece(result, Pawn, !side, to+let(side, -8, 8))
	case Capture:
		xorPiece(result, capturedPiece, !side, to)
	case Promotion:
		if capturedPiece != Empty {
			xorPiece(result, capturedPiece, !side, to)
		}
	}

	if move.Kind() == Promotion {
		xorPiece(result, Pawn, side, from)
		xorPiece(result, move.Promotion(), side, to)
	} else {
		movePiece(result, movingPiece, side, from, to)
	}

	switch move.Kind() {
	case DoublePawnPush:
		result.EpSquare = (from + to) / 2
		result.Key ^= result.keys.EnPassant[File(result.EpSquare)]
	case CastleKingSide:
		if side {
			movePiece(result, Rook, true, SquareH1, SquareF1)
		} else {
			movePiece(result, Rook, false, SquareH8, SquareF8)
		}
	case CastleQueenSide:
		if side {
			movePiece(result, Rook, true, SquareA1, SquareD1)
		} else {
			movePiece(result, Rook, false, SquareA8, SquareD8)
		}
	}

	if !result.isLegal() {
		return false
	}
	result.Checkers = result.computeCheckers()
	result.LastMove = move
	return true
}

func (src *Position) MakeNullMove(result *Position) {
	*result = *src
	result.Rule50 = src.Rule50 + 1
	result.WhiteMove = !src.WhiteMove
	result.Key ^= result.keys.Side

	result.EpSquare = SquareNone
	if src.EpSquare != SquareNone {
		result.Key ^= result.keys.EnPassant[File(src.EpSquare)]
	}

	result.Checkers = 0
	result.LastMove = MoveEmpty
}

func xorPiece(p *Position, piece int, side bool, square int) {
	var b = SquareMask[square]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	switch piece {
	case Pawn:
		p.Pawns ^= b
	case Knight:
		p.Knights ^= b
	case Bishop:
		p.Bishops ^= b
	case Rook:
		p.Rooks ^= b
	case Queen:
		p.Queens ^= b
	case King:
		p.Kings ^= b
	}
	p.Key ^= p.keys.PieceKey(piece, side, square)

	var psq = PieceSquareScore(piece, side, square)
	if (p.White|p.Black)&b != 0 {
		p.Psqt += psq
		p.PhaseMaterial += PhaseWeight[piece]
	} else {
		p.Psqt -= psq
		p.PhaseMaterial -= PhaseWeight[piece]
	}
}

func movePiece(p *Position, piece int, side bool, from int, to int) {
	var b = SquareMask[from] ^ SquareMask[to]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	switch piece {
	case Pawn:
		p.Pawns ^= b
	case Knight:
		p.Knights ^= b
	case Bishop:
		p.Bishops ^= b
	case Rook:
		p.Rooks ^= b
	case Queen:
		p.Queens ^= b
	case King:
		p.Kings ^= b
	}
	p.Key ^= p.keys.PieceKey(piece, side, from) ^ p.keys.PieceKey(piece, side, to)
	p.Psqt += PieceSquareScore(piece, side, to) - PieceSquareScore(piece, side, from)
}

func (p *Position) isAttackedBySide(sq int, side bool) bool {
	var enemy = p.Colours(side)
	var t = p.tables
	if (t.PawnAttacks(sq, !side) & p.Pawns & enemy) != 0 {
		return true
	}
	if (t.Knight[sq] & p.Knights & enemy) != 0 {
		return true
	}
	if (t.King[sq] & p.Kings & enemy) != 0 {
		return true
	}
	var allPieces = p.White | p.Black
	if (t.BishopAttacks(sq, allPieces) & (p.Bishops | p.Queens) & enemy) != 0 {
		return true
	}
	if (t.RookAttacks(sq, allPieces) & (p.Rooks | p.Queens) & enemy) != 0 {
		return true
	}
	return false
}

// AttackersTo returns attackers of both colours for the given occupancy.
func (p *Position) AttackersTo(sq int, occ uint64) uint64 {
	var t = p.tables
	return (t.PawnAttacks(sq, false) & p.Pawns & p.White) |
		(t.PawnAttacks(sq, true) & p.Pawns & p.Black) |
		(t.Knight[sq] & p.Knights) |
		(t.BishopAttacks(sq, occ) & (p.Bishops | p.Queens)) |
		(t.RookAttacks(sq, occ) & (p.Rooks | p.Queens)) |
		(t.King[sq] & p.Kings)
}

// Tables returns the attack tables the position was created with.
func (p *Position) Tables() *AttackTables {
	return p.tables
}

func (p *Position) computeCheckers() uint64 {
	return p.AttackersTo(p.KingSquare(p.WhiteMove), p.White|p.Black) & p.Colours(!p.WhiteMove)
}

func (p *Position) isLegal() bool {
	return !p.isAttackedBySide(p.KingSquare(!p.WhiteMove), p.WhiteMove)
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

func (p *Position) IsRepetition(other *Position) bool {
	return p.Key == other.Key &&
		p.White == other.White &&
		p.Black == other.Black &&
		p.Pawns == other.Pawns &&
		p.Knights == other.Knights &&
		p.Bishops == other.Bishops &&
		p.Rooks == other.Rooks &&
		p.Queens == other.Queens &&
		p.Kings == other.Kings &&
		p.WhiteMove == other.WhiteMove &&
		p.CastleRights == other.CastleRights &&
		p.EpSquare == other.EpSquare
}

// MirrorPosition swaps colours and flips the board vertically.
func MirrorPosition(p *Position) Position {
	var board [64]coloredPiece
	for i := range board {
		var pt, side = p.GetPieceTypeAndSide(i)
		if pt != Empty {
			board[FlipSquare(i)] = coloredPiece{pt, !side}
		}
	}
	var cr = (p.CastleRights >> 2) | ((p.CastleRights & 3) << 2)
	var ep = SquareNone
	if p.EpSquare != SquareNone {
		ep = FlipSquare(p.EpSquare)
	}
	var pos, _ = createPosition(&board, !p.WhiteMove, cr, ep, p.Rule50, p.MoveNumber, p.tables, p.keys)
	return pos
}

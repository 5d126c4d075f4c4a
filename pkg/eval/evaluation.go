package eval

import (
	. "github.com/tessera-chess/tessera/pkg/common"
)

const centerSquares = uint64(1)<<SquareD4 | uint64(1)<<SquareE4 | uint64(1)<<SquareD5 | uint64(1)<<SquareE5

// EvaluationService scores positions from White's point of view.
// It keeps scratch state, so every search thread needs its own instance.
type EvaluationService struct {
	tables        *AttackTables
	passedMask    [2][64]uint64
	outpostMask   [2][64]uint64
	adjacentFiles [8]uint64

	attacked     [2]uint64
	pawnAttacks  [2]uint64
	kingSq       [2]int
	kingAttacks  [2]int
	attackValues [2]int
}

func NewEvaluationService(tables *AttackTables) *EvaluationService {
	var e = &EvaluationService{tables: tables}
	for file := FileA; file <= FileH; file++ {
		e.adjacentFiles[file] = Left(FileMask[file]) | Right(FileMask[file])
	}
	for sq := 0; sq < 64; sq++ {
		var file, rank = File(sq), Rank(sq)
		var ahead = [2]uint64{
			SideWhite: tables.RanksGreaterThan[rank],
			SideBlack: tables.RanksLessThan[rank],
		}
		for side := range ahead {
			e.passedMask[side][sq] = ahead[side] & (FileMask[file] | e.adjacentFiles[file])
			e.outpostMask[side][sq] = ahead[side] & e.adjacentFiles[file]
		}
	}
	return e
}

// Phase maps the remaining non-pawn material to 0 (endgame) .. 128 (middlegame).
func Phase(p *Position) int {
	var material = Max(egLimit, Min(mgLimit, p.PhaseMaterial))
	return (material - egLimit) * phaseScale / (mgLimit - egLimit)
}

// IsGuaranteedDraw recognises minor piece endings that cannot be won.
func IsGuaranteedDraw(p *Position) bool {
	if p.Pawns|p.Rooks|p.Queens != 0 {
		return false
	}
	var whiteMinors = PopCount((p.Knights | p.Bishops) & p.White)
	var blackMinors = PopCount((p.Knights | p.Bishops) & p.Black)
	if whiteMinors > 2 || blackMinors > 2 || (whiteMinors == 2 && blackMinors == 2) {
		return false
	}
	var whiteBishops = PopCount(p.Bishops & p.White)
	var blackBishops = PopCount(p.Bishops & p.Black)
	if whiteBishops == 2 && blackBishops == 0 || blackBishops == 2 && whiteBishops == 0 {
		return false
	}
	return true
}

func (e *EvaluationService) Evaluate(p *Position) int {
	if IsGuaranteedDraw(p) {
		return 0
	}

	e.init(p)

	var s = p.Psqt
	if p.WhiteMove {
		s += tempo
	} else {
		s -= tempo
	}
	s += e.material(p, true) - e.material(p, false)
	s += e.pawns(p, true) - e.pawns(p, false)
	s += e.pieces(p, true) - e.pieces(p, false)
	s += e.kingSafety(p, true) - e.kingSafety(p, false)

	var phase = Phase(p)
	s = e.endgameRescale(p, s, phase)

	return interpolate(s, phase)
}

func (e *EvaluationService) init(p *Position) {
	var occ = p.AllPieces()
	for _, side := range [...]bool{true, false} {
		var us = SideIndex(side)
		var own = p.Colours(side)
		e.kingSq[us] = FirstOne(p.Kings & own)
		e.pawnAttacks[us] = AllPawnAttacks(side, p.Pawns&own)
		e.kingAttacks[us] = 0
		e.attackValues[us] = 0

		var attacked = e.pawnAttacks[us] | e.tables.King[e.kingSq[us]]
		for x := p.Knights & own; x != 0; x &= x - 1 {
			attacked |= e.tables.Knight[FirstOne(x)]
		}
		for x := (p.Bishops | p.Queens) & own; x != 0; x &= x - 1 {
			attacked |= e.tables.BishopAttacks(FirstOne(x), occ)
		}
		for x := (p.Rooks | p.Queens) & own; x != 0; x &= x - 1 {
			attacked |= e.tables.RookAttacks(FirstOne(x), occ)
		}
		e.attacked[us] = attacked
	}
}

func (e *EvaluationService) material(p *Position, side bool) Score {
	var own = p.Colours(side)
	var knights = PopCount(p.Knights & own)
	var bishops = PopCount(p.Bishops & own)
	var s = pawnValue*Score(PopCount(p.Pawns&own)) +
		(knightValue+knightValueWithPawns[PopCount(p.Pawns)])*Score(knights) +
		bishopValue*Score(bishops) +
		rookValue*Score(PopCount(p.Rooks&own)) +
		queenValue*Score(PopCount(p.Queens&own))
	if bishops >= 2 {
		s += bishopPair
	}
	return s
}

func (e *EvaluationService) pawns(p *Position, side bool) Score {
	var s Score
	var us, them = SideIndex(side), SideIndex(!side)
	var own = p.Pawns & p.Colours(side)
	var enemy = p.Pawns & p.Colours(!side)
	var occ = p.AllPieces()

	s += doubledPawn * Score(PopCount(own&FrontSpan(side, own)))
	s += pawnAttackCenter * Score(PopCount(e.pawnAttacks[us]&centerSquares))
	s += pawnMobility * Score(PopCount(Forward(side, own)&^occ))

	for x := own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var b = SquareMask[sq]
		var file = File(sq)
		var rank = RelativeRank(side, sq)

		if own&e.adjacentFiles[file] == 0 {
			s += isolatedPawn
		} else if b&e.pawnAttacks[us] == 0 {
			var stop = Forward(side, b)
			var supporters = own & e.adjacentFiles[file] &^ e.passedMask[us][sq]
			if supporters == 0 && stop&e.pawnAttacks[them] != 0 {
				s += backwardPawn
			}
		}

		if b&e.pawnAttacks[us] != 0 {
			s += pawnSupported[rank]
		}

		if enemy&e.passedMask[us][sq] == 0 && own&FrontSpan(side, b) == 0 {
			s += e.passedPawn(p, side, sq, rank)
		}
	}
	return s
}

func (e *EvaluationService) passedPawn(p *Position, side bool, sq, rank int) Score {
	var s = passedPawnBonus[rank]
	var us = SideIndex(side)
	var b = SquareMask[sq]
	var stop = Forward(side, b)
	var occ = p.AllPieces()

	if stop&occ == 0 {
		s += passedPawnNotBlocked[rank]
	}
	if b&e.pawnAttacks[us] == 0 && b&e.attacked[SideIndex(!side)] != 0 {
		s += weakPassedPawn
	}

	var stopSq = FirstOne(stop)
	var ownDistance = Max(1, SquareDistance(e.kingSq[us], stopSq))
	var enemyDistance = Max(1, SquareDistance(e.kingSq[SideIndex(!side)], stopSq))
	s += passedKingDistance[ownDistance-1]
	s += passedEnemyKingDistance[enemyDistance-1]
	s += passedSubtractDistance[ownDistance-enemyDistance+6]

	var behind = FrontSpan(!side, b) & e.tables.RookAttacks(sq, occ) & (p.Rooks | p.Queens)
	if behind&p.Rooks&p.Colours(side) != 0 {
		s += rookSupportsPasser
	}
	if behind&p.Rooks&p.Colours(!side) != 0 {
		s += enemyRookBehindPass
	}
	return s
}

func (e *EvaluationService) pieces(p *Position, side bool) Score {
	var s Score
	var us, them = SideIndex(side), SideIndex(!side)
	var own = p.Colours(side)
	var occ = p.AllPieces()
	var ownPawns = p.Pawns & own
	var enemyKing = e.kingSq[them]
	var kingZone = e.tables.KingZone[them][enemyKing]
	var mobilityArea = ^own &^ e.pawnAttacks[them]
	var safe = ^own &^ e.attacked[them]

	var kingAttack = func(piece int, attacks uint64) {
		if attacks&kingZone != 0 {
			e.kingAttacks[us]++
			e.attackValues[us] += attackWorth[piece] * PopCount(attacks&kingZone)
		}
		var checks = e.tables.AttacksFor(piece, side, enemyKing, occ)
		e.attackValues[us] += safeCheck[piece] * PopCount(attacks&checks&safe)
	}

	for x := p.Knights & own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var attacks = e.tables.Knight[sq]
		s += knightMobility[PopCount(attacks&mobilityArea)]
		if SquareMask[sq]&e.pawnAttacks[us] != 0 {
			s += knightSupported
			if p.Pawns&^own&e.outpostMask[us][sq] == 0 {
				s += knightOutpost[RelativeRank(side, sq)]
			}
		}
		kingAttack(Knight, attacks)
	}

	for x := p.Bishops & own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var attacks = e.tables.BishopAttacks(sq, occ)
		s += bishopMobility[PopCount(attacks&mobilityArea)]
		s += bishopDiagonalOwnPawns[PopCount(e.tables.DiagonallyAdjacent[sq]&ownPawns)]
		kingAttack(Bishop, attacks)
	}

	for x := p.Rooks & own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var attacks = e.tables.RookAttacks(sq, occ)
		s += rookMobility[PopCount(attacks&mobilityArea)]
		var file = FileMask[File(sq)]
		if file&p.Pawns == 0 {
			s += rookOnOpenFile
		} else if file&ownPawns == 0 {
			s += rookOnSemiOpenFile
		}
		if RelativeRank(side, sq) == Rank7 {
			s += rookOnSeventh
		}
		kingAttack(Rook, attacks)
	}

	for x := p.Queens & own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var attacks = e.tables.QueenAttacks(sq, occ)
		s += queenMobility[PopCount(attacks&mobilityArea)]
		var file = FileMask[File(sq)]
		if file&p.Pawns == 0 {
			s += queenOnOpenFile
		} else if file&ownPawns == 0 {
			s += queenOnSemiOpen
		}
		kingAttack(Queen, attacks)
	}

	return s
}

// kingSafety scores the attack against the enemy king collected by pieces,
// and the pawn shield in front of the own king.
func (e *EvaluationService) kingSafety(p *Position, side bool) Score {
	var us = SideIndex(side)
	var safety = safetyTable[Min(e.attackValues[us], len(safetyTable)-1)]
	var weight = attackWeight[Min(e.kingAttacks[us], len(attackWeight)-1)]
	var s = S(safety.Mg()*weight/100, safety.Eg()*weight/100)

	var king = e.kingSq[us]
	var shield = e.tables.ShieldingPawns[us][king]
	var ownPawns = p.Pawns & p.Colours(side)
	var missing, missingOnOpen = 0, 0
	for files := FileFill(shield); files != 0; {
		var file = FileMask[File(FirstOne(files))]
		files &^= file
		if shield&file&ownPawns == 0 {
			if file&p.Pawns == 0 {
				missingOnOpen++
			} else {
				missing++
			}
		}
	}
	s += shieldMissing[missing] + shieldMissingOnOpenFile[missingOnOpen]
	return s
}

// endgameRescale shrinks the endgame term when the side ahead has at most one pawn
// and not enough extra material to convert.
func (e *EvaluationService) endgameRescale(p *Position, s Score, phase int) Score {
	var score = interpolate(s, phase)
	var side = score >= 0
	var pawns = PopCount(p.Pawns & p.Colours(side))
	if pawns > 1 {
		return s
	}
	if score < 0 {
		score = -score
	}
	if score >= knightValue.Eg()+pawnValue.Eg() {
		return s
	}
	var whitePair = PopCount(p.Bishops&p.White) >= 2
	var blackPair = PopCount(p.Bishops&p.Black) >= 2
	if whitePair != blackPair {
		return s
	}
	var factor = scaleNormal
	if pawns == 0 {
		factor = scaleNoPawn
	} else if PopCount((p.Knights|p.Bishops)&p.Colours(!side)) >= 1 &&
		score+knightValue.Eg()-pawnValue.Eg() <= knightValue.Eg()+pawnValue.Eg() {
		factor = scaleEnemyCanSac
	}
	return S(s.Mg(), s.Eg()*factor/scaleNormal)
}

func interpolate(s Score, phase int) int {
	return (s.Mg()*phase + s.Eg()*(phaseScale-phase)) / phaseScale
}

package eval

import (
	. "github.com/tessera-chess/tessera/pkg/common"
)

const (
	egLimit    = 2350
	mgLimit    = 9100
	phaseScale = 128
)

const (
	scaleNormal      = 128
	scaleNoPawn      = 16
	scaleEnemyCanSac = 48
)

var (
	tempo = S(20, 10)

	pawnValue   = S(90, 120)
	knightValue = S(330, 290)
	bishopValue = S(345, 310)
	rookValue   = S(470, 540)
	queenValue  = S(1000, 980)
	bishopPair  = S(30, 55)

	// indexed by the number of pawns on the board
	knightValueWithPawns = initKnightValueWithPawns()

	doubledPawn      = S(-8, -22)
	isolatedPawn     = S(-10, -10)
	backwardPawn     = S(-6, -10)
	pawnAttackCenter = S(8, 0)
	pawnMobility     = S(3, 6)
	pawnSupported    = [8]Score{S(0, 0), S(0, 0), S(8, 4), S(10, 8), S(16, 14), S(30, 30), S(50, 60), S(0, 0)}

	passedPawnBonus      = [8]Score{S(0, 0), S(-5, 5), S(-5, 10), S(0, 25), S(20, 45), S(45, 85), S(80, 130), S(0, 0)}
	passedPawnNotBlocked = [8]Score{S(0, 0), S(0, 2), S(2, 5), S(5, 10), S(8, 20), S(15, 40), S(25, 70), S(0, 0)}
	weakPassedPawn       = S(-4, -14)
	rookSupportsPasser   = S(8, 20)
	enemyRookBehindPass  = S(-6, -18)

	// own and enemy king distance to the square in front of a passer, minus one
	passedKingDistance      = [7]Score{S(0, 20), S(0, 12), S(0, 4), S(0, -2), S(0, -8), S(0, -12), S(0, -16)}
	passedEnemyKingDistance = [7]Score{S(0, -30), S(0, -10), S(0, 4), S(0, 12), S(0, 18), S(0, 22), S(0, 25)}
	// own king distance minus enemy king distance, shifted by six
	passedSubtractDistance = [13]Score{
		S(0, 30), S(0, 25), S(0, 20), S(0, 15), S(0, 10), S(0, 5), S(0, 0),
		S(0, -5), S(0, -10), S(0, -15), S(0, -20), S(0, -25), S(0, -30),
	}

	knightSupported = S(10, 6)
	knightOutpost   = [8]Score{S(0, 0), S(0, 0), S(0, 0), S(10, 5), S(22, 10), S(30, 14), S(20, 10), S(0, 0)}

	knightMobility = [9]Score{S(-40, -50), S(-25, -30), S(-10, -15), S(-2, -5), S(5, 2), S(10, 8), S(15, 12), S(20, 14), S(24, 15)}
	bishopMobility = [14]Score{
		S(-35, -45), S(-20, -28), S(-8, -15), S(0, -5), S(6, 2), S(12, 8), S(16, 12),
		S(20, 16), S(22, 20), S(25, 22), S(28, 24), S(32, 25), S(35, 26), S(38, 27),
	}
	rookMobility = [15]Score{
		S(-30, -55), S(-20, -35), S(-10, -20), S(-6, -5), S(-2, 5), S(0, 12), S(4, 18), S(8, 24),
		S(12, 30), S(14, 35), S(16, 40), S(18, 44), S(20, 48), S(22, 50), S(24, 52),
	}
	queenMobility = initQueenMobility()

	bishopDiagonalOwnPawns = [5]Score{S(8, 10), S(2, 4), S(-4, -4), S(-10, -12), S(-16, -20)}

	rookOnOpenFile     = S(32, 8)
	rookOnSemiOpenFile = S(14, 6)
	rookOnSeventh      = S(4, 22)
	queenOnOpenFile    = S(-4, 8)
	queenOnSemiOpen    = S(4, 6)

	// missing shield pawns on the three files around the king
	shieldMissing           = [4]Score{S(0, 0), S(-12, 0), S(-30, 0), S(-50, 0)}
	shieldMissingOnOpenFile = [4]Score{S(0, 0), S(-18, 0), S(-45, 0), S(-80, 0)}

	attackWorth  = [King + 1]int{0, 0, 2, 2, 3, 5, 0}
	safeCheck    = [King + 1]int{0, 0, 3, 2, 4, 3, 0}
	attackWeight = [8]int{0, 0, 50, 75, 88, 94, 97, 99}
	safetyTable  = initSafetyTable()
)

func initKnightValueWithPawns() (result [17]Score) {
	for n := range result {
		result[n] = S(4*(n-12), 3*(n-12))
	}
	return
}

func initQueenMobility() (result [28]Score) {
	for n := range result {
		var mg = Min(3*n-20, 30)
		var eg = Min(5*n-40, 50)
		result[n] = S(mg, eg)
	}
	return
}

func initSafetyTable() (result [100]Score) {
	for n := range result {
		result[n] = S(Min(n*n/2, 500), Min(n*n/8, 125))
	}
	return
}

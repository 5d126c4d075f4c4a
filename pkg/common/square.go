package common

const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const SquareNone = -1

// Squares are numbered from a1 to h8 rank by rank.
const (
	SquareA1, SquareB1, SquareC1, SquareD1, SquareE1, SquareF1, SquareG1, SquareH1 = 8*iota + FileA, 8*iota + FileB, 8*iota + FileC, 8*iota + FileD, 8*iota + FileE, 8*iota + FileF, 8*iota + FileG, 8*iota + FileH
	SquareA2, SquareB2, SquareC2, SquareD2, SquareE2, SquareF2, SquareG2, SquareH2
	SquareA3, SquareB3, SquareC3, SquareD3, SquareE3, SquareF3, SquareG3, SquareH3
	SquareA4, SquareB4, SquareC4, SquareD4, SquareE4, SquareF4, SquareG4, SquareH4
	SquareA5, SquareB5, SquareC5, SquareD5, SquareE5, SquareF5, SquareG5, SquareH5
	SquareA6, SquareB6, SquareC6, SquareD6, SquareE6, SquareF6, SquareG6, SquareH6
	SquareA7, SquareB7, SquareC7, SquareD7, SquareE7, SquareF7, SquareG7, SquareH7
	SquareA8, SquareB8, SquareC8, SquareD8, SquareE8, SquareF8, SquareG8, SquareH8
)

func FlipSquare(sq int) int {
	return sq ^ 56
}

func File(sq int) int {
	return sq & 7
}

func Rank(sq int) int {
	return sq >> 3
}

func IsDarkSquare(sq int) bool {
	return (File(sq) & 1) == (Rank(sq) & 1)
}

func AbsDelta(x, y int) int {
	if x > y {
		return x - y
	}
	return y - x
}

// SquareDistance is the number of king moves between two squares.
func SquareDistance(sq1, sq2 int) int {
	return Max(AbsDelta(File(sq1), File(sq2)), AbsDelta(Rank(sq1), Rank(sq2)))
}

func MakeSquare(file, rank int) int {
	return (rank << 3) | file
}

func SquareName(sq int) string {
	return string([]byte{'a' + byte(File(sq)), '1' + byte(Rank(sq))})
}

// ParseSquare returns SquareNone for anything but a square name like "e4".
func ParseSquare(s string) int {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return SquareNone
	}
	return MakeSquare(int(s[0]-'a'), int(s[1]-'1'))
}

// RelativeRank counts ranks from the side's own back rank.
func RelativeRank(side bool, sq int) int {
	if side {
		return Rank(sq)
	}
	return Rank8 - Rank(sq)
}

func RelativeSquare(side bool, sq int) int {
	if side {
		return sq
	}
	return FlipSquare(sq)
}

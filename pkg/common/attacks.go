package common

// Magic maps (square, blockers) to a slot in the shared slider attack table.
type Magic struct {
	Mask   uint64
	Magic  uint64
	Shift  uint
	Offset int
}

func (m *Magic) index(occ uint64) int {
	return m.Offset + int(((occ&m.Mask)*m.Magic)>>m.Shift)
}

// AttackTables holds every precomputed lookup used by move generation and evaluation.
// It is built once by NewAttackTables and only read afterwards, so one instance is
// shared by all search threads.
type AttackTables struct {
	Knight       [64]uint64
	King         [64]uint64
	Pawn         [2][64]uint64
	RookMagics   [64]Magic
	BishopMagics [64]Magic
	sliders      []uint64
	between      [64][64]uint64

	KingZone           [2][64]uint64
	ShieldingPawns     [2][64]uint64
	FilesLessThan      [8]uint64
	FilesGreaterThan   [8]uint64
	RanksLessThan      [8]uint64
	RanksGreaterThan   [8]uint64
	DiagonallyAdjacent [64]uint64
}

const (
	bishopShift = 55
	rookShift   = 52
)

var (
	rookDirections   = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirections = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

var defaultAttacks = NewAttackTables()

// Attacks returns the process wide tables.
func Attacks() *AttackTables {
	return defaultAttacks
}

func NewAttackTables() *AttackTables {
	var t = &AttackTables{}
	t.sliders = make([]uint64, 64<<(64-rookShift)+64<<(64-bishopShift))
	var offset = t.initMagics(&t.RookMagics, &rookMagicNumbers, rookShift, 0, &rookDirections)
	t.initMagics(&t.BishopMagics, &bishopMagicNumbers, bishopShift, offset, &bishopDirections)

	for sq := 0; sq < 64; sq++ {
		var b = SquareMask[sq]

		t.Pawn[SideWhite][sq] = Up(Left(b) | Right(b))
		t.Pawn[SideBlack][sq] = Down(Left(b) | Right(b))

		t.Knight[sq] = Right(UpRight(b)) | Up(UpRight(b)) |
			Up(UpLeft(b)) | Left(UpLeft(b)) |
			Left(DownLeft(b)) | Down(DownLeft(b)) |
			Down(DownRight(b)) | Right(DownRight(b))

		t.King[sq] = UpRight(b) | Up(b) | UpLeft(b) | Left(b) |
			DownLeft(b) | Down(b) | DownRight(b) | Right(b)

		t.DiagonallyAdjacent[sq] = UpRight(b) | UpLeft(b) | DownRight(b) | DownLeft(b)
	}

	for s1 := 0; s1 < 64; s1++ {
		for s2 := 0; s2 < 64; s2++ {
			var b1, b2 = SquareMask[s1], SquareMask[s2]
			if t.RookAttacks(s1, 0)&b2 != 0 {
				t.between[s1][s2] = t.RookAttacks(s1, b2) & t.RookAttacks(s2, b1)
			} else if t.BishopAttacks(s1, 0)&b2 != 0 {
				t.between[s1][s2] = t.BishopAttacks(s1, b2) & t.BishopAttacks(s2, b1)
			}
		}
	}

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if j < i {
				t.FilesLessThan[i] |= FileMask[j]
				t.RanksLessThan[i] |= RankMask[j]
			} else if j > i {
				t.FilesGreaterThan[i] |= FileMask[j]
				t.RanksGreaterThan[i] |= RankMask[j]
			}
		}
	}

	for sq := 0; sq < 64; sq++ {
		for _, side := range [...]bool{true, false} {
			var zone = SquareMask[sq] | t.King[sq]
			zone |= Forward(side, zone)
			if File(sq) == FileA {
				zone |= Right(zone)
			} else if File(sq) == FileH {
				zone |= Left(zone)
			}
			t.KingZone[SideIndex(side)][sq] = zone

			var shieldSq = sq
			if File(sq) == FileA {
				shieldSq++
			} else if File(sq) == FileH {
				shieldSq--
			}
			var front = Forward(side, SquareMask[shieldSq])
			var shield = front | Left(front) | Right(front)
			t.ShieldingPawns[SideIndex(side)][sq] = shield | Forward(side, shield)
		}
	}

	return t
}

func (t *AttackTables) initMagics(magics *[64]Magic, numbers *[64]uint64,
	shift uint, offset int, directions *[4][2]int) int {
	for sq := 0; sq < 64; sq++ {
		var m = &magics[sq]
		m.Mask = slideMask(sq, directions)
		m.Magic = numbers[sq]
		m.Shift = shift
		m.Offset = offset
		offset += 1 << (64 - shift)

		// carry-rippler over every subset of the mask
		var occ uint64
		for {
			var attacks = slideAttacks(sq, occ, directions)
			var index = m.index(occ)
			if t.sliders[index] != 0 && t.sliders[index] != attacks {
				panic("magic collision on " + SquareName(sq))
			}
			t.sliders[index] = attacks
			occ = (occ - m.Mask) & m.Mask
			if occ == 0 {
				break
			}
		}
	}
	return offset
}

// slideAttacks is the ray casting definition of slider attacks.
func slideAttacks(sq int, occ uint64, directions *[4][2]int) uint64 {
	var result uint64
	for _, d := range directions {
		for f, r := File(sq)+d[0], Rank(sq)+d[1]; f >= 0 && f < 8 && r >= 0 && r < 8; f, r = f+d[0], r+d[1] {
			var b = SquareMask[MakeSquare(f, r)]
			result |= b
			if occ&b != 0 {
				break
			}
		}
	}
	return result
}

// slideMask is the set of squares whose occupancy can change a slider's attacks.
func slideMask(sq int, directions *[4][2]int) uint64 {
	var result uint64
	for _, d := range directions {
		for f, r := File(sq)+d[0], Rank(sq)+d[1]; f+d[0] >= 0 && f+d[0] < 8 && r+d[1] >= 0 && r+d[1] < 8; f, r = f+d[0], r+d[1] {
			result |= SquareMask[MakeSquare(f, r)]
		}
	}
	return result
}

func slowRookAttacks(sq int, occ uint64) uint64 {
	return slideAttacks(sq, occ, &rookDirections)
}

func slowBishopAttacks(sq int, occ uint64) uint64 {
	return slideAttacks(sq, occ, &bishopDirections)
}

func (t *AttackTables) RookAttacks(sq int, occ uint64) uint64 {
	return t.sliders[t.RookMagics[sq].index(occ)]
}

func (t *AttackTables) BishopAttacks(sq int, occ uint64) uint64 {
	return t.sliders[t.BishopMagics[sq].index(occ)]
}

func (t *AttackTables) QueenAttacks(sq int, occ uint64) uint64 {
	return t.RookAttacks(sq, occ) | t.BishopAttacks(sq, occ)
}

// Between is the set of squares strictly between two squares on a common line.
func (t *AttackTables) Between(s1, s2 int) uint64 {
	return t.between[s1][s2]
}

func (t *AttackTables) PawnAttacks(sq int, side bool) uint64 {
	return t.Pawn[SideIndex(side)][sq]
}

// AttacksFor returns the squares a piece of the given type attacks from sq.
func (t *AttackTables) AttacksFor(piece int, side bool, sq int, occ uint64) uint64 {
	switch piece {
	case Pawn:
		return t.PawnAttacks(sq, side)
	case Knight:
		return t.Knight[sq]
	case Bishop:
		return t.BishopAttacks(sq, occ)
	case Rook:
		return t.RookAttacks(sq, occ)
	case Queen:
		return t.QueenAttacks(sq, occ)
	case King:
		return t.King[sq]
	}
	return 0
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

package common

import "testing"

func TestSliderAttacksMatchRayCasting(t *testing.T) {
	var tables = NewAttackTables()
	for sq := 0; sq < 64; sq++ {
		var mask = tables.RookMagics[sq].Mask
		var occ uint64
		for {
			if got, want := tables.RookAttacks(sq, occ), slowRookAttacks(sq, occ); got != want {
				t.Fatalf("rook %v occ %v: got %v want %v", SquareName(sq),
					BitboardString(occ), BitboardString(got), BitboardString(want))
			}
			occ = (occ - mask) & mask
			if occ == 0 {
				break
			}
		}

		mask = tables.BishopMagics[sq].Mask
		for {
			if got, want := tables.BishopAttacks(sq, occ), slowBishopAttacks(sq, occ); got != want {
				t.Fatalf("bishop %v occ %v: got %v want %v", SquareName(sq),
					BitboardString(occ), BitboardString(got), BitboardString(want))
			}
			occ = (occ - mask) & mask
			if occ == 0 {
				break
			}
		}
	}
}

func TestQueenAttacksIgnoreOutsideBlockers(t *testing.T) {
	var tables = Attacks()
	// blockers on the board edge never change slider attacks
	var edges = Rank1Mask | Rank8Mask | FileAMask | FileHMask
	for _, sq := range []int{SquareD4, SquareE5, SquareB2, SquareG7} {
		var occ = edges &^ SquareMask[sq]
		if tables.QueenAttacks(sq, occ) != tables.QueenAttacks(sq, 0) {
			t.Error(SquareName(sq))
		}
		if tables.AttacksFor(Queen, true, sq, occ) != slowRookAttacks(sq, occ)|slowBishopAttacks(sq, occ) {
			t.Error(SquareName(sq))
		}
	}
}

func TestBetween(t *testing.T) {
	var tests = []struct {
		s1, s2 int
		want   uint64
	}{
		{SquareA1, SquareA4, SquareMask[SquareA2] | SquareMask[SquareA3]},
		{SquareA1, SquareD4, SquareMask[SquareB2] | SquareMask[SquareC3]},
		{SquareH8, SquareE8, SquareMask[SquareG8] | SquareMask[SquareF8]},
		{SquareA1, SquareB3, 0},
		{SquareE4, SquareE5, 0},
	}
	var tables = Attacks()
	for _, test := range tests {
		if got := tables.Between(test.s1, test.s2); got != test.want {
			t.Error(SquareName(test.s1), SquareName(test.s2), BitboardString(got))
		}
		if tables.Between(test.s1, test.s2) != tables.Between(test.s2, test.s1) {
			t.Error("between is not symmetric", SquareName(test.s1), SquareName(test.s2))
		}
	}
}

func TestLeaperAttacks(t *testing.T) {
	var tables = Attacks()
	if PopCount(tables.Knight[SquareA1]) != 2 || PopCount(tables.Knight[SquareD4]) != 8 {
		t.Error("knight attacks")
	}
	if PopCount(tables.King[SquareH8]) != 3 || PopCount(tables.King[SquareE4]) != 8 {
		t.Error("king attacks")
	}
	if tables.PawnAttacks(SquareE4, true) != SquareMask[SquareD5]|SquareMask[SquareF5] {
		t.Error("white pawn attacks")
	}
	if tables.PawnAttacks(SquareA7, false) != SquareMask[SquareB6] {
		t.Error("black pawn attacks")
	}
}

func TestDerivedMasks(t *testing.T) {
	var tables = Attacks()

	if tables.FilesLessThan[FileA] != 0 || tables.FilesGreaterThan[FileH] != 0 {
		t.Error("edge file masks")
	}
	if tables.FilesLessThan[FileC] != FileAMask|FileBMask {
		t.Error("files less than c")
	}
	if tables.RanksGreaterThan[Rank6] != Rank7Mask|Rank8Mask {
		t.Error("ranks greater than 6")
	}
	if tables.DiagonallyAdjacent[SquareA1] != SquareMask[SquareB2] {
		t.Error("diagonally adjacent a1")
	}

	var zone = tables.KingZone[SideWhite][SquareG1]
	if PopCount(zone) != 9 || zone&SquareMask[SquareG3] == 0 {
		t.Error("white king zone g1", BitboardString(zone))
	}
	for sq := 0; sq < 64; sq++ {
		if tables.KingZone[SideBlack][sq] != mirrorBitboard(tables.KingZone[SideWhite][FlipSquare(sq)]) {
			t.Error("king zone is not symmetric", SquareName(sq))
		}
		if tables.ShieldingPawns[SideBlack][sq] != mirrorBitboard(tables.ShieldingPawns[SideWhite][FlipSquare(sq)]) {
			t.Error("shield is not symmetric", SquareName(sq))
		}
	}

	var shield = tables.ShieldingPawns[SideWhite][SquareG1]
	var want = SquareMask[SquareF2] | SquareMask[SquareG2] | SquareMask[SquareH2] |
		SquareMask[SquareF3] | SquareMask[SquareG3] | SquareMask[SquareH3]
	if shield != want {
		t.Error("shield g1", BitboardString(shield))
	}
	if tables.ShieldingPawns[SideWhite][SquareH1] != want {
		t.Error("shield h1 must copy g1")
	}
}

func mirrorBitboard(b uint64) uint64 {
	var result uint64
	for x := b; x != 0; x &= x - 1 {
		result |= SquareMask[FlipSquare(FirstOne(x))]
	}
	return result
}

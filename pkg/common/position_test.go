package common

import (
	"errors"
	"math/rand"
	"testing"
)

var testFens = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
}

func TestFenRoundTrip(t *testing.T) {
	for _, fen := range testFens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		if p.String() != fen {
			t.Errorf("got %v want %v", p.String(), fen)
		}
	}
}

func TestInvalidFen(t *testing.T) {
	var tests = []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1",
		"4k3/8/8/8/8/8/8/4K2P w - - 0 1",
		"4k3/4R3/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - e5 0 1",
	}
	for _, fen := range tests {
		if _, err := NewPositionFromFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("%q: got %v", fen, err)
		}
	}
}

func TestCastleRightsWithoutRook(t *testing.T) {
	var p, err = NewPositionFromFEN("4k3/8/8/8/8/8/8/4K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if p.CastleRights != WhiteKingSide {
		t.Error(p.CastleRights)
	}
}

// Key, Psqt and PhaseMaterial must match a full recomputation after every move.
func TestIncrementalStateMatchesRecomputation(t *testing.T) {
	var r = rand.New(rand.NewSource(1))
	for _, fen := range testFens {
		for game := 0; game < 20; game++ {
			var p, err = NewPositionFromFEN(fen)
			if err != nil {
				t.Fatal(err)
			}
			for ply := 0; ply < 80; ply++ {
				var ml = p.GenerateLegalMoves()
				if len(ml) == 0 {
					break
				}
				var mv = ml[r.Intn(len(ml))]
				var child Position
				if !p.MakeMove(mv, &child) {
					t.Fatal("legal move rejected", p.String(), mv)
				}
				if child.Key != child.ComputeKey() {
					t.Fatal("key mismatch", p.String(), mv)
				}
				if child.Psqt != child.ComputePsqt() {
					t.Fatal("psqt mismatch", p.String(), mv)
				}
				if child.PhaseMaterial != child.ComputePhaseMaterial() {
					t.Fatal("phase mismatch", p.String(), mv)
				}
				var fromFen, _ = NewPositionFromFEN(child.String())
				if fromFen.Key != child.Key {
					t.Fatal("fen key mismatch", child.String())
				}
				p = child
			}
		}
	}
}

func TestNullMoveKey(t *testing.T) {
	var p, _ = NewPositionFromFEN(testFens[6])
	var child Position
	p.MakeNullMove(&child)
	if child.Key != child.ComputeKey() {
		t.Error("null move key")
	}
	if child.Key == p.Key {
		t.Error("side key not applied")
	}
}

func TestZobristSeed(t *testing.T) {
	var a = NewZobristKeys(zobristSeed)
	var b = NewZobristKeys(zobristSeed)
	if *a != *b {
		t.Error("keys must be reproducible")
	}
	if *a == *NewZobristKeys(zobristSeed + 1) {
		t.Error("different seeds gave equal keys")
	}
}

func TestInjectedTables(t *testing.T) {
	var keys = NewZobristKeys(zobristSeed + 1)
	var tables = NewAttackTables()
	var own, err = NewPositionFromFENWith(testFens[1], tables, keys)
	if err != nil {
		t.Fatal(err)
	}
	var def, _ = NewPositionFromFEN(testFens[1])
	if own.Tables() != tables || def.Tables() != Attacks() {
		t.Fatal("tables not attached")
	}
	if own.Key == def.Key {
		t.Error("keys ignored")
	}
	var ml = own.GenerateLegalMoves()
	if len(ml) != len(def.GenerateLegalMoves()) {
		t.Fatal("move generation differs")
	}
	for _, mv := range ml {
		var child Position
		own.MakeMove(mv, &child)
		if child.Key != child.ComputeKey() || child.Tables() != tables {
			t.Error("child lost its keys", mv)
		}
	}
}

func TestIsRepetition(t *testing.T) {
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var q = p
	for _, lan := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		var ok bool
		q, ok = q.MakeMoveLAN(lan)
		if !ok {
			t.Fatal(lan)
		}
	}
	if !q.IsRepetition(&p) {
		t.Error("knight shuffle is a repetition")
	}
	var other, _ = NewPositionFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w Kkq - 0 1")
	other.Key = p.Key
	if p.IsRepetition(&other) {
		t.Error("castle rights differ")
	}
}

func TestMirrorPosition(t *testing.T) {
	for _, fen := range testFens {
		var p, _ = NewPositionFromFEN(fen)
		var m = MirrorPosition(&p)
		if m.Psqt != -p.Psqt {
			t.Error("mirrored psqt", fen)
		}
		if m.PhaseMaterial != p.PhaseMaterial {
			t.Error("mirrored phase", fen)
		}
		var back = MirrorPosition(&m)
		if back.String() != p.String() {
			t.Error("double mirror", fen, back.String())
		}
	}
}

func TestMakeMoveKinds(t *testing.T) {
	var p, _ = NewPositionFromFEN("r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq d6 0 1")
	var tests = []struct {
		lan  string
		kind MoveKind
		fen  string
	}{
		{"e5d6", EnPassant, "r3k2r/8/3P4/8/8/8/8/R3K2R b KQkq - 0 1"},
		{"e1g1", CastleKingSide, "r3k2r/8/8/3pP3/8/8/8/R4RK1 b kq - 1 1"},
		{"e1c1", CastleQueenSide, "r3k2r/8/8/3pP3/8/8/8/2KR3R b kq - 1 1"},
		{"a1a8", Capture, "R3k2r/8/8/3pP3/8/8/8/4K2R b Kk - 0 1"},
	}
	for _, test := range tests {
		var mv, ok = p.ParseMoveLAN(test.lan)
		if !ok {
			t.Fatal(test.lan)
		}
		if mv.Kind() != test.kind {
			t.Error(test.lan, mv.Kind())
		}
		var child Position
		p.MakeMove(mv, &child)
		if child.String() != test.fen {
			t.Errorf("%v: got %v want %v", test.lan, child.String(), test.fen)
		}
	}

	var black, _ = NewPositionFromFEN("4k3/8/8/8/8/8/1p6/R3K3 b - - 0 1")
	var mv, ok = black.ParseMoveLAN("b2a1n")
	if !ok || mv.Kind() != Promotion || mv.CapturedPiece() != Rook {
		t.Fatal("promotion capture", mv)
	}
	var child Position
	black.MakeMove(mv, &child)
	if child.String() != "4k3/8/8/8/8/8/8/n3K3 w - - 0 2" {
		t.Error(child.String())
	}
}

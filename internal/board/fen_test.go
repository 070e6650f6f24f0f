package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		require.NoErrorf(t, err, "ParseFEN(%q)", fen)

		got := pos.ToFEN()
		reparsed, err := ParseFEN(got)
		require.NoErrorf(t, err, "ParseFEN(round-trip %q)", got)

		assert.Equalf(t, pos.Hash, reparsed.Hash, "round trip of %q produced %q with a different hash", fen, got)
		assert.Equalf(t, got, reparsed.ToFEN(), "round trip not stable: %q -> %q -> %q", fen, got, reparsed.ToFEN())

		if diff := cmp.Diff(pos, reparsed, cmpopts.IgnoreUnexported(Position{})); diff != "" {
			t.Errorf("round trip of %q changed exported Position fields (-original +reparsed):\n%s", fen, diff)
		}
	}
}

func TestComputeHashMatchesIncremental(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	require.NoError(t, err)

	ml := NewMoveList()
	GenCaptures(pos, ml)
	GenQuietMoves(pos, ml)
	require.NotZero(t, ml.Len(), "expected legal moves from the starting position")

	for i := 0; i < ml.Len(); i++ {
		child := pos.Copy()
		if !MakeMove(child, ml.Get(i)) {
			continue
		}
		assert.Equalf(t, child.ComputeHash(), child.Hash, "move %v: incremental hash mismatch", ml.Get(i))
	}
}

func TestIllegalFENMarkedInvalid(t *testing.T) {
	// A check on the side to move is legal; a king attacked while it is
	// the other side's turn (here, adjacent kings with White to move) is
	// not, and ParseFEN marks such a position invalid.
	pos, err := ParseFEN("4k3/8/4R3/8/8/8/8/4K3 b - - 0 1")
	require.NoError(t, err)
	require.True(t, pos.IsLegal(), "single-check position should be legal")

	pos2, err := ParseFEN("k7/1K6/8/8/8/8/8/8 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, pos2.IsLegal(), "adjacent kings should be flagged illegal")
	assert.True(t, pos2.IsInvalid(), "ParseFEN should mark the illegal position invalid")
}

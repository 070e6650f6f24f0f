package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeleany/vapor-go/internal/board"
)

func TestEvaluateMaterialAdvantage(t *testing.T) {
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	got := Evaluate(pos)
	assert.Greater(t, got, 0, "White is up a rook and should evaluate as ahead")
	assert.InDeltaf(t, float64(RookValue), float64(got), 40,
		"material delta should be close to one rook's value, got %d", got)
}

func TestSearchMaterialAdvantagePosition(t *testing.T) {
	eng := NewEngine()
	// Black's h-pawn is on h6 so that Ra8+ can be met by ...Kh7: with the
	// pawn on h7 instead, Ra8 would be an immediate back-rank mate.
	require.NoError(t, eng.SetGamePos("6k1/5pp1/7p/8/8/8/5PPP/R5K1 w - - 0 1"))

	result := eng.SearchRoot(UCILimits{MoveTime: 500 * time.Millisecond}, 6)
	require.NotEmpty(t, result.Moves)
	assert.Greater(t, result.Val, 0, "search should report White ahead")
	assert.Less(t, result.Val, LongMate, "this position is not a forced mate")
}

func TestSearchMateInOneAtDepthTwo(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.SetGamePos("k7/8/8/8/8/8/1R6/2R4K w - - 0 1"))

	result := eng.SearchRoot(UCILimits{MoveTime: time.Second}, 2)
	require.NotEmpty(t, result.Moves)
	assert.GreaterOrEqual(t, result.Val, LongMate)

	child := eng.Position().Copy()
	require.True(t, board.MakeMove(child, result.Moves[0]))
	assert.True(t, child.IsCheckmate(), "the reported mate-in-1 move should deliver checkmate")
}

func TestCoordinateNotationRoundTrip(t *testing.T) {
	pos := board.NewPosition()

	ml := board.NewMoveList()
	board.GenCaptures(pos, ml)
	board.GenQuietMoves(pos, ml)
	require.NotZero(t, ml.Len())

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		reparsed, err := board.ParseCoordMove(m.String(), pos)
		require.NoError(t, err)
		assert.Equal(t, m, reparsed)
	}
}

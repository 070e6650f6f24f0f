package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeleany/vapor-go/internal/board"
)

func TestSearchBasic(t *testing.T) {
	eng := NewEngine()

	limits := UCILimits{MoveTime: 300 * time.Millisecond}
	result := eng.SearchRoot(limits, 6)

	require.NotZero(t, result.Depth, "SearchRoot returned no completed depth for the starting position")
	require.NotEmpty(t, result.Moves)
	t.Logf("best move: %s (depth %d, val %d)", result.Moves[0], result.Depth, result.Val)
}

func TestSearchFindsMateInOne(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.SetGamePos("k7/8/8/8/8/8/1R6/2R4K w - - 0 1"))

	result := eng.SearchRoot(UCILimits{MoveTime: time.Second}, 4)
	require.NotEmpty(t, result.Moves)
	assert.GreaterOrEqualf(t, result.Val, LongMate, "expected a mate score >= %d, got %d", LongMate, result.Val)

	child := eng.Position().Copy()
	require.True(t, board.MakeMove(child, result.Moves[0]), "engine returned an illegal best move")
	assert.Truef(t, child.IsCheckmate(), "best move %s did not deliver checkmate", result.Moves[0])
}

func TestSearchCastlingPositionReturnsLegalMove(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.SetGamePos("4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1"))

	result := eng.SearchRoot(UCILimits{MoveTime: 500 * time.Millisecond}, 5)
	require.NotEmpty(t, result.Moves)

	child := eng.Position().Copy()
	assert.Truef(t, board.MakeMove(child, result.Moves[0]),
		"search returned a move that leaves its own king in check: %s", result.Moves[0])
}

func TestMakeGameMoveAndReset(t *testing.T) {
	eng := NewEngine()

	require.NoError(t, eng.MakeGameMove("e2e4"))
	assert.Equal(t, board.Black, eng.Position().SideToMove(), "expected Black to move after 1.e4")

	assert.Error(t, eng.MakeGameMove("e7e8q"), "e8 holds Black's own king, so e7e8q is not a legal move")

	eng.ResetGame()
	assert.Equal(t, board.NewPosition().Hash, eng.Position().Hash, "ResetGame did not restore the starting position")
}

func TestInitAndFreeHash(t *testing.T) {
	eng := NewEngine()
	eng.InitHash(4 * 1024 * 1024)
	assert.Zero(t, eng.HashFull(), "freshly (re)initialized hash table should report 0 permille used")

	eng.SearchRoot(UCILimits{MoveTime: 200 * time.Millisecond}, 6)
	eng.FreeHash()
	assert.Zero(t, eng.HashFull(), "freed hash table should report 0 permille used")
}

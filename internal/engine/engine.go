// Package engine implements the search and evaluation core.
package engine

import (
	"fmt"
	"time"

	"github.com/op/go-logging"

	"github.com/mikeleany/vapor-go/internal/board"
)

var log = logging.MustGetLogger("engine")

// defaultHashBytes is used when the UCI boundary has not yet called
// init_hash, so a fresh Engine is always searchable.
const defaultHashBytes = 16 * 1024 * 1024

// Engine is the single explicit owner of the process-wide state the
// source kept as globals (§9's "module-level globals" note): the
// transposition table, the current game position, and its history.
// The outer driver (the UCI boundary) owns one Engine and passes it by
// reference into every command handler.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher

	pos     *board.Position
	history []uint64 // game history's Zobrist keys, root to current, for repetition

	limits UCILimits
}

// NewEngine constructs an Engine with a transposition table sized to
// defaultHashBytes; callers that want a different size call InitHash
// before the first search_root.
func NewEngine() *Engine {
	tt := NewTranspositionTable(defaultHashBytes)
	e := &Engine{
		tt:       tt,
		searcher: NewSearcher(tt),
	}
	e.ResetGame()
	log.Info("engine initialized")
	return e
}

// ResetGame sets the current game to the starting position and clears
// its history, per reset_game().
func (e *Engine) ResetGame() {
	e.pos = board.NewPosition()
	e.history = e.history[:0]
	e.history = append(e.history, e.pos.Hash)
}

// SetGamePos parses fen and, if legal, makes it the current game
// position with a fresh (empty) history, per set_game_pos(fen).
func (e *Engine) SetGamePos(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("engine: invalid FEN: %w", err)
	}
	if pos.IsInvalid() {
		return fmt.Errorf("engine: illegal position: %s", fen)
	}

	e.pos = pos
	e.history = e.history[:0]
	e.history = append(e.history, e.pos.Hash)
	return nil
}

// MakeGameMove parses coord (coordinate notation, e.g. "e2e4", "e7e8q")
// against the current position and, if legal, applies it and appends
// the resulting hash to history, per make_game_move(coord_string).
func (e *Engine) MakeGameMove(coord string) error {
	m, err := board.ParseCoordMove(coord, e.pos)
	if err != nil {
		return fmt.Errorf("engine: invalid move: %w", err)
	}

	next := e.pos.Copy()
	if !board.MakeMove(next, m) {
		return fmt.Errorf("engine: illegal move: %s", coord)
	}

	e.pos = next
	e.history = append(e.history, e.pos.Hash)
	return nil
}

// Position returns the current game position.
func (e *Engine) Position() *board.Position {
	return e.pos
}

// InitHash (re)allocates the transposition table to sizeBytes, rounding
// down to a power-of-two bucket count and zeroing the memory.
func (e *Engine) InitHash(sizeBytes int) {
	e.tt = NewTranspositionTable(sizeBytes)
	e.searcher = NewSearcher(e.tt)
	log.Debugf("hash table (re)initialized: %d bytes requested", sizeBytes)
}

// FreeHash releases the transposition table and replaces it with a fresh,
// empty table of defaultHashBytes; a subsequent search_root will still
// work, just with no cached positions.
func (e *Engine) FreeHash() {
	e.tt = NewTranspositionTable(defaultHashBytes)
	e.searcher = NewSearcher(e.tt)
	log.Debug("hash table freed")
}

// SetCallbacks installs the print_pv and check_input callback pointers.
func (e *Engine) SetCallbacks(checkInput CheckInputFunc, printPV PrintPVFunc) {
	e.searcher.SetCallbacks(checkInput, printPV)
}

// Stop requests the running search to unwind at its next poll.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// SearchRoot runs iterative deepening from the current game position
// under limits, up to maxDepth plies, and returns the final PVData.
func (e *Engine) SearchRoot(limits UCILimits, maxDepth int) PVData {
	e.tt.NewSearch()
	start := time.Now()
	result := e.searcher.IterativeDeepening(e.pos, e.history, limits, maxDepth)
	log.Debugf("search_root: depth=%d nodes=%d val=%d elapsed=%s",
		result.Depth, result.Nodes, result.Val, time.Since(start))
	return result
}

// HashFull reports the permille of the transposition table in use, for
// the UCI "info hashfull" field.
func (e *Engine) HashFull() int {
	return e.tt.HashFull()
}

package engine

import (
	"time"

	"github.com/mikeleany/vapor-go/internal/board"
)

// Search constants (§4.9).
const (
	Infinity = 30000
	MaxPly   = 128

	// checkInterval is how often, in nodes, the search polls the input
	// callback and the hard clock — INPUT_NODES and CLOCK_NODES share one
	// cadence here since both are cheap checks.
	checkInterval = 2047 // checked when nodes & checkInterval == 0
)

// PVData is the public output of one completed iterative-deepening
// iteration, handed to the print_pv callback.
type PVData struct {
	Depth int
	Nodes uint64
	Val   int
	Time  time.Duration
	Moves []board.Move
}

// CheckInputFunc polls standard input for a stop/ponderhit/isready/quit
// command mid-search; it returns true if the search should stop now.
type CheckInputFunc func() bool

// PrintPVFunc is called once per completed iterative-deepening depth.
type PrintPVFunc func(PVData)

// Searcher runs the negamax search against one transposition table. It
// is reused across searches within one game; IterativeDeepening clears
// per-search state at its start but not the table.
type Searcher struct {
	tt *TranspositionTable
	tm *TimeManager

	nodes    uint64
	stopFlag bool

	// history is the Zobrist-key search path: game history up to the
	// root, followed by every position visited since, used to detect
	// repetition within the last draw_plies plies (§4.9 step 2).
	history []uint64

	pv    [MaxPly][MaxPly]board.Move
	pvLen [MaxPly]int

	checkInput CheckInputFunc
	printPV    PrintPVFunc
}

// NewSearcher creates a searcher bound to a transposition table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{tt: tt}
}

// SetCallbacks installs the print_pv and check_input callbacks.
func (s *Searcher) SetCallbacks(checkInput CheckInputFunc, printPV PrintPVFunc) {
	s.checkInput = checkInput
	s.printPV = printPV
}

// Stop requests the search to unwind at its next poll.
func (s *Searcher) Stop() {
	s.stopFlag = true
}

// Nodes returns the number of nodes visited by the most recent search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// pollStop checks the input callback and the hard clock every
// checkInterval nodes, latching stopFlag if either says to stop.
func (s *Searcher) pollStop() {
	if s.nodes&checkInterval != 0 {
		return
	}
	if s.checkInput != nil && s.checkInput() {
		s.stopFlag = true
		return
	}
	if s.tm != nil && s.tm.PastHard() {
		s.stopFlag = true
	}
}

// isRepetition reports whether hash appears among the last lookback
// entries of the search history.
func (s *Searcher) isRepetition(hash uint64, lookback int) bool {
	n := len(s.history)
	start := n - lookback
	if start < 0 {
		start = 0
	}
	for i := start; i < n; i++ {
		if s.history[i] == hash {
			return true
		}
	}
	return false
}

// IterativeDeepening runs negamax at depth = 1, 2, … up to maxDepth (or
// until the soft time budget elapses), reporting each completed
// iteration's PV via the print_pv callback and returning the last
// completed one (§4.9, "Iterative deepening").
func (s *Searcher) IterativeDeepening(pos *board.Position, gameHistory []uint64, limits UCILimits, maxDepth int) PVData {
	start := time.Now()
	s.nodes = 0
	s.stopFlag = false
	s.history = append(s.history[:0], gameHistory...)

	s.tm = NewTimeManager()
	s.tm.Init(limits, int(pos.SideToMove()))

	limit := maxDepth
	if limit <= 0 || limit > MaxPly-1 {
		limit = MaxPly - 1
	}
	if limits.Depth > 0 && limits.Depth < limit {
		limit = limits.Depth
	}

	rootMoves := board.NewMoveList()
	board.GenCaptures(pos, rootMoves)
	board.GenQuietMoves(pos, rootMoves)

	var result PVData
	var bestMove board.Move

	for depth := 1; depth <= limit; depth++ {
		if !bestMove.IsNone() {
			moveRootMoveToFront(rootMoves, bestMove)
		}

		alpha, beta := -Infinity, Infinity
		bestVal := -Infinity
		var depthBestMove board.Move
		legal := 0

		s.pvLen[0] = 0

		for i := 0; i < rootMoves.Len(); i++ {
			m := rootMoves.Get(i)
			child := pos.Copy()
			if !board.MakeMove(child, m) {
				continue
			}
			legal++

			score := -s.negamax(child, 1, depth-1, -beta, -alpha)
			if s.stopFlag {
				break
			}

			if score > bestVal {
				bestVal = score
				depthBestMove = m
				if score > alpha {
					alpha = score
					s.recordPV(0, m, 1)
				}
			}
		}

		if s.stopFlag || legal == 0 {
			break
		}

		bestMove = depthBestMove
		s.tt.Store(pos.Hash, board.NewHashMove(bestMove), hashScore(bestVal, 0), depth, BoundExact)

		result = PVData{
			Depth: depth,
			Nodes: s.nodes,
			Val:   bestVal,
			Time:  time.Since(start),
			Moves: append([]board.Move(nil), s.pv[0][:s.pvLen[0]]...),
		}
		if s.printPV != nil {
			s.printPV(result)
		}

		if s.tm.PastSoft() {
			break
		}
	}

	return result
}

func moveRootMoveToFront(ml *board.MoveList, m board.Move) {
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i) == m {
			if i != 0 {
				ml.Swap(0, i)
			}
			return
		}
	}
}

// recordPV installs m as ply's PV move and appends the child ply's PV
// behind it.
func (s *Searcher) recordPV(ply int, m board.Move, childPly int) {
	s.pv[ply][ply] = m
	for j := childPly; j < s.pvLen[childPly]; j++ {
		s.pv[ply][j] = s.pv[childPly][j]
	}
	s.pvLen[ply] = s.pvLen[childPly]
	if s.pvLen[ply] <= ply {
		s.pvLen[ply] = ply + 1
	}
}

// negamax implements §4.9's search(pos, ply, depth, alpha, beta).
func (s *Searcher) negamax(pos *board.Position, ply, depth, alpha, beta int) int {
	s.nodes++
	s.pollStop()
	if s.stopFlag {
		return Infinity
	}

	s.pvLen[ply] = ply

	if ply > 0 {
		if pos.DrawPlies >= 100 {
			return 0
		}
		if s.isRepetition(pos.Hash, pos.DrawPlies) {
			return 0
		}
	}

	s.history = append(s.history, pos.Hash)
	defer func() { s.history = s.history[:len(s.history)-1] }()

	inCheck := pos.InCheck()
	if inCheck {
		depth++
	}

	var ttMove board.HashMove
	if move, score, ttDepth, bound, ok := s.tt.Probe(pos.Hash); ok {
		ttMove = move
		if ttDepth >= depth {
			adj := unhashScore(score, ply)
			switch bound {
			case BoundLower:
				if adj >= beta {
					return adj
				}
			case BoundUpper:
				if adj <= alpha {
					return adj
				}
			case BoundExact:
				if adj > alpha && adj < beta {
					if expanded, err := pos.ExpandMove(move); err == nil {
						s.pv[ply][ply] = expanded
						s.pvLen[ply] = ply + 1
						return adj
					}
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiesce(pos, ply, alpha, beta)
	}

	ml := board.NewMoveList()
	board.GenCaptures(pos, ml)
	board.GenQuietMoves(pos, ml)
	if ttMove != board.NoHashMove {
		moveHashMoveToFront(ml, ttMove)
	}

	bestVal := -Infinity
	var bestMove board.Move
	bound := BoundUpper
	legal := 0

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		child := pos.Copy()
		if !board.MakeMove(child, m) {
			continue
		}
		legal++

		score := -s.negamax(child, ply+1, depth-1, -beta, -alpha)
		if s.stopFlag {
			return Infinity
		}

		if score > bestVal {
			bestVal = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = BoundExact
				s.recordPV(ply, m, ply+1)
			}
		}

		if score >= beta {
			s.tt.Store(pos.Hash, board.NewHashMove(m), hashScore(score, ply), depth, BoundLower)
			return score
		}
	}

	if legal == 0 {
		if inCheck {
			return -Infinity + ply
		}
		return 0
	}

	if bound == BoundExact {
		s.tt.Store(pos.Hash, board.NewHashMove(bestMove), hashScore(bestVal, ply), depth, BoundExact)
	} else {
		s.tt.Store(pos.Hash, board.NoHashMove, hashScore(bestVal, ply), depth, BoundUpper)
	}

	return bestVal
}

func moveHashMoveToFront(ml *board.MoveList, hm board.HashMove) {
	for i := 0; i < ml.Len(); i++ {
		if board.NewHashMove(ml.Get(i)) == hm {
			if i != 0 {
				ml.Swap(0, i)
			}
			return
		}
	}
}

// quiesce implements §4.9's quiesce(pos, alpha, beta): stand-pat bound,
// delta pruning, and a capture-only search in MVV/LVA order. It does not
// descend into check evasions for the side in check, matching the
// design note in §9.
func (s *Searcher) quiesce(pos *board.Position, ply, alpha, beta int) int {
	s.nodes++
	s.pollStop()
	if s.stopFlag {
		return Infinity
	}

	standPat := Evaluate(pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}
	if standPat+2*QueenValue <= alpha {
		return alpha
	}

	ml := board.NewMoveList()
	board.GenCaptures(pos, ml)

	bestVal := standPat
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)

		if m.Promotion == board.NoPieceType && m.IsCapture() {
			if standPat+pieceValues[m.Captured.Type()] < alpha {
				continue
			}
		}

		child := pos.Copy()
		if !board.MakeMove(child, m) {
			continue
		}

		score := -s.quiesce(child, ply+1, -beta, -alpha)
		if s.stopFlag {
			return Infinity
		}

		if score > bestVal {
			bestVal = score
		}
		if score > alpha {
			alpha = score
		}
		if score >= beta {
			return score
		}
	}

	return bestVal
}

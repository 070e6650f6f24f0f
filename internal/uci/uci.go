// Package uci implements the Universal Chess Interface boundary: line-
// oriented stdin/stdout protocol parsing that drives the engine core.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"

	"github.com/mikeleany/vapor-go/internal/board"
	"github.com/mikeleany/vapor-go/internal/engine"
)

// DebugMoveValidation, when enabled via "setoption name Debug value true",
// turns on extra info-string diagnostics during position setup.
var DebugMoveValidation bool

// UCI implements the Universal Chess Interface protocol loop, parsing
// commands from stdin and driving one engine.Engine.
type UCI struct {
	eng *engine.Engine

	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool
}

// New creates a new UCI protocol handler bound to eng.
func New(eng *engine.Engine) *UCI {
	u := &UCI{eng: eng}
	eng.SetCallbacks(u.checkInput, u.printPV)
	return u
}

// Run starts the UCI main loop, reading commands from stdin until EOF or
// "quit".
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(os.Stdout, "readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "ponderhit":
			// no pondering search branch to reconcile; treated as a no-op
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		case "divide":
			u.handleDivide(args)
		}
	}
}

// handleUCI responds to the "uci" handshake, advertising the Hash and
// Debug options vapor itself exposes, per the expanded option surface.
func (u *UCI) handleUCI() {
	fmt.Fprintln(os.Stdout, "id name vapor")
	fmt.Fprintln(os.Stdout, "id author mikeleany")
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, "option name Hash type spin default 16 min 1 max 4096")
	fmt.Fprintln(os.Stdout, "option name Debug type check default false")
	fmt.Fprintln(os.Stdout, "uciok")
}

// handleNewGame resets the engine's game state for a new game.
func (u *UCI) handleNewGame() {
	u.eng.ResetGame()
}

// handlePosition parses and sets up a position.
//
//	position startpos
//	position startpos moves e2e4 e7e5
//	position fen <fen>
//	position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.eng.ResetGame()
		moveStart = indexOf(args, "moves") + 1
		if moveStart == 0 {
			moveStart = len(args)
		}
	case "fen":
		fenEnd := len(args)
		if i := indexOf(args[1:], "moves"); i >= 0 {
			fenEnd = i + 1
		}
		fenStr := strings.Join(args[1:fenEnd], " ")
		if err := u.eng.SetGamePos(fenStr); err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid FEN: %v\n", err)
			return
		}
		moveStart = fenEnd + 1
		if moveStart > len(args) {
			moveStart = len(args)
		}
	default:
		return
	}

	for ; moveStart < len(args); moveStart++ {
		if err := u.eng.MakeGameMove(args[moveStart]); err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid move %s: %v\n", args[moveStart], err)
			return
		}
	}

	if DebugMoveValidation {
		pos := u.eng.Position()
		fmt.Fprintf(os.Stderr, "info string debug: hash=%016x inCheck=%v\n", pos.Hash, pos.InCheck())
	}
}

// indexOf returns the index of target in args, or -1 if absent.
func indexOf(args []string, target string) int {
	for i, a := range args {
		if a == target {
			return i
		}
	}
	return -1
}

// handleGo parses "go" options and runs one search, reporting completed
// iterations via printPV and emitting "bestmove" when done.
func (u *UCI) handleGo(args []string) {
	limits, maxDepth := u.parseGoOptions(args)

	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		result := u.eng.SearchRoot(limits, maxDepth)
		u.searching = false

		if len(result.Moves) > 0 {
			fmt.Fprintf(os.Stdout, "bestmove %s\n", result.Moves[0])
			return
		}
		fmt.Fprintln(os.Stdout, "bestmove 0000")
	}()
}

// parseGoOptions parses "go" command arguments into engine.UCILimits plus
// a maximum ply depth (0 meaning "use the engine default").
func (u *UCI) parseGoOptions(args []string) (engine.UCILimits, int) {
	var limits engine.UCILimits
	maxDepth := 0

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				maxDepth, _ = strconv.Atoi(args[i+1])
				limits.Depth = maxDepth
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				limits.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[board.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[board.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Inc[board.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Inc[board.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				limits.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return limits, maxDepth
}

// printPV is the engine's print_pv callback (§6): one "info" line per
// completed iterative-deepening depth.
func (u *UCI) printPV(pv engine.PVData) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", pv.Depth))

	if pv.Val >= engine.LongMate {
		mateIn := (engine.Infinity - pv.Val + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if pv.Val <= -engine.LongMate {
		mateIn := -(engine.Infinity + pv.Val + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", pv.Val))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", pv.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", pv.Time.Milliseconds()))
	if pv.Time > 0 {
		nps := uint64(float64(pv.Nodes) / pv.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, fmt.Sprintf("hashfull %d", u.eng.HashFull()))

	if len(pv.Moves) > 0 {
		strs := make([]string, len(pv.Moves))
		for i, m := range pv.Moves {
			strs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(strs, " "))
	}

	fmt.Fprintf(os.Stdout, "info %s\n", strings.Join(parts, " "))
}

// checkInput is the engine's check_input callback (§6): it reports
// whether a "stop" or "quit" read by the command loop has asked the
// running search to stop. It does not read stdin itself.
func (u *UCI) checkInput() bool {
	return u.stopRequested.Load()
}

// handleStop requests the running search to stop and waits for it to
// report its best move.
func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		u.eng.Stop()
		<-u.searchDone
	}
}

// handleQuit stops any running search and exits the process.
func (u *UCI) handleQuit() {
	u.handleStop()
	os.Exit(0)
}

// handleSetOption processes "setoption name <name> value <value>"; only
// Hash and Debug are recognized, per the minimal option surface.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			fmt.Fprintf(os.Stderr, "info string invalid Hash value: %s\n", value)
			return
		}
		u.eng.InitHash(mb * 1024 * 1024)
	case "debug":
		DebugMoveValidation = strings.EqualFold(value, "true")
	}
}

// handleDisplay prints the current position as a board diagram,
// highlighting the side to move with color when stdout is a terminal.
func (u *UCI) handleDisplay() {
	pos := u.eng.Position()
	side := "White"
	c := color.New(color.FgWhite, color.Bold)
	if pos.SideToMove() == board.Black {
		side = "Black"
		c = color.New(color.FgBlack, color.Bold)
	}
	fmt.Fprintln(os.Stdout, pos.String())
	c.Fprintf(os.Stdout, "side to move: %s\n", side)
	fmt.Fprintf(os.Stdout, "fen: %s\n", pos.ToFEN())
}

// handlePerft runs a perft node count from the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := board.Perft(u.eng.Position(), depth)
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stdout, "Nodes: %d\n", nodes)
	fmt.Fprintf(os.Stdout, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(os.Stdout, "NPS: %.0f\n", nps)
	}
}

// handleDivide runs perft_divide, printing the per-root-move leaf count,
// highlighting captures in color when stdout is a terminal.
func (u *UCI) handleDivide(args []string) {
	depth := 4
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	pos := u.eng.Position()
	captureHighlight := color.New(color.FgRed)

	captures := board.NewMoveList()
	board.GenCaptures(pos, captures)
	isCapture := make(map[string]bool, captures.Len())
	for i := 0; i < captures.Len(); i++ {
		isCapture[captures.Get(i).String()] = true
	}

	var total int64
	for moveStr, count := range board.PerftDivide(pos, depth) {
		if isCapture[moveStr] {
			captureHighlight.Fprintf(os.Stdout, "%s: %d\n", moveStr, count)
		} else {
			fmt.Fprintf(os.Stdout, "%s: %d\n", moveStr, count)
		}
		total += count
	}
	fmt.Fprintf(os.Stdout, "\nTotal: %d\n", total)
}

// Package engine implements the search and evaluation core.
package engine

import (
	"github.com/mikeleany/vapor-go/internal/board"
)

// Evaluation constants, matching board.PieceValue.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 1000
)

var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0, 0}

// Piece-square tables, indexed with a1 at index 0 and h8 at index 63 in
// row-major (rank, then file) order, so the first row as written is rank
// 1 and the last is rank 8. Only pawns and knights have a table; every
// other piece type gets no positional bonus, so material alone decides
// its contribution.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 0, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// pstIndex converts a square into the row-major index the tables above
// use, reading rank 1 first, consistent with White's point of view.
func pstIndex(sq board.Square) int {
	return sq.Rank()*8 + sq.File()
}

// pstBonus returns the positional bonus for a piece type on a square,
// from White's perspective; callers mirror the square (flip rank) to
// look up Black's bonus.
func pstBonus(pt board.PieceType, sq board.Square) int {
	switch pt {
	case board.Pawn:
		return pawnPST[pstIndex(sq)]
	case board.Knight:
		return knightPST[pstIndex(sq)]
	default:
		return 0
	}
}

// evalSide sums material plus piece-square bonus for every non-king
// piece of one color.
func evalSide(pos *board.Position, c board.Color) int {
	total := 0
	for pt := board.Pawn; pt < board.King; pt++ {
		bb := pos.Pieces[c][pt]
		for bb != 0 {
			sq := bb.PopLSB()
			total += pieceValues[pt]
			if c == board.White {
				total += pstBonus(pt, sq)
			} else {
				total += pstBonus(pt, sq.Mirror())
			}
		}
	}
	return total
}

// Evaluate returns a side-to-move-relative score (§4.7): White's total
// minus Black's if White is to move, else the reverse. Kings contribute
// no material and no positional bonus.
func Evaluate(pos *board.Position) int {
	white := evalSide(pos, board.White)
	black := evalSide(pos, board.Black)
	if pos.SideToMove() == board.White {
		return white - black
	}
	return black - white
}

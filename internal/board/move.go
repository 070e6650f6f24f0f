package board

import "fmt"

// MoveType disambiguates moves that are otherwise determined by their
// squares and pieces: it tells make_move whether to relocate a rook
// (Castle), whether to set the en-passant square (Advance2), or that
// verification of the move failed (Invalid).
type MoveType uint8

const (
	Standard MoveType = iota
	Castle
	Advance2
	InvalidMove
)

// Move is the full, unpacked representation of a chess move: the engine
// core passes these around, recomputing redundant fields (Piece, Captured)
// at generation time so later code never has to re-probe the position.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	Promotion PieceType
	Type      MoveType
	// EnPassant is set when Captured's square is not To but the square
	// directly behind it (the pawn being captured en passant). The move
	// type itself stays Standard per the data model; this bit is what
	// make_move and expand_move use to locate the actual captured pawn.
	EnPassant bool
}

// NoMove is the null move / "no move found" sentinel.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPiece, Captured: NoPiece, Promotion: NoPieceType, Type: InvalidMove}

// IsNone reports whether this is the null move.
func (m Move) IsNone() bool {
	return m.From == NoSquare || m.To == NoSquare
}

// IsPromotion reports whether this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsCapture reports whether this move captures a piece, including en
// passant (where the captured square differs from To).
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsEnPassant reports whether this move is an en-passant capture.
func (m Move) IsEnPassant() bool {
	return m.EnPassant
}

// CapturedSquare returns the square whose piece is actually removed by
// this move: same as To except for en passant, where it is the square
// directly behind the destination (same file as To, same rank as From).
func (m Move) CapturedSquare() Square {
	if m.EnPassant {
		return NewSquare(m.To.File(), m.From.Rank())
	}
	return m.To
}

// IsQuiet reports whether this move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns the coordinate-notation ("e2e4", "e7e8q") form of the
// move, as exchanged over the UCI boundary.
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(promotionChar(m.Promotion))
	}
	return s
}

func promotionChar(pt PieceType) byte {
	switch pt {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	default:
		return ' '
	}
}

func promotionFromChar(c byte) PieceType {
	switch c {
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	default:
		return NoPieceType
	}
}

// ParseCoordMove parses coordinate notation ("e2e4", "e7e8q") against the
// given position, filling in Piece/Captured/Type by inspecting it. This is
// the notation the UCI boundary exchanges with a GUI; it is distinct from
// the compact HashMove used only for transposition-table storage.
func ParseCoordMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	var promo PieceType = NoPieceType
	if len(s) == 5 {
		promo = promotionFromChar(s[4])
		if promo == NoPieceType {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	return pos.ExpandMove(HashMoveFromParts(from, to, promo))
}

// HashMove is the 16-bit compact encoding stored in the transposition
// table: 7 bits origin | 6 bits destination | 3 bits promotion piece type.
// The moved piece, captured piece, and move type are not stored; they are
// recomputed against the current position by Position.ExpandMove. A value
// of 0 means "no move".
type HashMove uint16

// NoHashMove is the "no move" encoding.
const NoHashMove HashMove = 0

// HashMoveFromParts packs an origin, destination, and optional promotion
// piece type (NoPieceType if none) into a HashMove.
func HashMoveFromParts(from, to Square, promo PieceType) HashMove {
	return HashMove(uint16(from) | uint16(to)<<7 | uint16(promo)<<13)
}

// NewHashMove packs a full Move down to its compact encoding.
func NewHashMove(m Move) HashMove {
	if m.IsNone() {
		return NoHashMove
	}
	return HashMoveFromParts(m.From, m.To, m.Promotion)
}

// Origin unpacks the origin square.
func (hm HashMove) Origin() Square {
	return Square(hm & 0x7F)
}

// Dest unpacks the destination square.
func (hm HashMove) Dest() Square {
	return Square((hm >> 7) & 0x3F)
}

// PromotionPiece unpacks the promotion piece type, or NoPieceType.
func (hm HashMove) PromotionPiece() PieceType {
	return PieceType((hm >> 13) & 0x7)
}

// MoveList is a fixed-size array of moves, sized to exceed the largest
// count of pseudo-legal moves reachable from any legal chess position, so
// that move generation never allocates.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Truncate resets the list to length n, discarding anything appended
// after it. Used to implement the move-stack snapshot/restore pattern:
// callers record Len() before calling a generator and Truncate back to it
// when they are done with the generated moves.
func (ml *MoveList) Truncate(n int) {
	ml.count = n
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether the list holds an exact match for m.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves currently in the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

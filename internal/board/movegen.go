package board

import "fmt"

// GenCaptures appends every pseudo-legal capture and promotion to ml, in
// the staged order of §4.4.1: capture-promotions first (queen, then the
// knight/rook/bishop under-promotion duplicates of the same capture),
// then the remaining captures ordered MVV/LVA (most valuable victim,
// least valuable attacker), then quiet (non-capture) promotions, and
// finally en passant captures last.
func GenCaptures(p *Position, ml *MoveList) {
	us := p.SideToMove()
	them := us.Other()
	enemy := p.Occupied[them]
	occ := p.AllOccupied

	genPawnCapturePromotions(p, ml, us, them)

	otherStart := ml.Len()
	genPawnPlainCaptures(p, ml, us, them)
	genLeaperCaptures(p, ml, us, enemy, p.Pieces[us][Knight])
	genLeaperCaptures(p, ml, us, enemy, p.Pieces[us][King])
	genSliderCaptures(p, ml, us, enemy, occ, p.Pieces[us][Bishop], Bishop, BishopAttacks)
	genSliderCaptures(p, ml, us, enemy, occ, p.Pieces[us][Rook], Rook, RookAttacks)
	genSliderCaptures(p, ml, us, enemy, occ, p.Pieces[us][Queen], Queen, QueenAttacks)
	sortMVVLVA(ml, otherStart, ml.Len())

	genPawnPushPromotions(p, ml, us)
	genEnPassant(p, ml, us, them)
}

// GenQuietMoves appends every pseudo-legal non-capture, non-promotion
// move to ml: pawn single/double pushes, leaper and slider quiet moves,
// and castling (itself fully pre-screened for legality, since a castle
// through check cannot be repaired by the general self-check test on
// only the final king square).
func GenQuietMoves(p *Position, ml *MoveList) {
	us := p.SideToMove()
	empty := ^p.AllOccupied

	genPawnQuiet(p, ml, us)
	genLeaperQuiet(p, ml, us, empty, p.Pieces[us][Knight])
	genLeaperQuiet(p, ml, us, empty, p.Pieces[us][King])
	genSliderQuiet(p, ml, us, empty, p.AllOccupied, p.Pieces[us][Bishop], Bishop, BishopAttacks)
	genSliderQuiet(p, ml, us, empty, p.AllOccupied, p.Pieces[us][Rook], Rook, RookAttacks)
	genSliderQuiet(p, ml, us, empty, p.AllOccupied, p.Pieces[us][Queen], Queen, QueenAttacks)
	genCastling(p, ml, us)
}

var promotionOrder = [4]PieceType{Queen, Knight, Rook, Bishop}

func genPawnCapturePromotions(p *Position, ml *MoveList, us, them Color) {
	promoRank := 7
	if us == Black {
		promoRank = 0
	}
	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()
		if from.RelativeRank(us) != 6 {
			continue
		}
		targets := PawnAttacks(from, us) & p.Occupied[them]
		for targets != 0 {
			to := targets.PopLSB()
			if to.Rank() != promoRank {
				continue
			}
			captured := p.PieceAt(to)
			piece := NewPiece(Pawn, us)
			for _, promo := range promotionOrder {
				ml.Add(Move{From: from, To: to, Piece: piece, Captured: captured, Promotion: promo, Type: Standard})
			}
		}
	}
}

func genPawnPushPromotions(p *Position, ml *MoveList, us Color) {
	promoRank := 7
	if us == Black {
		promoRank = 0
	}
	empty := ^p.AllOccupied
	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()
		if from.RelativeRank(us) != 6 {
			continue
		}
		to := PawnPushes(from, us) & empty
		if to == 0 {
			continue
		}
		sq := to.LSB()
		if sq.Rank() != promoRank {
			continue
		}
		piece := NewPiece(Pawn, us)
		for _, promo := range promotionOrder {
			ml.Add(Move{From: from, To: sq, Piece: piece, Captured: NoPiece, Promotion: promo, Type: Standard})
		}
	}
}

func genPawnPlainCaptures(p *Position, ml *MoveList, us, them Color) {
	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()
		if from.RelativeRank(us) == 6 {
			continue // handled by genPawnCapturePromotions
		}
		targets := PawnAttacks(from, us) & p.Occupied[them]
		for targets != 0 {
			to := targets.PopLSB()
			captured := p.PieceAt(to)
			ml.Add(Move{From: from, To: to, Piece: NewPiece(Pawn, us), Captured: captured, Promotion: NoPieceType, Type: Standard})
		}
	}
}

func genEnPassant(p *Position, ml *MoveList, us, them Color) {
	if p.Flags&EPLegal == 0 {
		return
	}
	epBB := SquareBB(p.EnPassant)
	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()
		if PawnAttacks(from, us)&epBB == 0 {
			continue
		}
		ml.Add(Move{
			From:      from,
			To:        p.EnPassant,
			Piece:     NewPiece(Pawn, us),
			Captured:  NewPiece(Pawn, them),
			Promotion: NoPieceType,
			Type:      Standard,
			EnPassant: true,
		})
	}
}

func genPawnQuiet(p *Position, ml *MoveList, us Color) {
	empty := ^p.AllOccupied
	promoRank := 7
	if us == Black {
		promoRank = 0
	}
	startRank := 1
	if us == Black {
		startRank = 6
	}

	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()
		single := PawnPushes(from, us) & empty
		if single == 0 {
			continue
		}
		to := single.LSB()
		if to.Rank() == promoRank {
			continue // promotions are captures-staged
		}
		ml.Add(Move{From: from, To: to, Piece: NewPiece(Pawn, us), Captured: NoPiece, Promotion: NoPieceType, Type: Standard})

		if from.Rank() == startRank {
			double := PawnPushes(to, us) & empty
			if double != 0 {
				ml.Add(Move{From: from, To: double.LSB(), Piece: NewPiece(Pawn, us), Captured: NoPiece, Promotion: NoPieceType, Type: Advance2})
			}
		}
	}
}

func genLeaperCaptures(p *Position, ml *MoveList, us Color, enemy Bitboard, pieces Bitboard) {
	piece := pieces
	for piece != 0 {
		from := piece.PopLSB()
		movedPiece := p.PieceAt(from)
		var attacks Bitboard
		if movedPiece.Type() == King {
			attacks = KingAttacks(from)
		} else {
			attacks = KnightAttacks(from)
		}
		targets := attacks & enemy
		for targets != 0 {
			to := targets.PopLSB()
			ml.Add(Move{From: from, To: to, Piece: movedPiece, Captured: p.PieceAt(to), Promotion: NoPieceType, Type: Standard})
		}
	}
}

func genLeaperQuiet(p *Position, ml *MoveList, us Color, empty Bitboard, pieces Bitboard) {
	piece := pieces
	for piece != 0 {
		from := piece.PopLSB()
		movedPiece := p.PieceAt(from)
		var attacks Bitboard
		if movedPiece.Type() == King {
			attacks = KingAttacks(from)
		} else {
			attacks = KnightAttacks(from)
		}
		targets := attacks & empty
		for targets != 0 {
			to := targets.PopLSB()
			ml.Add(Move{From: from, To: to, Piece: movedPiece, Captured: NoPiece, Promotion: NoPieceType, Type: Standard})
		}
	}
}

func genSliderCaptures(p *Position, ml *MoveList, us Color, enemy, occ Bitboard, pieces Bitboard, pt PieceType, attacksFn func(Square, Bitboard) Bitboard) {
	piece := pieces
	for piece != 0 {
		from := piece.PopLSB()
		targets := attacksFn(from, occ) & enemy
		movedPiece := NewPiece(pt, us)
		for targets != 0 {
			to := targets.PopLSB()
			ml.Add(Move{From: from, To: to, Piece: movedPiece, Captured: p.PieceAt(to), Promotion: NoPieceType, Type: Standard})
		}
	}
}

func genSliderQuiet(p *Position, ml *MoveList, us Color, empty, occ Bitboard, pieces Bitboard, pt PieceType, attacksFn func(Square, Bitboard) Bitboard) {
	piece := pieces
	for piece != 0 {
		from := piece.PopLSB()
		targets := attacksFn(from, occ) & empty
		movedPiece := NewPiece(pt, us)
		for targets != 0 {
			to := targets.PopLSB()
			ml.Add(Move{From: from, To: to, Piece: movedPiece, Captured: NoPiece, Promotion: NoPieceType, Type: Standard})
		}
	}
}

// castleSpec describes one of the four castling moves: the king's
// origin/destination, the rook's origin/destination, the squares that
// must be empty, and the squares (including the origin) that must not be
// attacked by the opponent.
type castleSpec struct {
	right             CastlingRights
	side              Color
	kingFrom, kingTo  Square
	rookFrom, rookTo  Square
	mustBeEmpty       Bitboard
	mustNotBeAttacked [3]Square
}

var castleSpecs = [4]castleSpec{
	{WhiteKingSideCastle, White, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), [3]Square{E1, F1, G1}},
	{WhiteQueenSideCastle, White, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [3]Square{E1, D1, C1}},
	{BlackKingSideCastle, Black, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), [3]Square{E8, F8, G8}},
	{BlackQueenSideCastle, Black, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [3]Square{E8, D8, C8}},
}

func genCastling(p *Position, ml *MoveList, us Color) {
	rights := p.CastlingRights()
	them := us.Other()

	for _, cs := range castleSpecs {
		if cs.side != us || rights&cs.right == 0 {
			continue
		}
		if p.AllOccupied&cs.mustBeEmpty != 0 {
			continue
		}
		attacked := false
		for _, sq := range cs.mustNotBeAttacked {
			if IsSquareAttacked(p, sq, them) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}
		ml.Add(Move{From: cs.kingFrom, To: cs.kingTo, Piece: NewPiece(King, us), Captured: NoPiece, Promotion: NoPieceType, Type: Castle})
	}
}

// sortMVVLVA orders ml[start:end] by descending victim value, then
// ascending attacker value, via a selection sort: the slice is short
// (rarely more than a handful of captures) so the quadratic cost is
// negligible and no allocation is needed.
func sortMVVLVA(ml *MoveList, start, end int) {
	score := func(m Move) int {
		return m.Captured.Value()*16 - m.Piece.Value()
	}
	for i := start; i < end; i++ {
		best := i
		for j := i + 1; j < end; j++ {
			if score(ml.Get(j)) > score(ml.Get(best)) {
				best = j
			}
		}
		if best != i {
			ml.Swap(i, best)
		}
	}
}

// ExpandMove recovers a full Move from a compact HashMove by generating
// the position's pseudo-legal moves and matching origin/destination/
// promotion against them. A promotion piece given for a move that is not
// a promotion is ignored; a promotion move without a promotion piece is
// rejected. This both expands the move's Piece/Captured/Type fields and
// verifies the move is pseudo-legal in the current position; callers
// still run it through MakeMove to confirm it does not leave the mover's
// own king attacked.
func (p *Position) ExpandMove(hm HashMove) (Move, error) {
	if hm == NoHashMove {
		return NoMove, fmt.Errorf("board: no move to expand")
	}

	from := hm.Origin()
	to := hm.Dest()
	promo := hm.PromotionPiece()

	ml := NewMoveList()
	GenCaptures(p, ml)
	GenQuietMoves(p, ml)

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m.From == from && m.To == to && (m.Promotion == promo || !m.IsPromotion()) {
			return m, nil
		}
	}

	return NoMove, fmt.Errorf("board: %s%s is not a legal move", from, to)
}

// MakeMove applies m to pos in place, following the incremental update
// of §4.6: remove any captured piece, relocate (or promote) the moving
// piece, relocate the rook on a castle, update castling rights, set or
// clear the en-passant square, update the half-move clock and full-move
// number, and flip the side to move — maintaining the Zobrist hash
// incrementally at every step rather than recomputing it from scratch.
// It returns false, and marks pos invalid, if the move leaves the
// mover's own king attacked; callers always pass a position obtained
// from Position.Copy, since there is no unmake.
func MakeMove(pos *Position, m Move) bool {
	us := pos.SideToMove()
	them := us.Other()

	if m.IsCapture() {
		capSq := m.CapturedSquare()
		captured := pos.removePiece(capSq)
		pos.Hash ^= zobristPiece[captured.Color()][captured.Type()][capSq]
	}

	pos.removePiece(m.From)
	pos.Hash ^= zobristPiece[us][m.Piece.Type()][m.From]

	placedType := m.Piece.Type()
	if m.IsPromotion() {
		placedType = m.Promotion
	}
	pos.setPiece(NewPiece(placedType, us), m.To)
	pos.Hash ^= zobristPiece[us][placedType][m.To]

	if m.Type == Castle {
		var rookFrom, rookTo Square
		switch m.To {
		case G1:
			rookFrom, rookTo = H1, F1
		case C1:
			rookFrom, rookTo = A1, D1
		case G8:
			rookFrom, rookTo = H8, F8
		case C8:
			rookFrom, rookTo = A8, D8
		}
		pos.removePiece(rookFrom)
		pos.Hash ^= zobristPiece[us][Rook][rookFrom]
		pos.setPiece(NewPiece(Rook, us), rookTo)
		pos.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	oldCR := pos.CastlingRights()
	newCR := oldCR
	if m.Piece.Type() == King {
		if us == White {
			newCR &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			newCR &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	switch m.From {
	case A1:
		newCR &^= WhiteQueenSideCastle
	case H1:
		newCR &^= WhiteKingSideCastle
	case A8:
		newCR &^= BlackQueenSideCastle
	case H8:
		newCR &^= BlackKingSideCastle
	}
	if m.IsCapture() && !m.IsEnPassant() {
		switch m.To {
		case A1:
			newCR &^= WhiteQueenSideCastle
		case H1:
			newCR &^= WhiteKingSideCastle
		case A8:
			newCR &^= BlackQueenSideCastle
		case H8:
			newCR &^= BlackKingSideCastle
		}
	}
	if newCR != oldCR {
		pos.Hash ^= zobristCastling[oldCR]
		pos.setCastlingRights(newCR)
		pos.Hash ^= zobristCastling[newCR]
	}

	if pos.Flags&EPLegal != 0 {
		pos.Hash ^= zobristEnPassant[pos.EnPassant.File()]
		pos.Flags &^= EPLegal
		pos.EnPassant = NoSquare
	}
	if m.Type == Advance2 {
		epSq := NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
		pos.EnPassant = epSq
		pos.Flags |= EPLegal
		pos.Hash ^= zobristEnPassant[epSq.File()]
	}

	if m.Piece.Type() == Pawn || m.IsCapture() {
		pos.DrawPlies = 0
	} else {
		pos.DrawPlies++
	}

	if us == Black {
		pos.MoveNum++
	}

	pos.Hash ^= zobristSideToMove
	pos.setSideToMove(them)

	if IsSquareAttacked(pos, pos.KingSquare[us], them) {
		pos.Flags |= InvalidPos
		return false
	}

	pos.updateCheckFlag()
	return true
}

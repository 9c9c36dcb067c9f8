package common

import (
	"bytes"
	"fmt"
	"math/rand"
	"strconv"
	s "strings"
	"unicode"
)

type coloredPiece struct {
	Type int
	Side bool
}

// Position is the mutable board state. All mutation goes through
// MakeMove/MakeNullMove and UnmakeMove, which keep an undo stack so a
// sequence of applied moves can be reversed exactly, field for field.
type Position struct {
	Pawns, Knights, Bishops, Rooks, Queens, Kings uint64
	White, Black, Checkers                        uint64
	WhiteMove                                     bool
	CastleRights, Rule50, FullMove, EpSquare      int
	Key, PawnKey                                  uint64
	LastMove                                      Move
	history                                       []undoRecord
}

// undoRecord captures everything MakeMove is about to change.
type undoRecord struct {
	move         Move
	castleRights int
	epSquare     int
	rule50       int
	fullMove     int
	key, pawnKey uint64
	checkers     uint64
	lastMove     Move
}

var castleMask [64]int

func createPosition(board [64]coloredPiece, wtm bool,
	castleRights, ep, fifty, fullmove int) (Position, bool) {
	var p = Position{
		WhiteMove:    wtm,
		CastleRights: castleRights,
		EpSquare:     ep,
		Rule50:       fifty,
		FullMove:     fullmove,
		LastMove:     MoveEmpty,
	}

	for sq, piece := range board {
		if piece.Type != Empty {
			p.togglePiece(piece.Type, piece.Side, sq)
		}
	}

	p.Key = p.computeKey()
	p.PawnKey = p.computePawnKey()
	p.Checkers = p.computeCheckers()

	if !p.isLegal() {
		return Position{}, false
	}
	return p, true
}

func NewPositionFromFEN(fen string) (Position, error) {
	var tokens = s.Split(fen, " ")
	if len(tokens) <= 3 {
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}

	var board [64]coloredPiece

	var i = 0
	for _, ch := range tokens[0] {
		if unicode.IsDigit(ch) {
			var n, _ = strconv.Atoi(string(ch))
			i += n
		} else if unicode.IsLetter(ch) {
			var pt = parsePiece(ch)
			if i >= 64 || pt.Type == Empty {
				return Position{}, fmt.Errorf("parse fen failed %v", fen)
			}
			board[FlipSquare(i)] = pt
			i++
		}
	}

	var whiteMove = tokens[1] == "w"

	var sCastleRights = tokens[2]
	var cr = 0
	if s.Contains(sCastleRights, "K") {
		cr |= WhiteKingSide
	}
	if s.Contains(sCastleRights, "Q") {
		cr |= WhiteQueenSide
	}
	if s.Contains(sCastleRights, "k") {
		cr |= BlackKingSide
	}
	if s.Contains(sCastleRights, "q") {
		cr |= BlackQueenSide
	}

	var epSquare = ParseSquare(tokens[3])

	var rule50 = 0
	if len(tokens) > 4 {
		rule50, _ = strconv.Atoi(tokens[4])
	}

	var fullmove = 1
	if len(tokens) > 5 {
		fullmove, _ = strconv.Atoi(tokens[5])
		if fullmove < 1 {
			fullmove = 1
		}
	}

	var pos, isLegal = createPosition(board, whiteMove, cr, epSquare, rule50, fullmove)
	if !isLegal {
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}
	return pos, nil
}

func (p *Position) String() string {
	var sb bytes.Buffer

	var emptyCount = 0

	for i := 0; i < 64; i++ {
		var sq = FlipSquare(i)
		var piece = p.WhatPiece(sq)
		if piece == Empty {
			emptyCount++
		} else {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}

			var pieceSide = (p.White & SquareMask[sq]) != 0
			sb.WriteString(pieceToChar(piece, pieceSide))
		}

		if File(sq) == FileH {
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			if Rank(sq) != Rank1 {
				sb.WriteString("/")
			}
		}
	}
	sb.WriteString(" ")

	if p.WhiteMove {
		sb.WriteString("w")
	} else {
		sb.WriteString("b")
	}
	sb.WriteString(" ")

	if p.CastleRights == 0 {
		sb.WriteString("-")
	} else {
		if (p.CastleRights & WhiteKingSide) != 0 {
			sb.WriteString("K")
		}
		if (p.CastleRights & WhiteQueenSide) != 0 {
			sb.WriteString("Q")
		}
		if (p.CastleRights & BlackKingSide) != 0 {
			sb.WriteString("k")
		}
		if (p.CastleRights & BlackQueenSide) != 0 {
			sb.WriteString("q")
		}
	}
	sb.WriteString(" ")

	if p.EpSquare == SquareNone {
		sb.WriteString("-")
	} else {
		sb.WriteString(SquareName(p.EpSquare))
	}
	sb.WriteString(" ")

	sb.WriteString(strconv.Itoa(p.Rule50))
	sb.WriteString(" ")

	sb.WriteString(strconv.Itoa(p.FullMove))

	return sb.String()
}

func pieceToChar(pieceType int, side bool) string {
	var result = string("pnbrqk"[pieceType-Pawn])
	if side {
		result = s.ToUpper(result)
	}
	return result
}

func (p *Position) GetPieceTypeAndSide(sq int) (pieceType int, side bool) {
	var bb = SquareMask[sq]
	if (p.White & bb) != 0 {
		side = true
	} else if (p.Black & bb) != 0 {
		side = false
	} else {
		pieceType = Empty
		return
	}
	pieceType = p.WhatPiece(sq)
	return
}

func (p *Position) WhatPiece(sq int) int {
	var bb = SquareMask[sq]
	if ((p.White | p.Black) & bb) == 0 {
		return Empty
	}
	if (p.Pawns & bb) != 0 {
		return Pawn
	}
	if (p.Knights & bb) != 0 {
		return Knight
	}
	if (p.Bishops & bb) != 0 {
		return Bishop
	}
	if (p.Rooks & bb) != 0 {
		return Rook
	}
	if (p.Queens & bb) != 0 {
		return Queen
	}
	if (p.Kings & bb) != 0 {
		return King
	}
	panic(fmt.Errorf("wrong piece on %s", SquareName(sq)))
}

// Clone returns an independent copy. Bitboard state is plain value data;
// only the undo stack needs a deep copy.
func (p *Position) Clone() Position {
	var result = *p
	result.history = make([]undoRecord, len(p.history), len(p.history)+64)
	copy(result.history, p.history)
	return result
}

// Ply returns the number of applied, not yet undone moves.
func (p *Position) Ply() int {
	return len(p.history)
}

// MakeMove applies a pseudo-legal move in place. If the move leaves the
// mover's own king attacked, the position is restored and false is
// returned. Callers must only pass moves produced by GenerateMoves or
// GenerateCaptures for this same position.
func (p *Position) MakeMove(move Move) bool {
	p.history = append(p.history, undoRecord{
		move:         move,
		castleRights: p.CastleRights,
		epSquare:     p.EpSquare,
		rule50:       p.Rule50,
		fullMove:     p.FullMove,
		key:          p.Key,
		pawnKey:      p.PawnKey,
		checkers:     p.Checkers,
		lastMove:     p.LastMove,
	})

	var from = move.From()
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()
	var side = p.WhiteMove

	p.Key ^= sideKey

	var newRights = p.CastleRights & castleMask[from] & castleMask[to]
	p.Key ^= castlingKey[newRights^p.CastleRights]
	p.CastleRights = newRights

	if movingPiece == Pawn || capturedPiece != Empty {
		p.Rule50 = 0
	} else {
		p.Rule50++
	}

	var epSquare = p.EpSquare
	if epSquare != SquareNone {
		p.Key ^= enpassantKey[File(epSquare)]
	}
	p.EpSquare = SquareNone

	if capturedPiece != Empty {
		if capturedPiece == Pawn && to == epSquare {
			p.xorPiece(Pawn, !side, to+let(side, -8, 8))
		} else {
			p.xorPiece(capturedPiece, !side, to)
		}
	}

	p.movePiece(movingPiece, side, from, to)

	if movingPiece == Pawn {
		if side {
			if to == from+16 {
				p.EpSquare = from + 8
				p.Key ^= enpassantKey[File(from+8)]
			}
			if Rank(to) == Rank8 {
				p.xorPiece(Pawn, true, to)
				p.xorPiece(move.Promotion(), true, to)
			}
		} else {
			if to == from-16 {
				p.EpSquare = from - 8
				p.Key ^= enpassantKey[File(from-8)]
			}
			if Rank(to) == Rank1 {
				p.xorPiece(Pawn, false, to)
				p.xorPiece(move.Promotion(), false, to)
			}
		}
	} else if movingPiece == King {
		if side {
			if from == SquareE1 && to == SquareG1 {
				p.movePiece(Rook, true, SquareH1, SquareF1)
			}
			if from == SquareE1 && to == SquareC1 {
				p.movePiece(Rook, true, SquareA1, SquareD1)
			}
		} else {
			if from == SquareE8 && to == SquareG8 {
				p.movePiece(Rook, false, SquareH8, SquareF8)
			}
			if from == SquareE8 && to == SquareC8 {
				p.movePiece(Rook, false, SquareA8, SquareD8)
			}
		}
	}

	if !side {
		p.FullMove++
	}
	p.WhiteMove = !side

	if !p.isLegal() {
		p.UnmakeMove()
		return false
	}

	p.Checkers = p.computeCheckers()
	p.LastMove = move
	return true
}

// MakeNullMove passes the turn. Only valid when the side to move is not
// in check. Reversed by UnmakeMove like any other move.
func (p *Position) MakeNullMove() {
	p.history = append(p.history, undoRecord{
		move:         MoveEmpty,
		castleRights: p.CastleRights,
		epSquare:     p.EpSquare,
		rule50:       p.Rule50,
		fullMove:     p.FullMove,
		key:          p.Key,
		pawnKey:      p.PawnKey,
		checkers:     p.Checkers,
		lastMove:     p.LastMove,
	})

	p.Key ^= sideKey
	if p.EpSquare != SquareNone {
		p.Key ^= enpassantKey[File(p.EpSquare)]
	}
	p.EpSquare = SquareNone
	p.Rule50++
	if !p.WhiteMove {
		p.FullMove++
	}
	p.WhiteMove = !p.WhiteMove
	p.Checkers = 0
	p.LastMove = MoveEmpty
}

// UnmakeMove reverses the most recent MakeMove or MakeNullMove. Calling
// it with nothing to undo is a programming error and panics.
func (p *Position) UnmakeMove() {
	if len(p.history) == 0 {
		panic("UnmakeMove called with empty undo stack")
	}
	var rec = p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]

	p.WhiteMove = !p.WhiteMove
	var side = p.WhiteMove

	var move = rec.move
	if move != MoveEmpty {
		var from = move.From()
		var to = move.To()
		var movingPiece = move.MovingPiece()

		if move.Promotion() != Empty {
			p.togglePiece(move.Promotion(), side, to)
			p.togglePiece(Pawn, side, from)
		} else {
			p.togglePiece(movingPiece, side, from)
			p.togglePiece(movingPiece, side, to)
		}

		var capturedPiece = move.CapturedPiece()
		if capturedPiece != Empty {
			if capturedPiece == Pawn && to == rec.epSquare {
				p.togglePiece(Pawn, !side, to+let(side, -8, 8))
			} else {
				p.togglePiece(capturedPiece, !side, to)
			}
		}

		if movingPiece == King {
			if side {
				if from == SquareE1 && to == SquareG1 {
					p.togglePiece(Rook, true, SquareF1)
					p.togglePiece(Rook, true, SquareH1)
				}
				if from == SquareE1 && to == SquareC1 {
					p.togglePiece(Rook, true, SquareD1)
					p.togglePiece(Rook, true, SquareA1)
				}
			} else {
				if from == SquareE8 && to == SquareG8 {
					p.togglePiece(Rook, false, SquareF8)
					p.togglePiece(Rook, false, SquareH8)
				}
				if from == SquareE8 && to == SquareC8 {
					p.togglePiece(Rook, false, SquareD8)
					p.togglePiece(Rook, false, SquareA8)
				}
			}
		}
	}

	p.CastleRights = rec.castleRights
	p.EpSquare = rec.epSquare
	p.Rule50 = rec.rule50
	p.FullMove = rec.fullMove
	p.Key = rec.key
	p.PawnKey = rec.pawnKey
	p.Checkers = rec.checkers
	p.LastMove = rec.lastMove
}

// Repeated reports whether the current position already occurred in the
// applied-move history, scanning back to the last irreversible move.
func (p *Position) Repeated() bool {
	for i := len(p.history) - 1; i >= 0; i-- {
		var rec = &p.history[i]
		if rec.key == p.Key {
			return true
		}
		if rec.rule50 == 0 || rec.move == MoveEmpty {
			return false
		}
	}
	return false
}

func (p *Position) PiecesByColor(side bool) uint64 {
	if side {
		return p.White
	}
	return p.Black
}

// togglePiece flips the piece's occupancy bits only; hash keys are the
// caller's concern.
func (p *Position) togglePiece(piece int, side bool, square int) {
	var b = SquareMask[square]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	switch piece {
	case Pawn:
		p.Pawns ^= b
	case Knight:
		p.Knights ^= b
	case Bishop:
		p.Bishops ^= b
	case Rook:
		p.Rooks ^= b
	case Queen:
		p.Queens ^= b
	case King:
		p.Kings ^= b
	}
}

func (p *Position) xorPiece(piece int, side bool, square int) {
	p.togglePiece(piece, side, square)
	p.Key ^= PieceSquareKey(piece, side, square)
	if piece == Pawn {
		p.PawnKey ^= PieceSquareKey(Pawn, side, square)
	}
}

func (p *Position) movePiece(piece int, side bool, from int, to int) {
	p.togglePiece(piece, side, from)
	p.togglePiece(piece, side, to)
	p.Key ^= PieceSquareKey(piece, side, from) ^ PieceSquareKey(piece, side, to)
	if piece == Pawn {
		p.PawnKey ^= PieceSquareKey(Pawn, side, from) ^ PieceSquareKey(Pawn, side, to)
	}
}

func (p *Position) isAttackedBySide(sq int, side bool) bool {
	var enemy = p.PiecesByColor(side)
	if (PawnAttacks(sq, !side) & p.Pawns & enemy) != 0 {
		return true
	}
	if (KnightAttacks[sq] & p.Knights & enemy) != 0 {
		return true
	}
	if (KingAttacks[sq] & p.Kings & enemy) != 0 {
		return true
	}
	var allPieces = p.White | p.Black
	if (BishopAttacks(sq, allPieces) & (p.Bishops | p.Queens) & enemy) != 0 {
		return true
	}
	if (RookAttacks(sq, allPieces) & (p.Rooks | p.Queens) & enemy) != 0 {
		return true
	}
	return false
}

func (p *Position) attackersTo(sq int) uint64 {
	var occ = p.White | p.Black
	return (blackPawnAttacks[sq] & p.Pawns & p.White) |
		(whitePawnAttacks[sq] & p.Pawns & p.Black) |
		(KnightAttacks[sq] & p.Knights) |
		(BishopAttacks(sq, occ) & (p.Bishops | p.Queens)) |
		(RookAttacks(sq, occ) & (p.Rooks | p.Queens)) |
		(KingAttacks[sq] & p.Kings)
}

func (p *Position) computeCheckers() uint64 {
	if p.WhiteMove {
		return p.attackersTo(FirstOne(p.Kings&p.White)) & p.Black
	}
	return p.attackersTo(FirstOne(p.Kings&p.Black)) & p.White
}

// isLegal checks that the side which just moved did not leave its own
// king attacked.
func (p *Position) isLegal() bool {
	var kingSq = FirstOne(p.Kings & p.PiecesByColor(!p.WhiteMove))
	return !p.isAttackedBySide(kingSq, p.WhiteMove)
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

func (p *Position) IsAttacked(sq int, bySide bool) bool {
	return p.isAttackedBySide(sq, bySide)
}

var (
	sideKey        uint64
	enpassantKey   [8]uint64
	castlingKey    [16]uint64
	pieceSquareKey [7 * 2 * 64]uint64
)

func PieceSquareKey(piece int, side bool, square int) uint64 {
	return pieceSquareKey[MakePiece(piece, side)*64+square]
}

func (p *Position) computeKey() uint64 {
	var result = uint64(0)
	if p.WhiteMove {
		result ^= sideKey
	}
	result ^= castlingKey[p.CastleRights]
	if p.EpSquare != SquareNone {
		result ^= enpassantKey[File(p.EpSquare)]
	}
	for i := 0; i < 64; i++ {
		var piece = p.WhatPiece(i)
		if piece != Empty {
			var side = (p.White & SquareMask[i]) != 0
			result ^= PieceSquareKey(piece, side, i)
		}
	}
	return result
}

func (p *Position) computePawnKey() uint64 {
	var result = uint64(0)
	for x := p.Pawns; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var side = (p.White & SquareMask[sq]) != 0
		result ^= PieceSquareKey(Pawn, side, sq)
	}
	return result
}

// ComputeKey rebuilds the zobrist key from scratch. The incrementally
// maintained Key must always match; tests rely on that.
func (p *Position) ComputeKey() uint64 {
	return p.computeKey()
}

func (p *Position) ComputePawnKey() uint64 {
	return p.computePawnKey()
}

func initKeys() {
	var r = rand.New(rand.NewSource(0))
	sideKey = r.Uint64()
	for i := range enpassantKey {
		enpassantKey[i] = r.Uint64()
	}
	for i := range pieceSquareKey {
		pieceSquareKey[i] = r.Uint64()
	}

	var castle [4]uint64
	for i := range castle {
		castle[i] = r.Uint64()
	}

	for i := range castlingKey {
		for j := 0; j < 4; j++ {
			if (i & (1 << uint(j))) != 0 {
				castlingKey[i] ^= castle[j]
			}
		}
	}
}

func MirrorPosition(p *Position) Position {
	var board [64]coloredPiece
	for i := range board {
		var pt, side = p.GetPieceTypeAndSide(i)
		if pt != Empty {
			board[FlipSquare(i)] = coloredPiece{pt, !side}
		}
	}
	var cr = (p.CastleRights >> 2) | ((p.CastleRights & 3) << 2)
	var ep = SquareNone
	if p.EpSquare != SquareNone {
		ep = FlipSquare(p.EpSquare)
	}
	var pos, _ = createPosition(board, !p.WhiteMove, cr, ep, p.Rule50, p.FullMove)
	return pos
}

func init() {
	initKeys()
	for i := range castleMask {
		castleMask[i] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	castleMask[SquareA1] &^= WhiteQueenSide
	castleMask[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	castleMask[SquareH1] &^= WhiteKingSide
	castleMask[SquareA8] &^= BlackQueenSide
	castleMask[SquareE8] &^= BlackQueenSide | BlackKingSide
	castleMask[SquareH8] &^= BlackKingSide
}

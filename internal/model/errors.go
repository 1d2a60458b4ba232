package model

import "errors"

var (
	ErrInvalidCoordinate      = errors.New("invalid coordinate")
	ErrEmptySource            = errors.New("no piece at from square")
	ErrEmptySquare            = errors.New("square is empty")
	ErrNotYourTurn            = errors.New("not your turn")
	ErrIllegalMove            = errors.New("illegal move")
	ErrPromotionRequired      = errors.New("promotion piece required")
	ErrPromotionNotApplicable = errors.New("move is not a promotion")
	ErrInvalidPromotion       = errors.New("invalid promotion piece")
	ErrKingMissing            = errors.New("king missing from board")
	ErrGameOver               = errors.New("game is over")
	ErrInvalidFEN             = errors.New("invalid FEN")
)

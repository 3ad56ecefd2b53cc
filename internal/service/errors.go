package service

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrTooManyGames  = errors.New("too many active games")
	ErrInvalidSquare = errors.New("square is off the board")
)

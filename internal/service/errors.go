package service

import "errors"

var (
	ErrInvalidChoice     = errors.New("invalid choice index")
	ErrInvalidQuizAnswer = errors.New("invalid quiz answer")
)

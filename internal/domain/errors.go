package domain

import "errors"

var (
	ErrAmbiguousID   = errors.New("flag id prefix is ambiguous")
	ErrFlagNotFound  = errors.New("flag not found")
	ErrInvalidStatus = errors.New("invalid flag status")
	ErrLogNotFound   = errors.New("log not found")
)

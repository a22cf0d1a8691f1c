package storage

import "errors"

var (
	ErrIndexUnreachable  = errors.New("vector index unreachable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

package lemma

import (
	"errors"

	"github.com/jamesainslie/go-lemma/token"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrInvalidToken indicates an input token whose lemma or offsets are
	// inconsistent. Such tokens are dropped.
	ErrInvalidToken = token.ErrInvalidToken

	// ErrInvalidOption indicates an Option value New cannot use.
	ErrInvalidOption = errors.New("lemma: invalid option")

	// ErrClosed indicates the Engine has been closed.
	ErrClosed = errors.New("lemma: engine closed")
)

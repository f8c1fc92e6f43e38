package treasury

import (
	"errors"
)

var (
	ErrNoResultFound     = errors.New("no result found")
	ErrDuplicate         = errors.New("already exists")
	ErrProposalPending   = errors.New("membership proposal already pending")
	ErrSubmitInFlight    = errors.New("submission already in flight")
	ErrInvalidTransition = errors.New("invalid flow transition")
)

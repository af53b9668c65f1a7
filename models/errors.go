package models

import "errors"

// Store-level errors. The store surfaces only these three; richer
// classification happens in the ledger service.
var (
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
)

// Ledger-level errors, the taxonomy exposed to callers.
var (
	ErrPollNotFound      = errors.New("poll not found")
	ErrPollClosed        = errors.New("poll is not open for voting")
	ErrPollHasVotes      = errors.New("poll already has votes")
	ErrInvalidOption     = errors.New("option or rating out of domain")
	ErrAlreadyVoted      = errors.New("participant already voted on this poll")
	ErrVoteNotFound      = errors.New("vote not found")
	ErrPetitionNotFound  = errors.New("petition not found")
	ErrPetitionNotActive = errors.New("petition is not active")
	ErrAlreadySigned     = errors.New("participant already signed this petition")
	ErrInvalidTransition = errors.New("illegal petition status transition")
	ErrInvalidRequest    = errors.New("invalid request")
)

package models

import "errors"

// Domain specific errors shared across the concierge pipeline.
var (
	ErrNotFound          = errors.New("requested item not found")
	ErrBadRequest        = errors.New("bad request")
	ErrValidation        = errors.New("validation failed")
	ErrUnknownDomain     = errors.New("unknown recommendation domain")
	ErrUpstream          = errors.New("upstream completion failed")
	ErrIncompleteStream  = errors.New("event stream ended before [DONE]")
	ErrInvalidDocument   = errors.New("structured document is invalid")
	ErrBlobNotFound      = errors.New("session blob not found")
	ErrEmptyConversation = errors.New("conversation has no messages")
)

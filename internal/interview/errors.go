package interview

import "errors"

// Sentinel errors for the fixed artifact/step space and session lifecycle.
// ErrEndOfStep and ErrEndOfInterview are ordinary progression signals,
// not failures.
var (
	ErrUnknownArtifact = errors.New("unknown artifact")
	ErrUnknownStep     = errors.New("unknown step")
	ErrEndOfStep       = errors.New("end of step")
	ErrEndOfInterview  = errors.New("end of interview")
	ErrNotActive       = errors.New("session is not active")
	ErrAlreadyStarted  = errors.New("session already started")
)

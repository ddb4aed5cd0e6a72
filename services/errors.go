package services

import "errors"

// Expected failures returned by services. Handlers translate these into HTTP
// statuses; anything else is treated as an internal error.
var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrExamNotFound       = errors.New("exam not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrInvalidExamLink    = errors.New("invalid exam link")
	ErrTestCompleted      = errors.New("test already completed")
	ErrAccessDenied       = errors.New("access denied")
)

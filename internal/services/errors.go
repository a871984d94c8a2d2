package services

import "errors"

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid input")
	ErrConflict  = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrUserNotFound     = newError(ErrNotFound, "user not found")
	ErrExerciseNotFound = newError(ErrNotFound, "exercise not found")
	ErrWorkoutNotFound  = newError(ErrNotFound, "workout not found")
	ErrSessionNotFound  = newError(ErrNotFound, "session not found")
	ErrSetNotFound      = newError(ErrNotFound, "set not found")
	ErrShareNotFound    = newError(ErrNotFound, "share not found")

	ErrWorkoutEditForbidden = newError(ErrForbidden, "you do not have permission to edit this workout")
	ErrWorkoutOwnerOnly     = newError(ErrForbidden, "only the owner can do this")
	ErrSessionFinished      = newError(ErrConflict, "session is already finished")
	ErrUserAlreadyExists    = newError(ErrConflict, "a user with this email already exists")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrNameRequired         = newError(ErrInvalid, "name is required")
	ErrNoExercises          = newError(ErrInvalid, "at least one exercise required")
	ErrExerciseNotAllowed   = newError(ErrInvalid, "exercise is not available for this workout")
	ErrUnknownRow           = newError(ErrInvalid, "exercise row does not belong to this workout")
	ErrDuplicateRow         = newError(ErrInvalid, "exercise row was submitted more than once")
	ErrInvalidSuggestion    = newError(ErrInvalid, "suggested sets and reps must be at least 1")
	ErrInvalidReps          = newError(ErrInvalid, "reps must be at least 1")
	ErrInvalidWeight        = newError(ErrInvalid, "weight must not be negative")
	ErrExerciseNotInWorkout = newError(ErrInvalid, "exercise is not part of this workout")
	ErrRecipientNotFound    = newError(ErrInvalid, "no user found with that email")
	ErrCannotShareWithSelf  = newError(ErrInvalid, "you cannot share a workout with yourself")
	ErrPasswordTooShort     = newError(ErrInvalid, "password must be at least 8 characters")
	ErrEmailRequired        = newError(ErrInvalid, "email is required")
)

package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies expected failures so the API layer can choose a status.
type ErrorKind int

const (
	KindFailure ErrorKind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "failure"
	}
}

// Error is the structured error returned by services for expected conditions.
// Fields is only populated for validation errors: field name -> messages.
type Error struct {
	Kind        ErrorKind
	Code        string
	Description string
	Fields      map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("%s: %s (%d fields)", e.Code, e.Description, len(e.Fields))
}

// Is matches on Code so a freshly built error compares equal to a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NotFound(code, description string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Description: description}
}

func Validation(code, description string) *Error {
	return &Error{Kind: KindValidation, Code: code, Description: description}
}

func Unauthorized(code, description string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Description: description}
}

func Conflict(code, description string) *Error {
	return &Error{Kind: KindConflict, Code: code, Description: description}
}

// ValidationFields builds a validation error carrying per-field messages.
func ValidationFields(fields map[string][]string) *Error {
	return &Error{
		Kind:        KindValidation,
		Code:        "General.Validation",
		Description: "One or more validation errors occurred",
		Fields:      fields,
	}
}

// KindOf returns the kind of err, or KindFailure for infrastructure errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFailure
}

var (
	ErrPageNotFound = NotFound("Page.NotFound", "Page with given number does not exist")

	ErrUserNotFound       = NotFound("User.NotFound", "User with given id does not exist")
	ErrDuplicateEmail     = Conflict("User.DuplicateEmail", "Email is already in use")
	ErrInvalidCredentials = Unauthorized("Authentication.InvalidCredentials", "Invalid credentials")
	ErrEmailConfirmation  = Validation("Authentication.InvalidEmailConfirmation", "Email confirmation token is invalid")
	ErrAccessDenied       = Unauthorized("Authorization.Denied", "Access denied")

	ErrExerciseNotFound    = NotFound("Exercise.NotFound", "Exercise with given id does not exist")
	ErrMuscleNotFound      = NotFound("Muscle.NotFound", "Muscle with given id does not exist")
	ErrMuscleGroupNotFound = NotFound("MuscleGroup.NotFound", "MuscleGroup with given id does not exist")
	ErrWorkoutNotFound     = NotFound("Workout.NotFound", "Workout with given id does not exist")
	ErrCoachNotFound       = NotFound("Coach.NotFound", "Coach with given id does not exist")

	ErrDuplicateExerciseName    = Conflict("Exercise.DuplicateName", "Exercise with given name already exists")
	ErrDuplicateMuscleName      = Conflict("Muscle.DuplicateName", "Muscle with given name already exists")
	ErrDuplicateMuscleGroupName = Conflict("MuscleGroup.DuplicateName", "MuscleGroup with given name already exists")

	ErrCoachApplicationNotFound = NotFound("CoachApplication.NotFound", "Coach application with given id does not exist")
	ErrCoachApplicationClosed   = Conflict("CoachApplication.Closed", "Coach application has already been closed")
	ErrCoachApplicationPending  = Conflict("CoachApplication.Pending", "User already has a pending coach application")
	ErrAlreadyCoach             = Conflict("Coach.AlreadyExists", "User already has a coach profile")

	ErrUploadNotFound = NotFound("Upload.NotFound", "Upload with given id does not exist")

	ErrPasswordResetTokenInvalid = Validation("PasswordReset.InvalidToken", "Password reset token is invalid or expired")
)

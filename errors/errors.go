package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Kinds of failure. Every specific error below unwraps to exactly one of them,
// so callers can branch either on the precise error or on its kind.
var (
	ErrValidation      = fmt.Errorf("validation error")
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	ErrAuthorization   = fmt.Errorf("authorization error")
	ErrStateConflict   = fmt.Errorf("state conflict")
	ErrNotFound        = fmt.Errorf("not found")
	ErrTransport       = fmt.Errorf("transport error")
	ErrPersistence     = fmt.Errorf("persistence error")
)

// DomainError is a user-facing failure carrying its kind.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func (e *DomainError) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *DomainError {
	return &DomainError{Kind: kind, Msg: msg}
}

var (
	ErrSelfReference      = newError(ErrValidation, "you cannot send a friend request to yourself")
	ErrEmptyBody          = newError(ErrValidation, "text or image is required")
	ErrTextTooLong        = newError(ErrValidation, "text is too long")
	ErrSelfMessage        = newError(ErrValidation, "you cannot send a message to yourself")
	ErrInvalidImage       = newError(ErrValidation, "image is not a supported picture")
	ErrGroupNameRequired  = newError(ErrValidation, "group name and members are required")
	ErrInvalidPassword    = newError(ErrValidation, "password does not meet complexity requirements")
	ErrInvalidRequest     = newError(ErrValidation, "invalid request")
	ErrMismatchedTarget   = newError(ErrValidation, "group id does not match the target")
	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid email or password")
	ErrInvalidToken       = newError(ErrUnauthenticated, "invalid or expired token")
	ErrNotRequestReceiver = newError(ErrAuthorization, "you are not authorized to accept this request")
	ErrNotAMember         = newError(ErrAuthorization, "you are not a member of this group")
	ErrNotAFriend         = newError(ErrAuthorization, "you can only add your friends")
	ErrNotAParticipant    = newError(ErrAuthorization, "you are not part of this conversation")
	ErrDuplicateRequest   = newError(ErrStateConflict, "friend request already sent")
	ErrAlreadyFriends     = newError(ErrStateConflict, "you are already friends")
	ErrInvalidState       = newError(ErrStateConflict, "request is already processed")
	ErrAlreadyMember      = newError(ErrStateConflict, "user is already in the group")
	ErrAdminRemoval       = newError(ErrStateConflict, "the group admin cannot be removed")
	ErrUserAlreadyExists  = newError(ErrStateConflict, "email already exists")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrUnknownRecipient   = newError(ErrNotFound, "recipient does not exist")
	ErrRequestNotFound    = newError(ErrNotFound, "friend request not found")
	ErrGroupNotFound      = newError(ErrNotFound, "group not found")
	ErrMessageNotFound    = newError(ErrNotFound, "message not found")
)

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
	ErrTokenGeneration   = fmt.Errorf("token generation failed")
	ErrDeliveryQueueFull = fmt.Errorf("%w: delivery queue full", ErrTransport)
)

// Persistence wraps a storage failure so it surfaces as a generic error.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// Validation builds an ad hoc validation error from a validator message.
func Validation(msg string) error {
	return newError(ErrValidation, strings.TrimSpace(msg))
}

// HTTPStatus maps an error to the status code returned by the REST API.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrValidation):
		return http.StatusBadRequest
	case Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case Is(err, ErrAuthorization):
		return http.StatusForbidden
	case Is(err, ErrNotFound):
		return http.StatusNotFound
	case Is(err, ErrStateConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show to a client.
// Anything that is not a known domain error is reported generically.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	var domainErr *DomainError
	if As(err, &domainErr) {
		return domainErr.Msg
	}
	return err.Error()
}

// Is, As and Join forward to the standard library so callers importing this
// package do not need both.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func Join(errs ...error) error { return stderrors.Join(errs...) }

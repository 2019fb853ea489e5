package game

import (
	"errors"
	"net/http"
)

// Kind groups error codes into the recoverable failure classes callers
// branch on.
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindStateConflict Kind = "state_conflict"
	KindCapacity      Kind = "capacity"
	KindNotFound      Kind = "not_found"
	KindUnauthorized  Kind = "unauthorized"
	KindAlreadyDone   Kind = "already_done"
	KindPolicyBlocked Kind = "policy_blocked"
	KindInternal      Kind = "internal"
)

// HTTPStatus maps a kind to the status code the transport layer answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindStateConflict, KindAlreadyDone:
		return http.StatusConflict
	case KindCapacity:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPolicyBlocked:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Code is a machine-readable error code.
type Code string

const (
	CodeNameEmpty             Code = "NAME_EMPTY"
	CodeNameTaken             Code = "NAME_TAKEN"
	CodeRoomFull              Code = "ROOM_FULL"
	CodeAlreadyStarted        Code = "ALREADY_STARTED"
	CodeInvalidToken          Code = "INVALID_TOKEN"
	CodeInvalidAvatar         Code = "INVALID_AVATAR"
	CodeInvalidTone           Code = "INVALID_TONE"
	CodeInvalidMode           Code = "INVALID_MODE"
	CodeWrongPhase            Code = "WRONG_PHASE"
	CodeNotEnoughPlayers      Code = "NOT_ENOUGH_PLAYERS"
	CodeAlreadyVoted          Code = "ALREADY_VOTED"
	CodeInvalidVoteTarget     Code = "INVALID_VOTE_TARGET"
	CodeUnlockRequired        Code = "UNLOCK_REQUIRED"
	CodeAlreadyUnlocked       Code = "ALREADY_UNLOCKED"
	CodeCheckoutOpen          Code = "CHECKOUT_OPEN"
	CodeCheckoutNotFound      Code = "CHECKOUT_NOT_FOUND"
	CodeCheckoutResolved      Code = "CHECKOUT_RESOLVED"
	CodeCheckoutNotAllowed    Code = "CHECKOUT_NOT_ALLOWED"
	CodeInsufficientQuestions Code = "INSUFFICIENT_QUESTIONS"
	CodeAlreadyPaused         Code = "ALREADY_PAUSED"
	CodeNotPaused             Code = "NOT_PAUSED"
	CodeInternal              Code = "INTERNAL"
)

// Error is a session failure with a stable code and user-facing message.
type Error struct {
	Code    Code
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, kind Kind, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message}
}

func wrap(base *Error, cause error) *Error {
	return &Error{Code: base.Code, Kind: base.Kind, Message: base.Message, Cause: cause}
}

var (
	ErrNameEmpty             = newError(CodeNameEmpty, KindInvalidInput, "name is required")
	ErrNameTaken             = newError(CodeNameTaken, KindInvalidInput, "name is already taken")
	ErrRoomFull              = newError(CodeRoomFull, KindCapacity, "room is full")
	ErrAlreadyStarted        = newError(CodeAlreadyStarted, KindStateConflict, "game already started")
	ErrInvalidToken          = newError(CodeInvalidToken, KindUnauthorized, "unknown player token")
	ErrInvalidAvatar         = newError(CodeInvalidAvatar, KindInvalidInput, "unknown avatar")
	ErrInvalidTone           = newError(CodeInvalidTone, KindInvalidInput, "unknown tone")
	ErrInvalidMode           = newError(CodeInvalidMode, KindInvalidInput, "unknown game mode")
	ErrWrongPhase            = newError(CodeWrongPhase, KindStateConflict, "action not allowed in current phase")
	ErrNotEnoughPlayers      = newError(CodeNotEnoughPlayers, KindCapacity, "not enough players")
	ErrAlreadyVoted          = newError(CodeAlreadyVoted, KindAlreadyDone, "already voted")
	ErrInvalidVoteTarget     = newError(CodeInvalidVoteTarget, KindInvalidInput, "vote target is not a player")
	ErrUnlockRequired        = newError(CodeUnlockRequired, KindPolicyBlocked, "18+ mode is not unlocked")
	ErrAlreadyUnlocked       = newError(CodeAlreadyUnlocked, KindAlreadyDone, "18+ mode is already unlocked")
	ErrCheckoutOpen          = newError(CodeCheckoutOpen, KindStateConflict, "a checkout is already open")
	ErrCheckoutNotFound      = newError(CodeCheckoutNotFound, KindNotFound, "checkout not found")
	ErrCheckoutResolved      = newError(CodeCheckoutResolved, KindAlreadyDone, "checkout already resolved")
	ErrCheckoutNotAllowed    = newError(CodeCheckoutNotAllowed, KindStateConflict, "checkout requires 18+ mode")
	ErrInsufficientQuestions = newError(CodeInsufficientQuestions, KindPolicyBlocked, "not enough questions for these settings")
	ErrAlreadyPaused         = newError(CodeAlreadyPaused, KindAlreadyDone, "already paused")
	ErrNotPaused             = newError(CodeNotPaused, KindStateConflict, "not paused")
	ErrInternal              = newError(CodeInternal, KindInternal, "internal error")
)

// AsError extracts a session error from err. Unknown errors become
// ErrInternal wrapping err.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return wrap(ErrInternal, err)
}

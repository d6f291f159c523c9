package services

import (
	"errors"

	"github.com/yungbote/mysticwriter-backend/internal/data/dberr"
	"github.com/yungbote/mysticwriter-backend/internal/platform/apierr"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

func notFound(code, msg string) error {
	return apierr.NotFound(code, &wrapped{msg: msg, err: ErrNotFound})
}

func forbidden(msg string) error {
	return apierr.Forbidden("forbidden", &wrapped{msg: msg, err: ErrForbidden})
}

func invalid(code, msg string) error {
	return apierr.BadRequest(code, &wrapped{msg: msg, err: ErrInvalidInput})
}

func conflict(code, msg string) error {
	return apierr.Conflict(code, &wrapped{msg: msg, err: ErrConflict})
}

// storeConflict turns a unique-index race or a transient lock failure into a
// 409 the client can retry. Other errors pass through.
func storeConflict(code, msg string, err error) error {
	if dberr.IsConflict(err) || dberr.IsRetryable(err) {
		return conflict(code, msg)
	}
	return err
}

type wrapped struct {
	msg string
	err error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.err }

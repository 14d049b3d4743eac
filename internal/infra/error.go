package infra

import (
	"context"
	"strings"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// Is lets callers above the repository branch on the shared categories
// without importing this package.
func (e RepositoryError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == errs.ErrNotFound
	case KindTransient:
		return target == errs.ErrTransientStore
	}
	return false
}

// WrapRepoErr wraps a driver error. The kind is derived from the error when
// not given explicitly.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := Classify(err)
	if len(kind) > 0 {
		k = kind[0]
	}
	return RepositoryError{Kind: k, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errs.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

const (
	KindNotFound  RepositoryErrorKind = "NOT_FOUND"
	KindConflict  RepositoryErrorKind = "CONFLICT"
	KindTransient RepositoryErrorKind = "TRANSIENT"
	KindDBFailure RepositoryErrorKind = "DB_FAILURE"
)

const (
	PgUniqueViolation      = "23505"
	PgSerializationFailure = "40001"
	PgDeadlockDetected     = "40P01"
	PgLockNotAvailable     = "55P03"
	PgQueryCanceled        = "57014"
)

func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errs.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func Classify(err error) RepositoryErrorKind {
	if err == nil {
		return KindDBFailure
	}
	if pgconv.IsNoRows(err) {
		return KindNotFound
	}
	if errs.Is(err, context.Canceled) || errs.Is(err, context.DeadlineExceeded) {
		return KindDBFailure
	}
	switch code := PgCode(err); {
	case code == PgUniqueViolation:
		return KindConflict
	case IsTransientCode(code):
		return KindTransient
	case code == "" && pgconn.SafeToRetry(err):
		return KindTransient
	}
	return KindDBFailure
}

// IsTransientCode covers lock contention and lost connections, which a
// fresh transaction can get past.
func IsTransientCode(code string) bool {
	switch code {
	case PgSerializationFailure, PgDeadlockDetected, PgLockNotAvailable, PgQueryCanceled:
		return true
	}
	return strings.HasPrefix(code, "08")
}

// IsRetryable is the classifier handed to retry.Do around transactions.
func IsRetryable(err error) bool {
	if IsKind(err, KindTransient) {
		return true
	}
	return IsTransientCode(PgCode(err))
}

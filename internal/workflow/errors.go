package workflow

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Kind string

const (
	KindNotFound              Kind = "NotFound"
	KindForbidden             Kind = "Forbidden"
	KindInvalidInput          Kind = "InvalidInput"
	KindAlreadySigned         Kind = "AlreadySigned"
	KindConflict              Kind = "Conflict"
	KindInfrastructureFailure Kind = "InfrastructureFailure"
)

// Error carries one of the workflow kinds. Field names the request field at fault, when there is one.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) ErrorField() string {
	return e.Field
}

// Is matches the kind sentinels below: errors.Is(err, workflow.ErrAlreadySigned).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrForbidden             = &Error{Kind: KindForbidden}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrAlreadySigned         = &Error{Kind: KindAlreadySigned}
	ErrConflict              = &Error{Kind: KindConflict}
	ErrInfrastructureFailure = &Error{Kind: KindInfrastructureFailure}
)

// Finer reasons, reachable through errors.Is on top of the kind.
var (
	ErrSignerNotFound   = errors.New("signer not found")
	ErrInvalidPartyList = errors.New("invalid party list")
)

func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindInfrastructureFailure
}

func notFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func signerNotFound() error {
	return &Error{Kind: KindNotFound, Message: "signer not found", Field: "signerId", Err: ErrSignerNotFound}
}

func forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func invalidInput(field, format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...), Field: field}
}

func invalidPartyList(format string, args ...any) error {
	return &Error{
		Kind:    KindInvalidInput,
		Message: "invalid party list: " + fmt.Sprintf(format, args...),
		Field:   "signers",
		Err:     ErrInvalidPartyList,
	}
}

func alreadySigned() error {
	return &Error{Kind: KindAlreadySigned, Message: "document already signed by this signer", Field: "alreadySigned"}
}

func conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func infrastructure(op string, err error) error {
	return &Error{Kind: KindInfrastructureFailure, Message: op + ": " + err.Error(), Err: err}
}

// fromRepo classifies a repository error. Errors that already carry a kind pass through.
func fromRepo(op string, err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	var we *Error
	if errors.As(err, &we) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(notFoundMessage)
	case isUniqueViolation(err):
		return &Error{Kind: KindConflict, Message: op + ": record already exists", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindConflict, Message: op + ": record is still referenced", Err: err}
	}
	// timeouts and lost connections alike
	return infrastructure(op, err)
}

// isUniqueViolation recognizes gorm's translated error and the raw driver messages.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind clasifica los errores de dominio para que el handler pueda
// traducirlos a HTTP sin inspeccionar mensajes.
type Kind string

const (
	KindBadRequest Kind = "BAD_REQUEST"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"

	// KindPostCommit: la escritura YA fue confirmada pero falló una lectura
	// posterior (p.ej. armar el detalle del contrato recién creado).
	// Nunca debe reportarse como si la escritura hubiera fallado.
	KindPostCommit Kind = "POST_COMMIT"

	// KindNotification: la notificación posterior al commit falló.
	// El cambio de estado persiste igual.
	KindNotification Kind = "NOTIFICATION"
)

// Error es el error tipado que cruzan servicios y handlers.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // causa subyacente, opcional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite comparar por Kind: errors.Is(err, apperrors.Conflict(""))
// no se usa; preferimos IsKind. Se mantiene Unwrap para causas.

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Msg: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Msg: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

func PostCommit(msg string, err error) *Error {
	return &Error{Kind: KindPostCommit, Msg: msg, Err: err}
}

func Notification(msg string, err error) *Error {
	return &Error{Kind: KindNotification, Msg: msg, Err: err}
}

func BadRequestf(format string, args ...any) *Error {
	return BadRequest(fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) *Error {
	return NotFound(fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) *Error {
	return Conflict(fmt.Sprintf(format, args...))
}

// IsKind reporta si err (o alguna de sus causas) es un *Error del kind dado.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf devuelve el Kind del error, o KindInternal si no está tipado.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus traduce el Kind a un status HTTP sugerido.
// PostCommit y Notification devuelven 500 pero conservan su categoría:
// el caller sabe que el dato existe aunque la vista enriquecida falló.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package utils

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	INVALID_REQUEST_DATA = iota + 1
	CANNOT_CONNECT_TO_MONGODB
	CANNOT_FIND_RECORDS
	CANNOT_CREATE_RECORD
	CANNOT_UPDATE_RECORD
	CANNOT_DELETE_RECORD
	CANNOT_RESOLVE_TENANT
	CANNOT_BUILD_REPORT
	CANNOT_EXPORT_REPORT
	CANNOT_RUN_MIGRATION
)

func SendInternalError(internalErrorCode int) string {
	return fmt.Sprintf("Ocorreu um erro interno no servidor. Por favor, tente novamente mais tarde (Cod: %d)", internalErrorCode)
}

type ErrorKind string

const (
	KindNoActiveTenant          ErrorKind = "NoActiveTenant"
	KindNotFoundOrForeignTenant ErrorKind = "NotFoundOrForeignTenant"
	KindRemoteUnavailable       ErrorKind = "RemoteUnavailable"
	KindValidationFailed        ErrorKind = "ValidationFailed"
	KindDuplicatePhone          ErrorKind = "DuplicatePhone"
)

// CRMError is the error taxonomy surfaced to callers of the data layer.
// Two CRMErrors match under errors.Is when their kinds are equal.
type CRMError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *CRMError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *CRMError) Unwrap() error { return e.cause }

func (e *CRMError) Is(target error) bool {
	t, ok := target.(*CRMError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoActiveTenant          = &CRMError{Kind: KindNoActiveTenant, Message: "Nenhuma clínica ativa"}
	ErrNotFoundOrForeignTenant = &CRMError{Kind: KindNotFoundOrForeignTenant, Message: "Registro não encontrado"}
	ErrRemoteUnavailable       = &CRMError{Kind: KindRemoteUnavailable, Message: "Banco de dados indisponível"}
	ErrValidationFailed        = &CRMError{Kind: KindValidationFailed, Message: "Dados inválidos"}
	ErrDuplicatePhone          = &CRMError{Kind: KindDuplicatePhone, Message: "Telefone já registrado"}
)

func NewRemoteUnavailable(cause error) error {
	return &CRMError{Kind: KindRemoteUnavailable, Message: ErrRemoteUnavailable.Message, cause: cause}
}

func NewValidationFailed(fields map[string]string) error {
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	message := ErrValidationFailed.Message
	if len(parts) > 0 {
		message += " (" + strings.Join(parts, "; ") + ")"
	}
	return &CRMError{Kind: KindValidationFailed, Message: message, Fields: fields}
}

func NewDuplicatePhone(patientName string) error {
	return &CRMError{
		Kind:    KindDuplicatePhone,
		Message: fmt.Sprintf("Telefone já registrado! Este número pertence ao paciente: %s", patientName),
	}
}

// AsCRMError returns the first CRMError in the chain, if any.
func AsCRMError(err error) (*CRMError, bool) {
	var crmErr *CRMError
	if errors.As(err, &crmErr) {
		return crmErr, true
	}
	return nil, false
}

func StatusFor(err error) int {
	crmErr, ok := AsCRMError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch crmErr.Kind {
	case KindNoActiveTenant:
		return http.StatusForbidden
	case KindNotFoundOrForeignTenant:
		return http.StatusNotFound
	case KindRemoteUnavailable:
		return http.StatusServiceUnavailable
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindDuplicatePhone:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

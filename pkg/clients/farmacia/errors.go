package farmacia

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericErrorMessage is shown when the backend gives no usable reason.
const GenericErrorMessage = "Não foi possível concluir a operação. Tente novamente."

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("farmacia api error: status=%d, %s %s", e.Status, e.Method, e.Path)
	}
	return fmt.Sprintf("farmacia api error: status=%d, %s %s: %s", e.Status, e.Method, e.Path, e.Message)
}

// IsUnauthorized reports whether err is a 401 from an authenticated endpoint.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized && !isLoginCall(apiErr.Path)
}

// IsInvalidCredentials reports whether err is the backend refusing a login.
func IsInvalidCredentials(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if !isLoginCall(apiErr.Path) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// UserMessage returns the backend's reason for err, or fallback when there is
// none. Pass an empty fallback to get GenericErrorMessage.
func UserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = GenericErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

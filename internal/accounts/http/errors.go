package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// statusFor maps a service failure kind to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindBadInput:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err as {"message": ...}. Only *service.Error
// messages reach the caller; anything else becomes a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		accountsdk.ErrServerError.WriteError(w)
		return
	}
	accountsdk.NewAPIError(statusFor(svcErr.Kind), svcErr.Message).WriteError(w)
}

// writeBearerError is writeServiceError for token protected routes, where a
// 401 means the bearer token was rejected.
func writeBearerError(w http.ResponseWriter, err error) {
	if service.KindOf(err) == service.KindUnauthorized {
		httpx.WriteBearerChallenge(w, "invalid_token", "The access token is invalid or expired")
	}
	writeServiceError(w, err)
}

// decodeError explains why a request body was rejected. Every request field
// is a string, so a type mismatch names the field, e.g. "UserName must be a
// string".
func decodeError(err error) *accountsdk.APIError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		if i := strings.LastIndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return accountsdk.NewAPIError(http.StatusBadRequest,
			strings.ToUpper(field[:1])+field[1:]+" must be a string")
	}
	return accountsdk.ErrInvalidBody
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrMissingAccountID, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest},
	{service.ErrAccountNotFound, http.StatusNotFound, accountsdk.ErrorCodeNotFound},
	{service.ErrStatusNotFound, http.StatusNotFound, accountsdk.ErrorCodeNotFound},
	{service.ErrRoleNotFound, http.StatusNotFound, accountsdk.ErrorCodeNotFound},
	{service.ErrProviderNotFound, http.StatusNotFound, accountsdk.ErrorCodeNotFound},
	{service.ErrAccountAlreadyExists, http.StatusConflict, accountsdk.ErrorCodeAlreadyExists},
	{service.ErrDuplicateEmail, http.StatusConflict, accountsdk.ErrorCodeDuplicateEmail},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidCredentials},
	{service.ErrAdminPasswordChangeRequired, http.StatusForbidden, accountsdk.ErrorCodePasswordChangeRequired},
}

// writeServiceError maps service sentinels onto status codes. Anything
// unrecognised is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}
	slogx.FromContext(r.Context()).Error("failed to "+action, "error", err)
	writeError(w, http.StatusInternalServerError, accountsdk.ErrorCodeServerError, "failed to "+action)
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	httpx.WriteJSON(w, status, accountsdk.ErrorResponse{Error: code, ErrorDescription: description})
}

type validatable interface {
	Validate() error
}

// decodeValid decodes a JSON body into dst and validates it, writing the
// 400 response itself on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest, "invalid JSON in request body")
		return false
	}
	if err := dst.Validate(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ValidationErrorResponse{
			Code:    accountsdk.ErrorCodeValidation,
			Message: "request validation failed",
			Details: accountsdk.ValidationDetails(err),
		})
		return false
	}
	return true
}

package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// UsersHandler serves registration, login and the caller's own account.
type UsersHandler struct {
	Accounts *service.AccountService
}

// HandleRegister handles POST /v1/users/register
//
//	@Summary		Register account
//	@Description	Creates a PENDING account with ROLE_USER. An administrator must permit it before it is ACTIVE.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest				true	"Registration"
//	@Success		201		{object}	accountsdk.AccountResponse
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse
//	@Failure		409		{object}	accountsdk.ErrorResponse	"already_exists or duplicate_email"
//	@Failure		429		{object}	accountsdk.ErrorResponse
//	@Router			/v1/users/register [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}

	view, err := h.Accounts.Register(r.Context(), service.RegisterInput{
		ID:          req.ID,
		DisplayName: req.Name,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "register account")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(view))
}

// HandleLogin handles POST /v1/users/login
//
//	@Summary		Log in
//	@Description	Verifies the password and records the login time. An administrator that has never logged in must change its password first.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	accountsdk.AccountResponse
//	@Failure		401		{object}	accountsdk.ErrorResponse	"invalid_credentials"
//	@Failure		403		{object}	accountsdk.ErrorResponse	"password_change_required"
//	@Failure		404		{object}	accountsdk.ErrorResponse
//	@Failure		429		{object}	accountsdk.ErrorResponse
//	@Router			/v1/users/login [post].
func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if !decodeValid(w, r, &req) {
		return
	}

	view, err := h.Accounts.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(view))
}

// HandleProvision handles POST /v1/users/provision
//
//	@Summary		Provision external account
//	@Description	Called after an external provider sign-in. Creates an ACTIVE account "{provider}_{subject}" on first sight, otherwise returns it unchanged.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ProvisionRequest	true	"External identity"
//	@Success		200		{object}	accountsdk.ProvisionResponse
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse
//	@Failure		404		{object}	accountsdk.ErrorResponse	"unknown provider"
//	@Failure		409		{object}	accountsdk.ErrorResponse	"duplicate_email"
//	@Router			/v1/users/provision [post].
func (h *UsersHandler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ProvisionRequest
	if !decodeValid(w, r, &req) {
		return
	}

	view, created, err := h.Accounts.ProvisionExternal(r.Context(), service.ExternalIdentity{
		Provider: req.Provider,
		Subject:  req.Subject,
		Login:    req.Login,
		Email:    req.Email,
	})
	if err != nil {
		writeServiceError(w, r, err, "provision account")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountsdk.ProvisionResponse{
		Account: toAccountResponse(view),
		Created: created,
	})
}

// HandleMe handles GET /v1/users/me
//
//	@Summary		Current account
//	@Tags			Users
//	@Produce		json
//	@Security		CallerID
//	@Success		200	{object}	accountsdk.AccountResponse
//	@Failure		401	{object}	accountsdk.ErrorResponse
//	@Failure		404	{object}	accountsdk.ErrorResponse
//	@Router			/v1/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	view, err := h.Accounts.GetByID(r.Context(), httpx.CallerID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "load account")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(view))
}

// HandleUpdateMe handles PUT /v1/users/me
//
//	@Summary		Update current account
//	@Description	Replaces name, email and password. The account becomes ACTIVE and the update counts as a login.
//	@Tags			Users
//	@Accept			json
//	@Security		CallerID
//	@Param			request	body	accountsdk.UpdateRequest	true	"New profile"
//	@Success		204
//	@Failure		400	{object}	accountsdk.ValidationErrorResponse
//	@Failure		404	{object}	accountsdk.ErrorResponse
//	@Failure		409	{object}	accountsdk.ErrorResponse	"duplicate_email"
//	@Router			/v1/users/me [put].
func (h *UsersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.UpdateRequest
	if !decodeValid(w, r, &req) {
		return
	}

	_, err := h.Accounts.Update(r.Context(), httpx.CallerID(r.Context()), service.UpdateInput{
		DisplayName: req.Name,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "update account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeactivateMe handles POST /v1/users/me/deactivate
//
//	@Summary		Deactivate current account
//	@Tags			Users
//	@Security		CallerID
//	@Success		204
//	@Failure		404	{object}	accountsdk.ErrorResponse
//	@Router			/v1/users/me/deactivate [post].
func (h *UsersHandler) HandleDeactivateMe(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Accounts.Deactivate(r.Context(), httpx.CallerID(r.Context())); err != nil {
		writeServiceError(w, r, err, "deactivate account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMyRole handles GET /v1/users/me/role
//
//	@Summary		Current account role
//	@Tags			Users
//	@Produce		json
//	@Security		CallerID
//	@Success		200	{object}	accountsdk.RoleResponse
//	@Failure		404	{object}	accountsdk.ErrorResponse
//	@Router			/v1/users/me/role [get].
func (h *UsersHandler) HandleMyRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Accounts.GetRole(r.Context(), httpx.CallerID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "load role")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountsdk.RoleResponse{
		AccountID: role.AccountID,
		Role:      role.Role.String(),
	})
}

package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// AdminHandler serves the administrator-only endpoints. The router guards
// every route with an ADMIN role check.
type AdminHandler struct {
	Accounts *service.AccountService
	Sweeper  *service.InactivitySweeper
}

// pageRequest reads ?page=&size=. Missing values use page 0 and the default size.
func pageRequest(w http.ResponseWriter, r *http.Request) (domain.PageRequest, bool) {
	number, err := httpx.QueryInt(r, "page", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest, err.Error())
		return domain.PageRequest{}, false
	}
	size, err := httpx.QueryInt(r, "size", domain.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest, err.Error())
		return domain.PageRequest{}, false
	}
	return domain.PageRequest{Number: number, Size: size}, true
}

// HandleList handles GET /v1/admin/users
//
//	@Summary		List accounts
//	@Description	Zero-based pages ordered by account id. An empty page is reported as 404.
//	@Tags			Admin
//	@Produce		json
//	@Security		CallerID
//	@Param			page	query		int	false	"Page number (from 0)"
//	@Param			size	query		int	false	"Page size (1-100, default 20)"
//	@Success		200		{object}	accountsdk.PageResponse
//	@Failure		403		{object}	accountsdk.ErrorResponse
//	@Failure		404		{object}	accountsdk.ErrorResponse
//	@Router			/v1/admin/users [get].
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}
	out, err := h.Accounts.ListAccounts(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err, "list accounts")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPageResponse(out))
}

// HandleListByStatus handles GET /v1/admin/users/status/{statusId}
//
//	@Summary		List accounts by status
//	@Tags			Admin
//	@Produce		json
//	@Security		CallerID
//	@Param			statusId	path		int	true	"Status id (1 ACTIVE, 2 INACTIVE, 3 DEACTIVATE, 4 PENDING)"
//	@Param			page		query		int	false	"Page number (from 0)"
//	@Param			size		query		int	false	"Page size"
//	@Success		200			{object}	accountsdk.PageResponse
//	@Failure		404			{object}	accountsdk.ErrorResponse	"unknown status or empty page"
//	@Router			/v1/admin/users/status/{statusId} [get].
func (h *AdminHandler) HandleListByStatus(w http.ResponseWriter, r *http.Request) {
	statusID, err := httpx.PathInt(r, "statusId")
	if err != nil {
		writeError(w, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest, err.Error())
		return
	}
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}
	out, err := h.Accounts.ListByStatus(r.Context(), statusID, page)
	if err != nil {
		writeServiceError(w, r, err, "list accounts by status")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPageResponse(out))
}

// HandleListByRole handles GET /v1/admin/users/role/{roleId}
//
//	@Summary		List accounts by role
//	@Tags			Admin
//	@Produce		json
//	@Security		CallerID
//	@Param			roleId	path		int	true	"Role id (1 ROLE_ADMIN, 2 ROLE_USER)"
//	@Param			page	query		int	false	"Page number (from 0)"
//	@Param			size	query		int	false	"Page size"
//	@Success		200		{object}	accountsdk.PageResponse
//	@Failure		404		{object}	accountsdk.ErrorResponse	"unknown role or empty page"
//	@Router			/v1/admin/users/role/{roleId} [get].
func (h *AdminHandler) HandleListByRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := httpx.PathInt(r, "roleId")
	if err != nil {
		writeError(w, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest, err.Error())
		return
	}
	page, ok := pageRequest(w, r)
	if !ok {
		return
	}
	out, err := h.Accounts.ListByRole(r.Context(), roleID, page)
	if err != nil {
		writeServiceError(w, r, err, "list accounts by role")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPageResponse(out))
}

// HandlePermit handles POST /v1/admin/users/{id}/permit
//
//	@Summary		Permit account
//	@Description	Sets the account ACTIVE.
//	@Tags			Admin
//	@Produce		json
//	@Security		CallerID
//	@Param			id	path		string	true	"Account id"
//	@Success		200	{object}	accountsdk.AccountResponse
//	@Failure		404	{object}	accountsdk.ErrorResponse
//	@Router			/v1/admin/users/{id}/permit [post].
func (h *AdminHandler) HandlePermit(w http.ResponseWriter, r *http.Request) {
	view, err := h.Accounts.Permit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "permit account")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(view))
}

// HandlePromote handles POST /v1/admin/users/{id}/promote
//
//	@Summary		Promote account
//	@Description	Grants ROLE_ADMIN. Status is unchanged.
//	@Tags			Admin
//	@Produce		json
//	@Security		CallerID
//	@Param			id	path		string	true	"Account id"
//	@Success		200	{object}	accountsdk.AccountResponse
//	@Failure		404	{object}	accountsdk.ErrorResponse
//	@Router			/v1/admin/users/{id}/promote [post].
func (h *AdminHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	view, err := h.Accounts.Promote(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "promote account")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(view))
}

// HandleDelete handles DELETE /v1/admin/users/{id}
//
//	@Summary		Delete account
//	@Tags			Admin
//	@Security		CallerID
//	@Param			id	path	string	true	"Account id"
//	@Success		204
//	@Failure		404	{object}	accountsdk.ErrorResponse
//	@Router			/v1/admin/users/{id} [delete].
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSweep handles POST /v1/admin/sweep
//
//	@Summary		Run inactivity sweep
//	@Description	Runs one pass immediately. Waits for a scheduled pass in progress to finish first.
//	@Tags			Admin
//	@Produce		json
//	@Security		CallerID
//	@Success		200	{object}	accountsdk.SweepResponse
//	@Failure		500	{object}	accountsdk.ErrorResponse
//	@Router			/v1/admin/sweep [post].
func (h *AdminHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	res, err := h.Sweeper.Sweep(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "run inactivity sweep")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountsdk.SweepResponse{
		Scanned: res.Scanned,
		Demoted: res.Demoted,
		Failed:  res.Failed,
	})
}

// HandleRoles handles GET /v1/admin/roles
//
//	@Summary	List roles
//	@Tags		Admin
//	@Produce	json
//	@Security	CallerID
//	@Success	200	{array}	accountsdk.ReferenceResponse
//	@Router		/v1/admin/roles [get].
func (h *AdminHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, toReferences(h.Accounts.ListRoles()))
}

// HandleStatuses handles GET /v1/admin/statuses
//
//	@Summary	List statuses
//	@Tags		Admin
//	@Produce	json
//	@Security	CallerID
//	@Success	200	{array}	accountsdk.ReferenceResponse
//	@Router		/v1/admin/statuses [get].
func (h *AdminHandler) HandleStatuses(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, toReferences(h.Accounts.ListStatuses()))
}

package accountsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Session issues requests on behalf of one account.
type Session struct {
	client   *SDKClient
	callerID string
}

func (s *Session) CallerID() string { return s.callerID }

// ============================================================================
// Self-service
// ============================================================================

func (s *Session) Me(ctx context.Context) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodGet, "/v1/users/me", s.callerID, nil, http.StatusOK)
}

func (s *Session) UpdateMe(ctx context.Context, req UpdateRequest) error {
	return callNoContent(ctx, s.client, http.MethodPut, "/v1/users/me", s.callerID, req)
}

func (s *Session) DeactivateMe(ctx context.Context) error {
	return callNoContent(ctx, s.client, http.MethodPost, "/v1/users/me/deactivate", s.callerID, nil)
}

func (s *Session) MyRole(ctx context.Context) (*RoleResponse, error) {
	return call[RoleResponse](ctx, s.client, http.MethodGet, "/v1/users/me/role", s.callerID, nil, http.StatusOK)
}

// ============================================================================
// Administration (caller must hold ROLE_ADMIN)
// ============================================================================

func (s *Session) ListAccounts(ctx context.Context, page, size int) (*PageResponse, error) {
	return call[PageResponse](ctx, s.client, http.MethodGet,
		"/v1/admin/users"+pageQuery(page, size), s.callerID, nil, http.StatusOK)
}

func (s *Session) ListByStatus(ctx context.Context, statusID, page, size int) (*PageResponse, error) {
	return call[PageResponse](ctx, s.client, http.MethodGet,
		fmt.Sprintf("/v1/admin/users/status/%d%s", statusID, pageQuery(page, size)), s.callerID, nil, http.StatusOK)
}

func (s *Session) ListByRole(ctx context.Context, roleID, page, size int) (*PageResponse, error) {
	return call[PageResponse](ctx, s.client, http.MethodGet,
		fmt.Sprintf("/v1/admin/users/role/%d%s", roleID, pageQuery(page, size)), s.callerID, nil, http.StatusOK)
}

func (s *Session) Permit(ctx context.Context, id string) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodPost,
		"/v1/admin/users/"+url.PathEscape(id)+"/permit", s.callerID, nil, http.StatusOK)
}

func (s *Session) Promote(ctx context.Context, id string) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodPost,
		"/v1/admin/users/"+url.PathEscape(id)+"/promote", s.callerID, nil, http.StatusOK)
}

func (s *Session) Delete(ctx context.Context, id string) error {
	return callNoContent(ctx, s.client, http.MethodDelete, "/v1/admin/users/"+url.PathEscape(id), s.callerID, nil)
}

// Sweep runs one inactivity sweep pass immediately.
func (s *Session) Sweep(ctx context.Context) (*SweepResponse, error) {
	return call[SweepResponse](ctx, s.client, http.MethodPost, "/v1/admin/sweep", s.callerID, nil, http.StatusOK)
}

func (s *Session) ListRoles(ctx context.Context) ([]ReferenceResponse, error) {
	out, err := call[[]ReferenceResponse](ctx, s.client, http.MethodGet, "/v1/admin/roles", s.callerID, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *Session) ListStatuses(ctx context.Context) ([]ReferenceResponse, error) {
	out, err := call[[]ReferenceResponse](ctx, s.client, http.MethodGet, "/v1/admin/statuses", s.callerID, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func pageQuery(page, size int) string {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	if size > 0 {
		q.Set("size", fmt.Sprint(size))
	}
	return "?" + q.Encode()
}

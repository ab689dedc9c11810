package accountsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient calls the accounts service. Unauthenticated operations live on
// the client; everything else goes through a Session from AsCaller.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AsCaller returns a Session acting as the given account id.
func (c *SDKClient) AsCaller(accountID string) *Session {
	return &Session{client: c, callerID: accountID}
}

// Register creates a PENDING account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*AccountResponse, error) {
	return call[AccountResponse](ctx, c, http.MethodPost, "/v1/users/register", "", req, http.StatusCreated)
}

// Login verifies credentials and records the login time.
func (c *SDKClient) Login(ctx context.Context, id, password string) (*AccountResponse, error) {
	return call[AccountResponse](ctx, c, http.MethodPost, "/v1/users/login", "",
		LoginRequest{ID: id, Password: password}, http.StatusOK)
}

// Provision creates or returns the account for an external identity.
func (c *SDKClient) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResponse, error) {
	return call[ProvisionResponse](ctx, c, http.MethodPost, "/v1/users/provision", "", req, http.StatusOK)
}

func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/livez", "", nil, http.StatusOK)
}

// GetReadiness returns an *APIError when the service reports 503.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/readyz", "", nil, http.StatusOK)
}

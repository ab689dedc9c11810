package accountsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned with 400 when a request body fails
// validation. Details maps JSON field names to messages.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Account Requests
// ============================================================================

// RegisterRequest creates a PENDING account with the default provider.
type RegisterRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// UpdateRequest replaces the caller's profile and password. It also
// reactivates the account.
type UpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProvisionRequest describes an identity asserted by an external provider.
type ProvisionRequest struct {
	Provider string `json:"provider"`
	Subject  string `json:"subject"`
	Login    string `json:"login,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ============================================================================
// Account Responses
// ============================================================================

// AccountResponse is the public view of an account. Role and Status carry
// the seeded reference names, e.g. "ROLE_USER" and "PENDING".
type AccountResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Provider    string     `json:"provider"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type ProvisionResponse struct {
	Account AccountResponse `json:"account"`
	Created bool            `json:"created"`
}

type RoleResponse struct {
	AccountID string `json:"accountId"`
	Role      string `json:"role"`
}

// PageResponse is one zero-based page of accounts.
type PageResponse struct {
	Content       []AccountResponse `json:"content"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

// ReferenceResponse is a seeded role or status row.
type ReferenceResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SweepResponse reports one inactivity sweep pass.
type SweepResponse struct {
	Scanned int `json:"scanned"`
	Demoted int `json:"demoted"`
	Failed  int `json:"failed"`
}

// ============================================================================
// Health Types
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is filled by /readyz only.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

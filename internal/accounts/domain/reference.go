package domain

// Reference is a seeded (id, name) lookup row, used for roles and statuses.
type Reference struct {
	ID   int
	Name string
}

// Provider identifies where an account's credentials come from.
type Provider struct {
	ID       string
	ClientID string
}

const (
	ProviderDefault = "Default"
	ProviderGoogle  = "Google"
	ProviderGithub  = "Github"
)

// Providers returns the seeded provider rows.
func Providers() []Provider {
	return []Provider{
		{ID: ProviderDefault, ClientID: "default"},
		{ID: ProviderGoogle, ClientID: "google"},
		{ID: ProviderGithub, ClientID: "github"},
	}
}

package entity

// ProviderType identifies a sign-in method. The set is closed: the local
// email/password credential plus the two federated OAuth providers.
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeGoogle ProviderType = "google"
	ProviderTypeGitHub ProviderType = "github"
)

// String returns the provider name as stored in the database.
func (p ProviderType) String() string {
	return string(p)
}

// IsFederated reports whether the provider is an external OAuth provider.
func (p ProviderType) IsFederated() bool {
	return p == ProviderTypeGoogle || p == ProviderTypeGitHub
}

package domain

// Identity is the opaque marker identifying the signed-in user to the remote
// API. The zero value means anonymous / not authenticated.
type Identity struct {
	AccountID string `json:"accountId,omitempty"`
	Token     string `json:"token,omitempty"`
}

// Known reports whether an identity is present.
func (i Identity) Known() bool { return i.Token != "" }

// Equal reports whether two identities refer to the same account.
func (i Identity) Equal(other Identity) bool {
	return i.AccountID == other.AccountID && i.Token == other.Token
}

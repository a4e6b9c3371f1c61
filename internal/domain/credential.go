package domain

import "strings"

// Credential is the locally persisted rider identity: the only client
// state that survives restarts. Written at login, cleared at logout,
// read-only everywhere else.
type Credential struct {
	RiderID string `json:"rider_id"`
	Token   string `json:"rider_token"`
}

// Valid reports whether both parts of the credential are present.
func (c Credential) Valid() bool {
	return strings.TrimSpace(c.RiderID) != "" && strings.TrimSpace(c.Token) != ""
}

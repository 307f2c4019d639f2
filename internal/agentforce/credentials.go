package agentforce

import (
	"fmt"
	"strings"
)

// Credentials holds the connected-app configuration plus the token state
// issued by the remote service. ServerURL, ClientID, ClientSecret and AgentID
// are static configuration; AccessToken and InstanceURL are issued together
// by a successful authentication.
type Credentials struct {
	ServerURL    string
	ClientID     string
	ClientSecret string
	AgentID      string
	AccessToken  string
	InstanceURL  string
}

type MissingCredentialError struct {
	Fields []string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing required agent credentials: %s", strings.Join(e.Fields, ", "))
}

// Validate reports every absent required field at once, so a broken
// deployment fails with the full list instead of one field at a time.
func (c Credentials) Validate() error {
	var missing []string
	if c.ServerURL == "" {
		missing = append(missing, "server_url")
	}
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.AgentID == "" {
		missing = append(missing, "agent_id")
	}
	if len(missing) > 0 {
		return &MissingCredentialError{Fields: missing}
	}
	return nil
}

func (c Credentials) tokenURL() string {
	if strings.Contains(c.ServerURL, "://") {
		return strings.TrimSuffix(c.ServerURL, "/") + "/services/oauth2/token"
	}
	return "https://" + c.ServerURL + "/services/oauth2/token"
}

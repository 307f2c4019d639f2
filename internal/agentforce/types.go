package agentforce

// Session is the server-allocated conversation handle plus the locally
// tracked message sequence counter. SequenceID on the wire always equals the
// count of successfully sent messages in this session plus one.
type Session struct {
	ID         string
	SequenceID int
}

type AuthResult struct {
	AccessToken string
	InstanceURL string
}

type SessionResult struct {
	SessionID string
}

type Reply struct {
	Text           string
	NextSequenceID int
}

type Status struct {
	Active     bool   `json:"active"`
	SessionID  string `json:"session_id,omitempty"`
	SequenceID int    `json:"sequence_id"`
}

// State is the persistable slice of client state: everything issued by the
// remote service, nothing from static configuration.
type State struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	SessionID   string `json:"session_id"`
	SequenceID  int    `json:"sequence_id"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
}

type instanceConfig struct {
	Endpoint string `json:"endpoint"`
}

type streamingCapabilities struct {
	ChunkTypes []string `json:"chunkTypes"`
}

type sessionRequest struct {
	ExternalSessionKey    string                `json:"externalSessionKey"`
	InstanceConfig        instanceConfig        `json:"instanceConfig"`
	StreamingCapabilities streamingCapabilities `json:"streamingCapabilities"`
	BypassUser            bool                  `json:"bypassUser"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

type messageBody struct {
	SequenceID int    `json:"sequenceId"`
	Type       string `json:"type"`
	Text       string `json:"text"`
}

type messageRequest struct {
	Message messageBody `json:"message"`
}

type agentMessage struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Messages []agentMessage `json:"messages"`
}

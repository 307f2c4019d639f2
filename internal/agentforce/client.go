package agentforce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultAgentEndpoint = "https://api.salesforce.com/einstein/ai-agent/v1"

	authTimeout    = 30 * time.Second
	messageTimeout = 120 * time.Second

	noReplyFallback = "No response from agent"
)

var (
	errNoAccessToken = errors.New("no access token in response")
	errNoSessionID   = errors.New("no session ID in response")
)

// Client talks to the remote conversational-agent service. It owns the
// authenticate -> create session -> send message state machine:
//
//	Unauthenticated -> Authenticated -> SessionActive
//
// A 401 downgrades to Unauthenticated and replays once; a 404 on a message
// send downgrades to Authenticated (session gone) and replays once. Both
// retries are capped at depth one per original call.
//
// All calls are serialized by a single mutex: the sequence counter requires
// strict ordering of increments, so there is never more than one in-flight
// request per client. Callers that need concurrent conversations own one
// Client each.
type Client struct {
	mu      sync.Mutex
	creds   Credentials
	session Session

	agentEndpoint string
	authClient    *http.Client
	msgClient     *http.Client
	log           *slog.Logger
}

type Option func(*Client)

// WithAgentEndpoint overrides the agent-service base URL.
func WithAgentEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.agentEndpoint = strings.TrimSuffix(endpoint, "/")
	}
}

// WithHTTPClients overrides the transports used for auth/session calls and
// message calls. Message calls carry a longer timeout for agent think time.
func WithHTTPClients(auth, msg *http.Client) Option {
	return func(c *Client) {
		c.authClient = auth
		c.msgClient = msg
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		creds:         creds,
		session:       Session{SequenceID: 1},
		agentEndpoint: defaultAgentEndpoint,
		authClient:    &http.Client{Timeout: authTimeout},
		msgClient:     &http.Client{Timeout: messageTimeout},
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authenticate exchanges the client credentials for an access token and
// instance URL at the token endpoint.
func (c *Client) Authenticate(ctx context.Context) (AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticate(ctx)
}

// CreateSession opens a new agent session, authenticating first if no token
// is held. A new session always starts with sequence ID 1.
func (c *Client) CreateSession(ctx context.Context) (SessionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createSession(ctx, false)
}

// SendMessage delivers text to the active session and returns the agent's
// reply. The sequence counter advances only after the remote service
// acknowledges the message.
func (c *Client) SendMessage(ctx context.Context, text string) (Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendMessage(ctx, text, false, false)
}

// CompleteConversation runs the full happy path: authenticate if needed,
// create a session if needed, then send. The first failing stage
// short-circuits and its error is returned verbatim.
func (c *Client) CompleteConversation(ctx context.Context, text string) (Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds.AccessToken == "" {
		if _, err := c.authenticate(ctx); err != nil {
			return Reply{}, err
		}
	}
	if c.session.ID == "" {
		if _, err := c.createSession(ctx, false); err != nil {
			return Reply{}, err
		}
	}
	return c.sendMessage(ctx, text, false, false)
}

// Status is a pure read of the current session state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Active:     c.session.ID != "",
		SessionID:  c.session.ID,
		SequenceID: c.session.SequenceID,
	}
}

// State exports the issued token and session state for persistence by the
// caller. The client never persists anything itself.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		AccessToken: c.creds.AccessToken,
		InstanceURL: c.creds.InstanceURL,
		SessionID:   c.session.ID,
		SequenceID:  c.session.SequenceID,
	}
}

// Restore loads previously persisted state. A token without an instance URL
// is ignored, since the two are only ever issued together.
func (c *Client) Restore(st State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st.AccessToken != "" && st.InstanceURL != "" {
		c.creds.AccessToken = st.AccessToken
		c.creds.InstanceURL = st.InstanceURL
	}
	if st.SessionID != "" {
		c.session.ID = st.SessionID
		c.session.SequenceID = 1
		if st.SequenceID >= 1 {
			c.session.SequenceID = st.SequenceID
		}
	}
}

func (c *Client) authenticate(ctx context.Context) (AuthResult, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return AuthResult{}, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.authClient.Do(req)
	if err != nil {
		return AuthResult{}, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AuthResult{}, &AuthError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("authentication failed", "status", resp.StatusCode)
		return AuthResult{}, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return AuthResult{}, &AuthError{Body: string(body), Err: err}
	}
	if tok.AccessToken == "" {
		return AuthResult{}, &AuthError{Body: string(body), Err: errNoAccessToken}
	}

	c.creds.AccessToken = tok.AccessToken
	c.creds.InstanceURL = tok.InstanceURL
	c.log.Info("authenticated with agent service")

	return AuthResult{AccessToken: tok.AccessToken, InstanceURL: tok.InstanceURL}, nil
}

func (c *Client) createSession(ctx context.Context, retried bool) (SessionResult, error) {
	if c.creds.AccessToken == "" {
		if _, err := c.authenticate(ctx); err != nil {
			return SessionResult{}, err
		}
	}

	payload := sessionRequest{
		ExternalSessionKey: uuid.New().String(),
		InstanceConfig:     instanceConfig{Endpoint: c.creds.InstanceURL},
		StreamingCapabilities: streamingCapabilities{
			ChunkTypes: []string{"Text"},
		},
		BypassUser: true,
	}

	endpoint := c.agentEndpoint + "/agents/" + c.creds.AgentID + "/sessions"
	status, body, err := c.doJSON(ctx, c.authClient, endpoint, payload)
	if err != nil {
		return SessionResult{}, &SessionError{Err: err}
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		var sess sessionResponse
		if err := json.Unmarshal(body, &sess); err != nil {
			return SessionResult{}, &SessionError{Body: string(body), Err: err}
		}
		if sess.SessionID == "" {
			return SessionResult{}, &SessionError{Body: string(body), Err: errNoSessionID}
		}
		c.session = Session{ID: sess.SessionID, SequenceID: 1}
		c.log.Info("agent session created", "session_id", sess.SessionID)
		return SessionResult{SessionID: sess.SessionID}, nil

	case http.StatusUnauthorized:
		if !retried {
			c.log.Info("token expired, reauthenticating")
			if _, aerr := c.authenticate(ctx); aerr == nil {
				return c.createSession(ctx, true)
			}
		}
		return SessionResult{}, &SessionError{Status: status, Body: string(body)}

	default:
		c.log.Warn("session creation failed", "status", status)
		return SessionResult{}, &SessionError{Status: status, Body: string(body)}
	}
}

func (c *Client) sendMessage(ctx context.Context, text string, reauthed, recreated bool) (Reply, error) {
	if text == "" {
		return Reply{}, &ValidationError{Message: "message text is required"}
	}

	if c.session.ID == "" {
		if _, err := c.createSession(ctx, false); err != nil {
			return Reply{}, err
		}
	}

	payload := messageRequest{
		Message: messageBody{
			SequenceID: c.session.SequenceID,
			Type:       "Text",
			Text:       text,
		},
	}

	endpoint := c.agentEndpoint + "/sessions/" + c.session.ID + "/messages"
	status, body, err := c.doJSON(ctx, c.msgClient, endpoint, payload)
	if err != nil {
		return Reply{}, &SendError{Err: err}
	}

	switch status {
	case http.StatusOK:
		var msg messageResponse
		if err := json.Unmarshal(body, &msg); err != nil {
			return Reply{}, &SendError{Body: string(body), Err: err}
		}
		reply := noReplyFallback
		if len(msg.Messages) > 0 && msg.Messages[0].Message != "" {
			reply = msg.Messages[0].Message
		}
		c.session.SequenceID++
		return Reply{Text: reply, NextSequenceID: c.session.SequenceID}, nil

	case http.StatusUnauthorized:
		// Sequence ID is untouched: the message was not accepted.
		if !reauthed {
			c.log.Info("token expired, reauthenticating")
			if _, aerr := c.authenticate(ctx); aerr == nil {
				return c.sendMessage(ctx, text, true, recreated)
			}
		}
		return Reply{}, &SendError{Status: status, Body: string(body)}

	case http.StatusNotFound:
		if !recreated {
			c.log.Info("session not found, creating new session")
			c.session = Session{SequenceID: 1}
			if _, serr := c.createSession(ctx, false); serr == nil {
				return c.sendMessage(ctx, text, reauthed, true)
			}
		}
		return Reply{}, &SendError{Status: status, Body: string(body)}

	default:
		c.log.Warn("message send failed", "status", status)
		return Reply{}, &SendError{Status: status, Body: string(body)}
	}
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, endpoint string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

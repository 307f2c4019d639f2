package dto

type AgentStatusResponse struct {
	Active     bool   `json:"active" example:"true"`
	SessionID  string `json:"session_id,omitempty" example:"06a4ba40-c824-4264-a8a2-31d7f6b2a1f3"`
	SequenceID int    `json:"sequence_id" example:"3"`
}

type AgentTestResponse struct {
	Success    bool   `json:"success" example:"true"`
	Stage      string `json:"stage" example:"send_message"`
	Reply      string `json:"reply,omitempty" example:"Hello! How can I help?"`
	SequenceID int    `json:"sequence_id,omitempty" example:"2"`
	Error      string `json:"error,omitempty"`
}

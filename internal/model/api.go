package model

// StartPaperRequest is the request to create a new paper session.
type StartPaperRequest struct {
	UserID           string            `json:"user_id"`
	Title            string            `json:"title"`
	CollectedInfo    map[string]string `json:"collected_info,omitempty"`
	SkipConversation bool              `json:"skip_conversation"`
}

// StartPaperResponse is returned after creating a session. Message carries
// the initial guidance for the conversational path; it is not part of the
// stored message sequence.
type StartPaperResponse struct {
	SessionID string `json:"session_id"`
	Stage     Stage  `json:"stage"`
	Message   string `json:"message,omitempty"`
}

// SendMessageRequest is the request to send a conversational turn.
type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// SendMessageResponse is the result of one conversational turn.
type SendMessageResponse struct {
	Message      string       `json:"message"`
	Stage        Stage        `json:"stage"`
	Round        int          `json:"round"`
	Status       Status       `json:"status"`
	PaperContent PaperContent `json:"paper_content,omitempty"`
}

// GenerateRequest is the request to run the generation pipeline.
type GenerateRequest struct {
	SessionID string `json:"session_id"`
}

// GenerateResponse carries the assembled paper content.
type GenerateResponse struct {
	SessionID    string       `json:"session_id"`
	PaperContent PaperContent `json:"paper_content"`
}

// RegenerateRequest is the request to rewrite one section.
type RegenerateRequest struct {
	SessionID    string  `json:"session_id"`
	Section      Section `json:"section"`
	Requirements string  `json:"requirements,omitempty"`
}

// RegenerateResponse carries the rewritten section.
type RegenerateResponse struct {
	SessionID string  `json:"session_id"`
	Section   Section `json:"section"`
	Content   string  `json:"content"`
}

// SessionDetail is the get-session view: the full session plus its paper
// content surfaced at the top level.
type SessionDetail struct {
	Session      *Session     `json:"session"`
	PaperContent PaperContent `json:"paper_content"`
}

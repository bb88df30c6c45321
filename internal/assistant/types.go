package assistant

import "qametrics-assistant/internal/model"

// Config identifies one caller turn: who is asking, with which
// credentials, optionally scoped to a project. It drives both the
// classifier and the agent cache key (userID, projectCode|"all").
type Config struct {
	ModelAPIKey   string
	ProviderToken string
	UserID        string
	ProjectCode   string // optional
}

// RunOutput is the result of one orchestrated turn. It is always
// well-formed: failures degrade to a textual response, never an error.
type RunOutput struct {
	Response              string          `json:"response"`
	NeedsProjectSelection bool            `json:"needs_project_selection"`
	Projects              []model.Project `json:"projects,omitempty"`
	ToolsUsed             []string        `json:"tools_used"`
	DurationMs            int64           `json:"duration_ms"`

	// Err retains the original failure for logging; it is never shown
	// to the user.
	Err string `json:"-"`
}

// Callbacks receive streaming events during RunStream. Any callback
// may be nil.
type Callbacks struct {
	OnToken                 func(token string)
	OnToolStart             func(tool string)
	OnToolEnd               func(tool string)
	OnProjectsFound         func(projects []model.Project)
	OnNeedsProjectSelection func(projects []model.Project)
	OnError                 func(errMsg string)
	OnDone                  func(out RunOutput)
}

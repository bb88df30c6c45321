package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"qametrics-assistant/internal/assistant"
	"qametrics-assistant/internal/assistant/classifier"
	"qametrics-assistant/internal/model"
)

// node identifies one state of the routing machine. Every node except
// analyzeIntent and resolveProject is terminal.
type node int

const (
	nodeAnalyzeIntent node = iota
	nodeResolveProject
	nodeExecuteAgent
	nodeListProjects
	nodeSelectProject
	nodeGeneralResponse
	nodeAskProjectSelection
	nodeEnd
)

func (n node) String() string {
	switch n {
	case nodeAnalyzeIntent:
		return "analyzeIntent"
	case nodeResolveProject:
		return "resolveProject"
	case nodeExecuteAgent:
		return "executeAgent"
	case nodeListProjects:
		return "listProjects"
	case nodeSelectProject:
		return "selectProject"
	case nodeGeneralResponse:
		return "generalResponse"
	case nodeAskProjectSelection:
		return "askProjectSelection"
	default:
		return "end"
	}
}

// state is the per-request record threaded through the nodes. It is
// owned exclusively by one run; concurrent runs never share a state.
type state struct {
	runID   string
	cfg     assistant.Config
	input   string
	started time.Time

	intent      classifier.Intent
	projectCode string
	// boundByRun marks a project bound during this run (classifier
	// extraction, auto-bind, or explicit selection), which triggers the
	// post-run context update.
	boundByRun bool

	projects              []model.Project
	needsProjectSelection bool
	response              string
	toolsUsed             map[string]struct{}
	err                   error
}

func newState(cfg assistant.Config, input string) *state {
	return &state{
		runID:     uuid.NewString(),
		cfg:       cfg,
		input:     input,
		started:   time.Now(),
		toolsUsed: make(map[string]struct{}),
	}
}

// eventKind tags a streaming event.
type eventKind int

const (
	eventToken eventKind = iota
	eventToolStart
	eventToolEnd
	eventProjectsFound
	eventNeedsSelection
	eventError
	eventDone
)

// event is one typed streaming occurrence published by the run and
// consumed by the callback dispatcher.
type event struct {
	kind     eventKind
	token    string
	tool     string
	projects []model.Project
	errMsg   string
	out      assistant.RunOutput
}

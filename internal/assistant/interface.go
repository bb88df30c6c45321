package assistant

import "context"

// UseCase is the conversational assistant entry point. Run and
// RunStream never return an error: every failure inside the pipeline
// degrades to a well-formed RunOutput with a fallback response.
type UseCase interface {
	// Run processes one user message and blocks until the response is
	// complete.
	Run(ctx context.Context, cfg Config, message string) RunOutput

	// RunStream processes one user message, delivering tokens and tool
	// lifecycle events through callbacks, and returns the final output.
	RunStream(ctx context.Context, cfg Config, message string, cb Callbacks) RunOutput
}

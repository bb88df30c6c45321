package classifier

import (
	"context"

	"qametrics-assistant/pkg/llmprovider"
	pkgLog "qametrics-assistant/pkg/log"
)

// Classifier labels a user message with an intent and optionally
// extracts a project code. Implementations never return an error:
// classification failures degrade to the general intent.
type Classifier interface {
	Classify(ctx context.Context, modelAPIKey, message, priorProjectCode string) Output
}

// SemanticClassifier classifies intent with a single structured-output
// model call.
type SemanticClassifier struct {
	llmFactory llmprovider.Factory
	l          pkgLog.Logger
}

var _ Classifier = (*SemanticClassifier)(nil)

// New creates a new SemanticClassifier.
func New(llmFactory llmprovider.Factory, l pkgLog.Logger) *SemanticClassifier {
	return &SemanticClassifier{
		llmFactory: llmFactory,
		l:          l,
	}
}

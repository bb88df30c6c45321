package orchestrator

import (
	"context"

	"qametrics-assistant/internal/assistant"
)

// RunStream processes one user message, publishing typed events onto
// an internal channel that a dispatcher goroutine reframes into the
// caller's callbacks. Ordering is preserved: events are delivered in
// the order the run produced them, and OnDone is always last.
func (uc *implUseCase) RunStream(ctx context.Context, cfg assistant.Config, message string, cb assistant.Callbacks) assistant.RunOutput {
	events := make(chan event, eventBufferSize)
	done := make(chan struct{})

	go func() {
		defer close(done)
		dispatch(events, cb)
	}()

	out := uc.run(ctx, cfg, message, func(ev event) { events <- ev })

	close(events)
	<-done
	return out
}

// dispatch drains the event channel into callbacks. Tool start/end
// events are deduplicated by tool name within the run, so a tool the
// agent invokes repeatedly surfaces one lifecycle pair.
func dispatch(events <-chan event, cb assistant.Callbacks) {
	started := make(map[string]bool)
	ended := make(map[string]bool)

	for ev := range events {
		switch ev.kind {
		case eventToken:
			if cb.OnToken != nil && ev.token != "" {
				cb.OnToken(ev.token)
			}
		case eventToolStart:
			if started[ev.tool] {
				continue
			}
			started[ev.tool] = true
			if cb.OnToolStart != nil {
				cb.OnToolStart(ev.tool)
			}
		case eventToolEnd:
			if ended[ev.tool] {
				continue
			}
			ended[ev.tool] = true
			if cb.OnToolEnd != nil {
				cb.OnToolEnd(ev.tool)
			}
		case eventProjectsFound:
			if cb.OnProjectsFound != nil {
				cb.OnProjectsFound(ev.projects)
			}
		case eventNeedsSelection:
			if cb.OnNeedsProjectSelection != nil {
				cb.OnNeedsProjectSelection(ev.projects)
			}
		case eventError:
			if cb.OnError != nil {
				cb.OnError(ev.errMsg)
			}
		case eventDone:
			if cb.OnDone != nil {
				cb.OnDone(ev.out)
			}
		}
	}
}

package job

import (
	"context"
	"fmt"
	"time"
)

// Stream event vocabulary.
const (
	EventProgress   = "progress"
	EventNodeUpdate = "node_update"
	EventComplete   = "complete"
	EventError      = "error"
	EventEnd        = "end"
)

// StreamEvent is one discrete push event rendered to a live client.
// Fields are populated per event type; everything else stays empty.
type StreamEvent struct {
	Type     string                 `json:"type"`
	JobID    string                 `json:"job_id,omitempty"`
	Status   string                 `json:"status,omitempty"`
	Progress *int                   `json:"progress,omitempty"`
	Intent   string                 `json:"intent,omitempty"`
	Entities []string               `json:"entities,omitempty"`
	NodeID   string                 `json:"node_id,omitempty"`
	Thought  string                 `json:"thought,omitempty"`
	Report   string                 `json:"final_report,omitempty"`
	MindMap  map[string]interface{} `json:"mind_map_data,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

// StatusSource is the pull side of the stream bridge; the registry
// satisfies it.
type StatusSource interface {
	Status(jobID string) (State, bool)
}

// StreamConfig bounds the polling loop behind a live event stream.
type StreamConfig struct {
	PollInterval time.Duration
	MaxPolls     int
}

func (c StreamConfig) withDefaults() StreamConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 500 * time.Millisecond
	}
	if c.MaxPolls <= 0 {
		c.MaxPolls = 600
	}
	return c
}

// StreamJob bridges the registry's snapshot state into a sequence of
// discrete, de-duplicated events. Events are emitted only when the
// observed value changed since the last emission, not per polling tick.
// When a broadcaster is supplied, its push events surface as node
// updates between polls instead of waiting out the interval.
// The loop ends on a terminal status, on poll-budget exhaustion (so a
// stuck job cannot hold a stream open forever), or when ctx is done; a
// single end event always closes the stream, and at most one complete
// event precedes it.
func StreamJob(ctx context.Context, src StatusSource, bc *Broadcaster, cfg StreamConfig, jobID string, emit func(StreamEvent) error) error {
	cfg = cfg.withDefaults()

	lastProgress := -1
	var lastStatus Status
	var lastIntent string
	lastNodes := make(map[Kind]string)

	var pushed chan ProgressEvent
	if bc != nil {
		pushed = make(chan ProgressEvent, 16)
		bc.Subscribe(jobID, func(ev ProgressEvent) {
			select {
			case pushed <- ev:
			default:
			}
		})
		defer bc.Unsubscribe(jobID)
	}

	emitNode := func(kind Kind, status ResultStatus, progress int, errMsg string) error {
		key := fmt.Sprintf("%s_%d_%t", status, progress, errMsg != "")
		if lastNodes[kind] == key {
			return nil
		}
		lastNodes[kind] = key
		p := progress
		return emit(StreamEvent{
			Type:     EventNodeUpdate,
			NodeID:   string(kind),
			Status:   string(status),
			Progress: &p,
			Error:    errMsg,
			Thought:  Thought(kind, status),
		})
	}

poll:
	for i := 0; i < cfg.MaxPolls; i++ {
		st, ok := src.Status(jobID)
		if !ok {
			if err := emit(StreamEvent{Type: EventError, Message: fmt.Sprintf("job not found: %s", jobID)}); err != nil {
				return err
			}
			break
		}

		if st.Progress != lastProgress || st.Status != lastStatus || st.Intent != lastIntent {
			progress := st.Progress
			ev := StreamEvent{
				Type:     EventProgress,
				JobID:    st.JobID,
				Status:   string(st.Status),
				Progress: &progress,
				Intent:   st.Intent,
				Entities: st.Entities,
			}
			if err := emit(ev); err != nil {
				return err
			}
			lastProgress, lastStatus, lastIntent = st.Progress, st.Status, st.Intent
		}

		for _, res := range st.Results {
			if err := emitNode(res.Kind, res.Status, res.Progress, res.Error); err != nil {
				return err
			}
		}

		if st.Status.Terminal() {
			ev := StreamEvent{
				Type:    EventComplete,
				JobID:   st.JobID,
				Status:  string(st.Status),
				Report:  st.Report,
				MindMap: st.MindMap,
				Error:   st.Error,
			}
			if err := emit(ev); err != nil {
				return err
			}
			break
		}

		select {
		case <-ctx.Done():
			break poll
		case ev := <-pushed:
			if err := emitNode(ev.Kind, ev.Status, ev.Progress, ev.Error); err != nil {
				return err
			}
		case <-time.After(cfg.PollInterval):
		}
	}

	return emit(StreamEvent{Type: EventEnd})
}

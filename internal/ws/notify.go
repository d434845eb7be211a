package ws

import (
	"encoding/json"
	"time"
)

const EventMatchingRunFinished = "matching_run_finished"

type RunFinishedEvent struct {
	Type       string `json:"type"`
	RunType    string `json:"run_type"`
	Status     string `json:"status"`
	Pairs      int    `json:"pairs"`
	Unmatched  int    `json:"unmatched"`
	ChatSent   int    `json:"chat_sent"`
	EmailSent  int    `json:"email_sent"`
	SendFailed int    `json:"send_failed"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// PublishRunFinished broadcasts evt to every connected admin. A nil hub is a
// no-op.
func (h *Hub) PublishRunFinished(evt RunFinishedEvent, at time.Time) {
	if h == nil {
		return
	}
	evt.Type = EventMatchingRunFinished
	evt.Timestamp = at.UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}

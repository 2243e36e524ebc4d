package models

import "time"

// Question is a single pending human query awaiting an answer over a
// messaging channel. ThreadTS is attached after the transport accepts the
// send; Answered flips when the poll loop observes a reply.
type Question struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Context   string    `json:"context,omitempty"`
	Channel   string    `json:"channel"`
	ThreadTS  string    `json:"thread_ts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Answered  bool      `json:"answered"`
	Answer    string    `json:"answer,omitempty"`
}

// Reply is a single threaded reply fetched from a messaging transport.
// Timestamps are transport-native opaque strings ordered by numeric value
// (Slack-style "1724968000.123456").
type Reply struct {
	Text      string `json:"text"`
	Timestamp string `json:"ts"`
}

package storage

import "time"

// Event records one completed chatroom turn: the user's message and,
// when a trigger fired, the assistant's response and the price that was
// folded into the prompt. Events are appended in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	Username          string    `json:"username"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response,omitempty"`
	Price             float64   `json:"price,omitempty"`
}

// Recorder abstracts persistence of turn events.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}

package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventChallengeCompleted EventType = "challenge-completed"
)

// CompletedEvent announces a completed challenge. Subscribers recompute the
// statistics of every participant.
type CompletedEvent struct {
	ChallengeID  string    `msgpack:"challenge_id"`
	WinnerID     *string   `msgpack:"winner_id"`
	Participants []string  `msgpack:"participants"`
	CompletedAt  time.Time `msgpack:"completed_at"`
}

// PushRequest is the body Cloud Pub/Sub posts to a push subscription.
type PushRequest struct {
	Message struct {
		Data      []byte `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

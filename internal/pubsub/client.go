package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Cloud Pub/Sub. Without a project id events are encoded and
// dropped, which keeps local development free of GCP credentials.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	if projectID == "" {
		log.Warn("GCP_PROJECT not set, events will not be published")
		return &client{}, nil
	}
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{
		client: pubSubC,
		teardown: func() {
			if err := pubSubC.Close(); err != nil {
				log.Error("Failed to close pubsub client", "error", err)
			}
		},
	}, nil
}

func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	if c.client == nil {
		log.Debug("Pubsub disabled, dropping message", "topic", topic, "bytes", len(msgpackData))
		return nil
	}
	result := c.client.Topic(string(topic)).Publish(ctx, &pubsub.Message{Data: msgpackData})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("Message published", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

func (c *client) Close() {
	if c.teardown != nil {
		c.teardown()
	}
}

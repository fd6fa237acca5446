package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/processor"
	"github.com/mauv0809/tampere-cricket/internal/pubsub"
)

// ChallengeCompletedHandler is the push endpoint of the challenge-completed
// subscription. A non-2xx answer makes Pub/Sub redeliver, so only failures
// worth retrying return 500.
func ChallengeCompletedHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received challenge completed message", "body", string(bodyBytes))

		var push pubsub.PushRequest
		if err := json.Unmarshal(bodyBytes, &push); err != nil {
			log.Error("Failed to unmarshal push request", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		var event pubsub.CompletedEvent
		if err := pubsubClient.ProcessMessage(push.Message.Data, &event); err != nil {
			log.Error("Failed to decode challenge completed event", "error", err, "messageID", push.Message.MessageID)
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}
		if err := proc.HandleCompleted(r.Context(), event); err != nil {
			log.Error("Failed to handle challenge completed event", "error", err, "challengeID", event.ChallengeID)
			http.Error(w, "Failed to handle event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

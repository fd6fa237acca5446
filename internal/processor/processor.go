package processor

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/metrics"
	"github.com/mauv0809/tampere-cricket/internal/notifier"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/pubsub"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

// New creates a new Processor.
func New(
	challenges Lifecycle,
	players challenge.PlayerLookup,
	stats Recomputer,
	leaderboard Invalidator,
	notifier Notifier,
	metrics metrics.Metrics,
	pubsub pubsub.PubSubClient,
) *Processor {
	return &Processor{
		challenges:  challenges,
		players:     players,
		stats:       stats,
		leaderboard: leaderboard,
		pubsub:      pubsub,
		notifier:    notifier,
		metrics:     metrics,
	}
}

func (p *Processor) Create(ctx context.Context, challengerID string, d challenge.Draft) (*challenge.Challenge, error) {
	c, err := p.challenges.Create(ctx, challengerID, d)
	if err != nil {
		return nil, p.observe(err)
	}
	p.metrics.IncChallengeEvent(metrics.EventCreated)
	p.notify(ctx, c, nil, p.notifier.SendChallengeCreated)
	return c, nil
}

func (p *Processor) Accept(ctx context.Context, id, actorID string) (*challenge.Challenge, error) {
	c, err := p.challenges.Accept(ctx, id, actorID)
	if err != nil {
		return nil, p.observe(err)
	}
	p.metrics.IncChallengeEvent(metrics.EventAccepted)
	p.notify(ctx, c, nil, p.notifier.SendChallengeAccepted)
	return c, nil
}

// AcceptSlot notifies only when the last slot completes the lineup.
func (p *Processor) AcceptSlot(ctx context.Context, id string, slot challenge.Slot, actorID string) (*challenge.Challenge, error) {
	c, err := p.challenges.AcceptSlot(ctx, id, slot, actorID)
	if err != nil {
		return nil, p.observe(err)
	}
	if c.Status == challenge.StatusAccepted {
		p.metrics.IncChallengeEvent(metrics.EventAccepted)
		p.notify(ctx, c, nil, p.notifier.SendChallengeAccepted)
	}
	return c, nil
}

func (p *Processor) Decline(ctx context.Context, id, actorID string) (*challenge.Challenge, error) {
	c, err := p.challenges.Decline(ctx, id, actorID)
	if err != nil {
		return nil, p.observe(err)
	}
	p.metrics.IncChallengeEvent(metrics.EventDeclined)
	return c, nil
}

func (p *Processor) Cancel(ctx context.Context, id, actorID string, admin bool) (*challenge.Challenge, error) {
	c, err := p.challenges.Cancel(ctx, id, actorID, admin)
	if err != nil {
		return nil, p.observe(err)
	}
	p.metrics.IncChallengeEvent(metrics.EventCancelled)
	return c, nil
}

func (p *Processor) Edit(ctx context.Context, id, actorID string, d challenge.Draft) (*challenge.Challenge, error) {
	c, err := p.challenges.Edit(ctx, id, actorID, d)
	return c, p.observe(err)
}

func (p *Processor) Delete(ctx context.Context, id, actorID string) error {
	return p.observe(p.challenges.Delete(ctx, id, actorID))
}

// RecordResult stores a result and runs the completion fan-out.
func (p *Processor) RecordResult(ctx context.Context, id, adminID string, in challenge.ResultInput) (*challenge.Challenge, *result.MatchResult, error) {
	c, r, err := p.challenges.RecordResult(ctx, id, adminID, in)
	if err != nil {
		return nil, nil, p.observe(err)
	}
	p.completed(ctx, c, r)
	return c, r, nil
}

// SelectWinner completes a challenge without a result and runs the
// completion fan-out.
func (p *Processor) SelectWinner(ctx context.Context, id, adminID, winnerID string) (*challenge.Challenge, error) {
	c, err := p.challenges.SelectWinner(ctx, id, adminID, winnerID)
	if err != nil {
		return nil, p.observe(err)
	}
	p.completed(ctx, c, nil)
	return c, nil
}

// HandleCompleted processes a challenge-completed event delivered by pubsub.
// Recomputes are overwrites, so redelivery is harmless.
func (p *Processor) HandleCompleted(ctx context.Context, event pubsub.CompletedEvent) error {
	log.Info("Handling challenge completed event", "challengeID", event.ChallengeID, "participants", len(event.Participants))
	var errs []error
	for _, id := range event.Participants {
		if err := p.recompute(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	p.leaderboard.Invalidate(ctx)
	return errors.Join(errs...)
}

// completed runs after every successful completion. The result is already
// stored, so failures here are logged and never returned.
func (p *Processor) completed(ctx context.Context, c *challenge.Challenge, r *result.MatchResult) {
	p.metrics.IncChallengeEvent(metrics.EventCompleted)
	participants := c.Participants()
	for _, id := range participants {
		if err := p.recompute(ctx, id); err != nil {
			log.Error("Failed to recompute statistics after completion", "error", err, "challengeID", c.ID, "playerID", id)
		}
	}
	p.leaderboard.Invalidate(ctx)
	p.notify(ctx, c, r, p.notifier.SendChallengeCompleted)

	event := pubsub.CompletedEvent{
		ChallengeID:  c.ID,
		WinnerID:     c.WinnerID,
		Participants: participants,
		CompletedAt:  time.Now().UTC(),
	}
	if c.CompletedAt != nil {
		event.CompletedAt = *c.CompletedAt
	}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventChallengeCompleted, event); err != nil {
		log.Error("Failed to publish challenge completed event", "error", err, "challengeID", c.ID)
		return
	}
	p.metrics.IncEventsPublished()
}

func (p *Processor) recompute(ctx context.Context, playerID string) error {
	start := time.Now()
	_, err := p.stats.Recompute(ctx, playerID)
	p.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())
	if err != nil {
		p.metrics.IncRecomputeFailed()
		return err
	}
	log.Debug("Statistics recomputed", "playerID", playerID)
	return nil
}

// observe counts state conflicts and passes err through.
func (p *Processor) observe(err error) error {
	if errors.Is(err, challenge.ErrStateConflict) {
		p.metrics.IncStateConflicts()
	}
	return err
}

type sendFunc func(ctx context.Context, n *notifier.ChallengeNotice) error

// notify resolves player names and sends a notice. Delivery problems never
// fail the request.
func (p *Processor) notify(ctx context.Context, c *challenge.Challenge, r *result.MatchResult, send sendFunc) {
	n, err := p.notice(ctx, c, r)
	if err != nil {
		log.Error("Failed to build notification", "error", err, "challengeID", c.ID)
		return
	}
	if err := send(ctx, n); err != nil {
		log.Error("Failed to send notification", "error", err, "challengeID", c.ID)
	}
}

func (p *Processor) notice(ctx context.Context, c *challenge.Challenge, r *result.MatchResult) (*notifier.ChallengeNotice, error) {
	ids := append([]string{c.ChallengerID}, c.Participants()...)
	players, err := p.players.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	name := func(id *string) string {
		if id == nil {
			return ""
		}
		if pl, ok := players[*id]; ok {
			return player.DisplayName(pl)
		}
		return *id
	}

	n := &notifier.ChallengeNotice{
		ChallengeID: c.ID,
		Type:        c.Type,
		Status:      c.Status,
		Challenger:  name(&c.ChallengerID),
		Opponent:    name(c.OpponentID),
		Team1:       [2]string{name(c.Lineup.Team1Batter.PlayerID), name(c.Lineup.Team1Bowler.PlayerID)},
		Team2:       [2]string{name(c.Lineup.Team2Batter.PlayerID), name(c.Lineup.Team2Bowler.PlayerID)},
		ScheduledAt: c.ScheduledAt,
		Metric:      c.Metric,
		TargetValue: c.TargetValue,
		Winner:      name(c.WinnerID),
	}
	if r != nil {
		n.Scores = r.Scores
	}
	return n, nil
}

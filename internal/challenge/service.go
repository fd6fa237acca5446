package challenge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

var _ Lifecycle = (*Service)(nil)

// Service runs the challenge lifecycle on top of a Store. Every legality
// check goes through the transition table in fsm.go.
type Service struct {
	store    Store
	players  PlayerLookup
	capacity CapacityChecker
	loc      *time.Location
	now      func() time.Time

	// admitMu makes a ground capacity check and the write it admits one step.
	admitMu sync.Mutex
}

// NewService creates a lifecycle service. capacity may be nil when grounds
// are not tracked. loc is the club's time zone: a challenge dated before
// today's calendar date there is in the past. A nil loc means UTC.
func NewService(store Store, players PlayerLookup, capacity CapacityChecker, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:    store,
		players:  players,
		capacity: capacity,
		loc:      loc,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for "today" and timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// localNow is the current time on the club's wall clock.
func (s *Service) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) Create(ctx context.Context, challengerID string, d Draft) (*Challenge, error) {
	normalize(&d)
	now := s.now()
	if err := validateDraft(challengerID, d, s.localNow()); err != nil {
		return nil, err
	}
	if err := s.checkPlayers(ctx, challengerID, d, true); err != nil {
		return nil, err
	}
	s.admitMu.Lock()
	defer s.admitMu.Unlock()
	if err := s.checkCapacity(ctx, d, ""); err != nil {
		return nil, err
	}

	c := &Challenge{
		ID:           uuid.NewString(),
		ChallengerID: challengerID,
		OpponentID:   d.OpponentID,
		Type:         d.Type,
		CreatedAt:    now,
	}
	applyDraft(c, d)
	invited := d.OpponentID != nil
	if d.Type == TypeSingleWicket {
		invited = c.Lineup.Full()
	}
	c.Status = Initial(invited)

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Info("Challenge created", "challengeID", c.ID, "challengerID", challengerID, "type", c.Type, "status", c.Status)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Challenge, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status) ([]*Challenge, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", "unknown status %q", status)
	}
	return s.store.List(ctx, status)
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.store.CountByStatus(ctx)
}

// Result returns the recorded result of a challenge, or nil when there is none.
func (s *Service) Result(ctx context.Context, id string) (*result.MatchResult, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetResult(ctx, id)
}

// Accept moves a metric challenge to ACCEPTED. OPEN challenges may be taken
// by anyone but the challenger, PENDING ones only by the invited opponent.
func (s *Service) Accept(ctx context.Context, id, actorID string) (*Challenge, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Type == TypeSingleWicket {
		return nil, invalid("slot", "single-wicket challenges are accepted slot by slot")
	}
	if c.ChallengerID == actorID {
		return nil, invalid("opponent", "you cannot accept your own challenge")
	}
	next, err := transition(c, EventAccept)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusPending && (c.OpponentID == nil || *c.OpponentID != actorID) {
		return nil, &StateConflictError{ChallengeID: c.ID, From: c.Status, Event: EventAccept, Reason: "this challenge was sent to another player"}
	}
	if err := s.requireActive(ctx, "opponent", actorID); err != nil {
		return nil, err
	}

	now := s.now()
	if c.OpponentID == nil {
		c.OpponentID = &actorID
	}
	c.Status = next
	c.AcceptedAt = &now
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info("Challenge accepted", "challengeID", c.ID, "opponentID", actorID)
	return c, nil
}

// AcceptSlot records a single-wicket participant's acceptance. An empty slot
// is claimed by the actor. Once all four slots are filled and accepted the
// challenge becomes ACCEPTED.
func (s *Service) AcceptSlot(ctx context.Context, id string, slot Slot, actorID string) (*Challenge, error) {
	if !slot.Valid() {
		return nil, invalid("slot", "unknown slot %q", slot)
	}
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Type != TypeSingleWicket {
		return nil, invalid("slot", "only single-wicket challenges have team slots")
	}
	if _, err := transition(c, EventAcceptSlot); err != nil {
		return nil, err
	}

	a := c.Lineup.Get(slot)
	switch {
	case a.PlayerID == nil:
		for _, held := range c.Lineup.SlotsOf(actorID) {
			if held.Team() != slot.Team() {
				return nil, invalid(string(slot), "%s cannot be the same as %s", slot.Label(), held.Label())
			}
		}
		if err := s.requireActive(ctx, string(slot), actorID); err != nil {
			return nil, err
		}
		a.PlayerID = &actorID
	case *a.PlayerID != actorID:
		return nil, forbidden(fmt.Sprintf("the %s slot belongs to another player", slot.Label()))
	case a.Accepted:
		return c, nil
	}
	a.Accepted = true

	if err := s.settleLineup(c); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info("Challenge slot accepted", "challengeID", c.ID, "slot", slot, "playerID", actorID, "status", c.Status)
	return c, nil
}

// Decline lets the invited opponent turn down a PENDING challenge.
func (s *Service) Decline(ctx context.Context, id, actorID string) (*Challenge, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Type == TypeSingleWicket || c.OpponentID == nil || *c.OpponentID != actorID {
		return nil, forbidden("only the invited opponent can decline a challenge")
	}
	next, err := transition(c, EventDecline)
	if err != nil {
		return nil, err
	}
	c.Status = next
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info("Challenge declined", "challengeID", c.ID, "opponentID", actorID)
	return c, nil
}

// Cancel withdraws an OPEN or PENDING challenge. Only the challenger or an
// admin may cancel.
func (s *Service) Cancel(ctx context.Context, id, actorID string, admin bool) (*Challenge, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ChallengerID != actorID && !admin {
		return nil, forbidden("only the challenger can cancel a challenge")
	}
	next, err := transition(c, EventCancel)
	if err != nil {
		return nil, err
	}
	c.Status = next
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info("Challenge cancelled", "challengeID", c.ID, "by", actorID)
	return c, nil
}

// Edit replaces the user supplied fields of an OPEN or PENDING challenge and
// re-runs every creation check. A metric challenge keeps its status. A
// single-wicket status follows the edited lineup.
func (s *Service) Edit(ctx context.Context, id, actorID string, d Draft) (*Challenge, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ChallengerID != actorID {
		return nil, forbidden("only the challenger can edit a challenge")
	}
	if _, err := transition(c, EventEdit); err != nil {
		return nil, err
	}

	normalize(&d)
	if d.Type != c.Type {
		return nil, invalid("challenge_type", "cannot be changed after creation")
	}
	if !samePlayer(d.OpponentID, c.OpponentID) {
		return nil, invalid("opponent", "cannot be changed after creation")
	}
	if err := validateDraft(c.ChallengerID, d, s.localNow()); err != nil {
		return nil, err
	}
	if err := s.checkPlayers(ctx, c.ChallengerID, d, false); err != nil {
		return nil, err
	}
	s.admitMu.Lock()
	defer s.admitMu.Unlock()
	if err := s.checkCapacity(ctx, d, c.ID); err != nil {
		return nil, err
	}

	applyDraft(c, d)
	if c.Type == TypeSingleWicket {
		if err := s.settleLineup(c); err != nil {
			return nil, err
		}
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info("Challenge edited", "challengeID", c.ID)
	return c, nil
}

// Delete removes an OPEN or PENDING challenge for good.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.ChallengerID != actorID {
		return forbidden("only the challenger can delete a challenge")
	}
	if _, err := transition(c, EventDelete); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, c); err != nil {
		return err
	}
	log.Info("Challenge deleted", "challengeID", c.ID)
	return nil
}

// RecordResult creates or corrects the result of an ACCEPTED or COMPLETED
// challenge and sets the winner. A manual winner overrides the automatic
// decision.
func (s *Service) RecordResult(ctx context.Context, id, adminID string, in ResultInput) (*Challenge, *result.MatchResult, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	next, err := transition(c, EventRecordResult)
	if err != nil {
		return nil, nil, err
	}
	if err := validateResult(c, in); err != nil {
		return nil, nil, err
	}

	side := result.Determine(in.Scores, c.Metric, c.TargetValue)
	winnerID := c.PlayerForSide(side)
	if in.ManualWinnerID != nil {
		side = c.SideOf(*in.ManualWinnerID)
		winnerID = in.ManualWinnerID
	}

	now := s.now()
	c.Status = next
	c.WinnerID = winnerID
	c.WinningSide = side
	if c.CompletedAt == nil {
		c.CompletedAt = &now
	}
	r := &result.MatchResult{
		ChallengeID: c.ID,
		Scores:      in.Scores,
		Details:     in.Details,
		CreatedBy:   adminID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveResult(ctx, c, r); err != nil {
		return nil, nil, err
	}
	log.Info("Challenge result recorded", "challengeID", c.ID, "winningSide", side, "manual", in.ManualWinnerID != nil)
	return c, r, nil
}

// SelectWinner completes a challenge with an admin chosen winner and no
// recorded scores.
func (s *Service) SelectWinner(ctx context.Context, id, adminID, winnerID string) (*Challenge, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := transition(c, EventRecordResult)
	if err != nil {
		return nil, err
	}
	if !c.IsParticipant(winnerID) {
		return nil, invalid("winner", "must be a participant of the challenge")
	}

	now := s.now()
	c.Status = next
	c.WinnerID = &winnerID
	c.WinningSide = c.SideOf(winnerID)
	if c.CompletedAt == nil {
		c.CompletedAt = &now
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info("Challenge winner selected", "challengeID", c.ID, "winnerID", winnerID, "adminID", adminID)
	return c, nil
}

// checkPlayers loads everyone named in the draft. The challenger needs a
// complete profile when creating.
func (s *Service) checkPlayers(ctx context.Context, challengerID string, d Draft, creating bool) error {
	named := map[string]string{challengerID: "challenger"}
	if d.OpponentID != nil {
		named[*d.OpponentID] = "opponent"
	}
	for _, slot := range Slots {
		if id := d.slotPlayer(slot); id != nil {
			if _, seen := named[*id]; !seen {
				named[*id] = string(slot)
			}
		}
	}
	ids := make([]string, 0, len(named))
	for id := range named {
		ids = append(ids, id)
	}
	found, err := s.players.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	for _, id := range ids {
		p := found[id]
		if !p.Active() {
			return invalid(named[id], "player does not exist or has been deleted")
		}
	}
	if creating {
		if ok, missing := player.ProfileComplete(found[challengerID]); !ok {
			return invalid(missing, "complete your profile before creating a challenge")
		}
	}
	return nil
}

func (s *Service) requireActive(ctx context.Context, field, playerID string) error {
	found, err := s.players.GetMany(ctx, []string{playerID})
	if err != nil {
		return fmt.Errorf("failed to load player %s: %w", playerID, err)
	}
	if !found[playerID].Active() {
		return invalid(field, "player does not exist or has been deleted")
	}
	return nil
}

// settleLineup moves a single-wicket challenge to the status its lineup
// implies: ACCEPTED once everyone accepted, PENDING while all four slots are
// named and OPEN while any slot is free.
func (s *Service) settleLineup(c *Challenge) error {
	ev := EventLineupOpened
	switch {
	case c.Lineup.AllAccepted():
		ev = EventLineupComplete
	case c.Lineup.Full():
		ev = EventLineupFilled
	}
	next, err := transition(c, ev)
	if err != nil {
		return err
	}
	if next == StatusAccepted {
		now := s.now()
		c.AcceptedAt = &now
	}
	c.Status = next
	return nil
}

// checkCapacity asks the ground schedule whether the window still has room.
// Checkers report a full window as an AdmissionLimitError and an unknown
// ground as a ValidationError; anything else is an infrastructure failure.
func (s *Service) checkCapacity(ctx context.Context, d Draft, excludeID string) error {
	if s.capacity == nil || d.GroundID == nil || d.ScheduledAt == nil {
		return nil
	}
	err := s.capacity.CheckCapacity(ctx, *d.GroundID, *d.ScheduledAt, excludeID)
	if err == nil || errors.Is(err, ErrAdmissionLimit) || errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("failed to check ground capacity: %w", err)
}

// applyDraft copies the editable fields. A slot keeps its acceptance only
// while the same player holds it, and the challenger's own slots count as
// accepted.
func applyDraft(c *Challenge, d Draft) {
	c.GroundID = d.GroundID
	c.ScheduledAt = d.ScheduledAt
	c.DurationMinutes = d.DurationMinutes
	c.Metric = d.Metric
	c.TargetValue = d.TargetValue
	c.OverCount = d.OverCount
	c.ConditionText = d.ConditionText
	c.Description = d.Description
	for _, slot := range Slots {
		a := c.Lineup.Get(slot)
		next := d.slotPlayer(slot)
		if !samePlayer(a.PlayerID, next) {
			a.PlayerID = next
			a.Accepted = false
		}
		if next != nil && *next == c.ChallengerID {
			a.Accepted = true
		}
	}
}

func samePlayer(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

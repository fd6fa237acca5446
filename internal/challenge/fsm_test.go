package challenge_test

import (
	"errors"
	"testing"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from  challenge.Status
		event challenge.Event
		to    challenge.Status
		ok    bool
	}{
		{challenge.StatusOpen, challenge.EventAccept, challenge.StatusAccepted, true},
		{challenge.StatusPending, challenge.EventAccept, challenge.StatusAccepted, true},
		{challenge.StatusAccepted, challenge.EventAccept, "", false},
		{challenge.StatusCompleted, challenge.EventAccept, "", false},
		{challenge.StatusCancelled, challenge.EventAccept, "", false},
		{challenge.StatusOpen, challenge.EventEdit, challenge.StatusOpen, true},
		{challenge.StatusPending, challenge.EventEdit, challenge.StatusPending, true},
		{challenge.StatusAccepted, challenge.EventEdit, "", false},
		{challenge.StatusAccepted, challenge.EventDelete, "", false},
		{challenge.StatusOpen, challenge.EventCancel, challenge.StatusCancelled, true},
		{challenge.StatusAccepted, challenge.EventCancel, "", false},
		{challenge.StatusOpen, challenge.EventDecline, "", false},
		{challenge.StatusPending, challenge.EventDecline, challenge.StatusCancelled, true},
		{challenge.StatusOpen, challenge.EventLineupComplete, challenge.StatusAccepted, true},
		{challenge.StatusOpen, challenge.EventLineupFilled, challenge.StatusPending, true},
		{challenge.StatusPending, challenge.EventLineupOpened, challenge.StatusOpen, true},
		{challenge.StatusAccepted, challenge.EventLineupOpened, "", false},
		{challenge.StatusOpen, challenge.EventRecordResult, "", false},
		{challenge.StatusPending, challenge.EventRecordResult, "", false},
		{challenge.StatusAccepted, challenge.EventRecordResult, challenge.StatusCompleted, true},
		{challenge.StatusCompleted, challenge.EventRecordResult, challenge.StatusCompleted, true},
		{challenge.StatusCancelled, challenge.EventRecordResult, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+" "+string(tt.event), func(t *testing.T) {
			to, err := challenge.Transition(tt.from, tt.event)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.Is(err, challenge.ErrStateConflict))
				assert.Equal(t, tt.from, to, "an illegal event leaves the status unchanged")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestTransition_ErrorNamesAllowedStates(t *testing.T) {
	_, err := challenge.Transition(challenge.StatusCompleted, challenge.EventEdit)
	require.Error(t, err)

	var conflict *challenge.StateConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, challenge.StatusCompleted, conflict.From)
	assert.Equal(t, "only allowed while OPEN or PENDING", conflict.Reason)
}

func TestInitial(t *testing.T) {
	assert.Equal(t, challenge.StatusPending, challenge.Initial(true))
	assert.Equal(t, challenge.StatusOpen, challenge.Initial(false))
}

func TestStatusActive(t *testing.T) {
	assert.True(t, challenge.StatusOpen.Active())
	assert.True(t, challenge.StatusPending.Active())
	assert.True(t, challenge.StatusAccepted.Active())
	assert.False(t, challenge.StatusCompleted.Active())
	assert.False(t, challenge.StatusCancelled.Active())
}

func TestLineup(t *testing.T) {
	a, b, c, d := "a", "b", "c", "d"
	l := challenge.Lineup{
		Team1Batter: challenge.Assignment{PlayerID: &a, Accepted: true},
		Team1Bowler: challenge.Assignment{PlayerID: &a, Accepted: true},
		Team2Batter: challenge.Assignment{PlayerID: &c, Accepted: true},
	}
	assert.False(t, l.AllAccepted(), "an empty slot is not accepted")
	assert.False(t, l.Full())
	assert.Equal(t, []challenge.Slot{challenge.SlotTeam1Batter, challenge.SlotTeam1Bowler}, l.SlotsOf("a"))

	l.Team2Bowler = challenge.Assignment{PlayerID: &d}
	assert.True(t, l.Full())
	assert.False(t, l.AllAccepted())

	l.Get(challenge.SlotTeam2Bowler).Accepted = true
	assert.True(t, l.AllAccepted())

	ch := &challenge.Challenge{Type: challenge.TypeSingleWicket, ChallengerID: b, Lineup: l}
	assert.Equal(t, []string{"a", "c", "d"}, ch.Participants())
	assert.False(t, ch.IsParticipant("b"), "a challenger without a slot does not play")
	assert.True(t, ch.AllParticipantsAccepted())
}

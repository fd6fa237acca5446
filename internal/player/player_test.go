package player_test

import (
	"testing"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Unknown", player.DisplayName(nil))
	assert.Equal(t, "ravi", player.DisplayName(&player.Player{Username: "ravi"}))
	assert.Equal(t, "Ravi Kumar", player.DisplayName(&player.Player{Username: "ravi", FirstName: "Ravi", LastName: "Kumar"}))
	assert.Equal(t, "Deleted Player", player.DisplayName(&player.Player{Username: "ravi", FirstName: "Ravi", Status: player.StatusDeleted}))
}

func TestSoftDelete(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	p := player.Player{ID: "0123456789abcdef", Username: "ravi", Status: player.StatusActive}

	deleted := player.SoftDelete(p, at)

	assert.Equal(t, "deleted_01234567_ravi", deleted.Username)
	assert.Equal(t, player.StatusDeleted, deleted.Status)
	assert.Equal(t, at, *deleted.DeletedAt)
	assert.False(t, deleted.Active())
	assert.Equal(t, "ravi", p.Username, "the input must not be modified")

	again := player.SoftDelete(deleted, at.Add(time.Hour))
	assert.Equal(t, deleted, again, "deleting twice changes nothing")
}

func TestDeletedUsername_ShortID(t *testing.T) {
	assert.Equal(t, "deleted_p1_ravi", player.DeletedUsername(&player.Player{ID: "p1", Username: "ravi"}))
}

func TestProfileComplete(t *testing.T) {
	complete := player.Player{
		Phone:           "+358 40 123",
		Bio:             "Opening batter",
		Role:            player.RoleBatter,
		ExperienceLevel: "advanced",
		BattingStyle:    "right_handed",
		BowlingStyle:    "off_spin",
		YearsPlaying:    4,
	}
	ok, missing := player.ProfileComplete(&complete)
	assert.True(t, ok)
	assert.Empty(t, missing)

	noBio := complete
	noBio.Bio = "   "
	ok, missing = player.ProfileComplete(&noBio)
	assert.False(t, ok)
	assert.Equal(t, "bio", missing)

	rookie := complete
	rookie.YearsPlaying = 0
	ok, missing = player.ProfileComplete(&rookie)
	assert.False(t, ok)
	assert.Equal(t, "years_playing", missing)
}

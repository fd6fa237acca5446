package player

import (
	"fmt"
	"strings"
	"time"
)

const (
	unknownName = "Unknown"
	deletedName = "Deleted Player"
)

// DisplayName is the name shown for p anywhere in the application.
func DisplayName(p *Player) string {
	if p == nil {
		return unknownName
	}
	if p.Status == StatusDeleted {
		return deletedName
	}
	full := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if full != "" {
		return full
	}
	return p.Username
}

// DeletedUsername frees the original username so it can be registered again.
func DeletedUsername(p *Player) string {
	short := p.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("deleted_%s_%s", short, p.Username)
}

// SoftDelete returns a copy of p in the deleted state. Applying it twice is a no-op.
func SoftDelete(p Player, at time.Time) Player {
	if p.Status == StatusDeleted {
		return p
	}
	p.Username = DeletedUsername(&p)
	p.Status = StatusDeleted
	deletedAt := at.UTC()
	p.DeletedAt = &deletedAt
	return p
}

// ProfileComplete reports whether every field required for creating a
// challenge is filled in. The first missing field is returned.
func ProfileComplete(p *Player) (bool, string) {
	checks := []struct {
		field string
		ok    bool
	}{
		{"phone", strings.TrimSpace(p.Phone) != ""},
		{"bio", strings.TrimSpace(p.Bio) != ""},
		{"role", p.Role != ""},
		{"experience_level", p.ExperienceLevel != ""},
		{"preferred_batting_style", p.BattingStyle != ""},
		{"preferred_bowling_style", p.BowlingStyle != ""},
		{"years_playing", p.YearsPlaying > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return false, c.field
		}
	}
	return true, ""
}

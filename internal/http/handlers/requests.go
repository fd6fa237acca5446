package handlers

import (
	"time"

	"github.com/mauv0809/tampere-cricket/internal/availability"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

// challengeRequest is the body of create and edit. The scheduled time is
// given as a local date and time at the club.
type challengeRequest struct {
	Type            challenge.Type `json:"challenge_type" validate:"required,oneof=SINGLE_WICKET BATTING BOWLING"`
	OpponentID      *string        `json:"opponent_id" validate:"omitempty,min=1"`
	Team1BatterID   *string        `json:"team1_batter_id" validate:"omitempty,min=1"`
	Team1BowlerID   *string        `json:"team1_bowler_id" validate:"omitempty,min=1"`
	Team2BatterID   *string        `json:"team2_batter_id" validate:"omitempty,min=1"`
	Team2BowlerID   *string        `json:"team2_bowler_id" validate:"omitempty,min=1"`
	GroundID        *string        `json:"ground_id" validate:"omitempty,min=1"`
	Date            string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time            string         `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes int            `json:"duration_minutes" validate:"omitempty,min=15,max=300"`
	Metric          result.Metric  `json:"metric" validate:"omitempty,oneof=runs wickets sixes fours dots"`
	TargetValue     *int           `json:"target_value" validate:"omitempty,min=1,max=100"`
	OverCount       *int           `json:"over_count" validate:"omitempty,min=1,max=20"`
	ConditionText   string         `json:"condition_text" validate:"max=500"`
	Description     string         `json:"description" validate:"max=2000"`
}

// draft converts the request into a challenge draft. A date without a time
// is scheduled at midnight.
func (req challengeRequest) draft(loc *time.Location) (challenge.Draft, error) {
	d := challenge.Draft{
		OpponentID:      req.OpponentID,
		Type:            req.Type,
		Team1BatterID:   req.Team1BatterID,
		Team1BowlerID:   req.Team1BowlerID,
		Team2BatterID:   req.Team2BatterID,
		Team2BowlerID:   req.Team2BowlerID,
		GroundID:        req.GroundID,
		DurationMinutes: req.DurationMinutes,
		Metric:          req.Metric,
		TargetValue:     req.TargetValue,
		OverCount:       req.OverCount,
		ConditionText:   req.ConditionText,
		Description:     req.Description,
	}
	if req.Date == "" {
		if req.Time != "" {
			return d, &challenge.ValidationError{Field: "date", Reason: "is required when a time is given"}
		}
		return d, nil
	}
	clock := req.Time
	if clock == "" {
		clock = "00:00"
	}
	at, err := time.ParseInLocation(availability.DateLayout+" "+availability.TimeLayout, req.Date+" "+clock, loc)
	if err != nil {
		return d, &challenge.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD with an optional HH:MM time"}
	}
	d.ScheduledAt = &at
	return d, nil
}

type sideStatsRequest struct {
	Runs    int `json:"runs" validate:"gte=0"`
	Wickets int `json:"wickets" validate:"gte=0"`
	Sixes   int `json:"sixes" validate:"gte=0"`
	Fours   int `json:"fours" validate:"gte=0"`
	Dots    int `json:"dots" validate:"gte=0"`
}

func (s *sideStatsRequest) stats() result.SideStats {
	if s == nil {
		return result.SideStats{}
	}
	return result.SideStats{Runs: s.Runs, Wickets: s.Wickets, Sixes: s.Sixes, Fours: s.Fours, Dots: s.Dots}
}

// resultRequest carries either team scores (single wicket) or challenger
// and opponent scores (batting and bowling).
type resultRequest struct {
	Team1             *sideStatsRequest `json:"team1"`
	Team2             *sideStatsRequest `json:"team2"`
	Challenger        *sideStatsRequest `json:"challenger"`
	Opponent          *sideStatsRequest `json:"opponent"`
	TotalOvers        int               `json:"total_overs" validate:"gte=0,lte=50"`
	MatchDuration     int               `json:"match_duration" validate:"gte=0,lte=600"`
	WeatherConditions string            `json:"weather_conditions" validate:"max=200"`
	PitchConditions   string            `json:"pitch_conditions" validate:"max=200"`
	Notes             string            `json:"notes" validate:"max=2000"`
	WinnerID          *string           `json:"winner_id" validate:"omitempty,min=1"`
}

func (req resultRequest) input() (challenge.ResultInput, error) {
	teams := req.Team1 != nil || req.Team2 != nil
	contest := req.Challenger != nil || req.Opponent != nil
	in := challenge.ResultInput{
		Details: result.Details{
			TotalOvers:        req.TotalOvers,
			DurationMinutes:   req.MatchDuration,
			WeatherConditions: req.WeatherConditions,
			PitchConditions:   req.PitchConditions,
			Notes:             req.Notes,
		},
		ManualWinnerID: req.WinnerID,
	}
	switch {
	case teams && contest:
		return in, &challenge.ValidationError{Field: "scores", Reason: "send either team1/team2 or challenger/opponent, not both"}
	case teams:
		in.Scores = result.SingleWicket{Team1: req.Team1.stats(), Team2: req.Team2.stats()}
	case contest:
		in.Scores = result.Contest{Challenger: req.Challenger.stats(), Opponent: req.Opponent.stats()}
	}
	return in, nil
}

type winnerRequest struct {
	WinnerID string `json:"winner_id" validate:"required"`
}

type playerRequest struct {
	Username        string      `json:"username" validate:"required,min=3,max=30"`
	FirstName       string      `json:"first_name" validate:"max=50"`
	LastName        string      `json:"last_name" validate:"max=50"`
	Phone           string      `json:"phone" validate:"max=30"`
	City            string      `json:"city" validate:"max=50"`
	Bio             string      `json:"bio" validate:"max=500"`
	Role            player.Role `json:"role" validate:"omitempty,oneof=batter bowler allrounder"`
	ExperienceLevel string      `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	BattingStyle    string      `json:"preferred_batting_style" validate:"max=50"`
	BowlingStyle    string      `json:"preferred_bowling_style" validate:"max=50"`
	YearsPlaying    int         `json:"years_playing" validate:"gte=0,lte=80"`
}

func (req playerRequest) player() *player.Player {
	return &player.Player{
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		City:            req.City,
		Bio:             req.Bio,
		Role:            req.Role,
		ExperienceLevel: req.ExperienceLevel,
		BattingStyle:    req.BattingStyle,
		BowlingStyle:    req.BowlingStyle,
		YearsPlaying:    req.YearsPlaying,
	}
}

type groundRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Location   string `json:"location" validate:"max=200"`
	Capacity   int    `json:"capacity" validate:"gte=0"`
	Facilities string `json:"facilities" validate:"max=500"`
	Closed     bool   `json:"closed"`
}

type slotRequest struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"required,datetime=15:04"`
	Price     float64 `json:"price" validate:"gte=0"`
	Closed    bool    `json:"closed"`
}

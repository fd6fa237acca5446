package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/metrics"
	"github.com/mauv0809/tampere-cricket/internal/notifier"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/result"
	"github.com/mauv0809/tampere-cricket/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	loc       *time.Location
	dryRun    bool
}

// NewNotifier creates a new Notifier. Without a token messages are only
// logged.
func NewNotifier(token, channelID string, loc *time.Location, metrics metrics.Metrics) *Notifier {
	n := NewNotifierWithAPI(nil, channelID, loc, metrics)
	if token == "" {
		log.Warn("SLACK_BOT_TOKEN not set, notifications run in dry-run mode")
		n.dryRun = true
		return n
	}
	n.api = slack.New(token)
	return n
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, loc *time.Location, metrics metrics.Metrics) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       loc,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message) (string, string, error) {
	if s.dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendChallengeCreated(ctx context.Context, n *notifier.ChallengeNotice) error {
	_, _, err := s.sendMessage(ctx, s.formatCreated(n))
	return err
}

func (s *Notifier) SendChallengeAccepted(ctx context.Context, n *notifier.ChallengeNotice) error {
	_, _, err := s.sendMessage(ctx, s.formatAccepted(n))
	return err
}

func (s *Notifier) SendChallengeCompleted(ctx context.Context, n *notifier.ChallengeNotice) error {
	_, _, err := s.sendMessage(ctx, s.formatCompleted(n))
	return err
}

func (s *Notifier) SendLeaderboard(ctx context.Context, page *ranking.Page) error {
	_, _, err := s.sendMessage(ctx, s.formatLeaderboard(page))
	return err
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func header(text string) slack.Block {
	return slack.NewHeaderBlock(plain(text))
}

func section(text string) slack.Block {
	return slack.NewSectionBlock(plain(text), nil, nil)
}

func orTBD(name string) string {
	if name == "" {
		return "TBD"
	}
	return name
}

func typeLabel(t challenge.Type) string {
	switch t {
	case challenge.TypeSingleWicket:
		return "Single wicket"
	case challenge.TypeBatting:
		return "Batting"
	case challenge.TypeBowling:
		return "Bowling"
	}
	return string(t)
}

// matchup renders who plays whom.
func matchup(n *notifier.ChallengeNotice) string {
	if n.Type == challenge.TypeSingleWicket {
		return fmt.Sprintf("Team 1: %s (bat) & %s (bowl)\nTeam 2: %s (bat) & %s (bowl)",
			orTBD(n.Team1[0]), orTBD(n.Team1[1]), orTBD(n.Team2[0]), orTBD(n.Team2[1]))
	}
	opponent := n.Opponent
	if opponent == "" {
		opponent = "anyone"
	}
	return fmt.Sprintf("%s vs %s", n.Challenger, opponent)
}

func (s *Notifier) details(n *notifier.ChallengeNotice) string {
	lines := []string{matchup(n)}
	if n.Type != challenge.TypeSingleWicket && n.Metric != "" {
		goal := "Most " + string(n.Metric)
		if n.TargetValue != nil {
			goal = fmt.Sprintf("Target: %d %s", *n.TargetValue, n.Metric)
		}
		lines = append(lines, goal)
	}
	if n.ScheduledAt != nil {
		lines = append(lines, "When: "+n.ScheduledAt.In(s.loc).Format("Monday 02 Jan, 15:04"))
	}
	return strings.Join(lines, "\n")
}

func (s *Notifier) formatCreated(n *notifier.ChallengeNotice) slack.Message {
	title := fmt.Sprintf("🏏 New %s challenge! 🏏", strings.ToLower(typeLabel(n.Type)))
	blocks := []slack.Block{header(title), section(s.details(n))}
	if n.Type != challenge.TypeSingleWicket && n.Opponent == "" {
		blocks = append(blocks, slack.NewContextBlock("", plain("Open to anyone. First to accept plays.")))
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatAccepted(n *notifier.ChallengeNotice) slack.Message {
	return slack.NewBlockMessage(
		header("🤝 Challenge accepted! 🤝"),
		section(s.details(n)),
	)
}

func (s *Notifier) formatCompleted(n *notifier.ChallengeNotice) slack.Message {
	blocks := []slack.Block{header("🏏 Challenge finished! 🏏"), section(s.details(n))}

	if n.Scores != nil {
		one, two := n.Scores.Sides()
		labels := [2]string{n.Challenger, orTBD(n.Opponent)}
		if n.Type == challenge.TypeSingleWicket {
			labels = [2]string{"Team 1", "Team 2"}
		}
		fields := []*slack.TextBlockObject{
			plain(fmt.Sprintf("%s\n%s", labels[0], sideLine(one))),
			plain(fmt.Sprintf("%s\n%s", labels[1], sideLine(two))),
		}
		blocks = append(blocks, slack.NewSectionBlock(plain(resultLine(n)), fields, nil))
	} else {
		blocks = append(blocks, section(resultLine(n)))
	}
	return slack.NewBlockMessage(blocks...)
}

func resultLine(n *notifier.ChallengeNotice) string {
	if n.Winner == "" {
		return "Result: draw"
	}
	if n.Type == challenge.TypeSingleWicket {
		return fmt.Sprintf("Result: %s's team won! 🏆", n.Winner)
	}
	return fmt.Sprintf("Result: %s won! 🏆", n.Winner)
}

func sideLine(s result.SideStats) string {
	return fmt.Sprintf("• %d runs, %d wickets, %d sixes, %d fours", s.Runs, s.Wickets, s.Sixes, s.Fours)
}

// formatLeaderboard creates a Slack message to display the top of a leaderboard.
func (s *Notifier) formatLeaderboard(page *ranking.Page) slack.Message {
	title := "Overall"
	switch page.Board {
	case ranking.BoardBatting:
		title = "Batting"
	case ranking.BoardBowling:
		title = "Bowling"
	}
	blocks := []slack.Block{header(fmt.Sprintf("🏆 %s Leaderboard 🏆", title))}

	if len(page.Entries) == 0 {
		blocks = append(blocks, section("No rankings yet. Go play some challenges!"))
		return slack.NewBlockMessage(blocks...)
	}

	for _, st := range page.Entries {
		var medal string
		switch st.Rank {
		case 1:
			medal = "🥇 "
		case 2:
			medal = "🥈 "
		case 3:
			medal = "🥉 "
		}
		move := ""
		switch {
		case st.RankChange > 0:
			move = fmt.Sprintf(" ▲%d", st.RankChange)
		case st.RankChange < 0:
			move = fmt.Sprintf(" ▼%d", -st.RankChange)
		}
		text := fmt.Sprintf("%d. %s%s%s\n> Rating: %.0f | Won %d of %d",
			st.Rank, medal, st.DisplayName, move, st.Score(page.Board), st.Wins, st.MatchesPlayed)
		blocks = append(blocks, section(text))
	}
	return slack.NewBlockMessage(blocks...)
}

// FormatLeaderboardResponse renders a leaderboard page as a slash command reply.
func (s *Notifier) FormatLeaderboardResponse(page *ranking.Page) slack.Message {
	return s.formatLeaderboard(page)
}

// FormatPlayerStatsResponse renders a player's statistics as a slash command reply.
func (s *Notifier) FormatPlayerStatsResponse(name string, st *stats.Statistics) slack.Message {
	blocks := []slack.Block{header(fmt.Sprintf("📊 Stats for %s", name))}
	if st.MatchesPlayed == 0 {
		blocks = append(blocks, section("No completed challenges yet."))
		return slack.NewBlockMessage(blocks...)
	}
	blocks = append(blocks,
		section(fmt.Sprintf("Played %d | Won %d | Lost %d | Drawn %d | Win rate %.0f%%",
			st.MatchesPlayed, st.Wins, st.Losses, st.Draws, st.WinRate)),
		section(fmt.Sprintf("Runs %d | Wickets %d", st.Runs, st.Wickets)),
		section(fmt.Sprintf("Rating %.0f | Batting %.0f | Bowling %.0f", st.Overall, st.Batting, st.Bowling)),
	)
	return slack.NewBlockMessage(blocks...)
}

// FormatPlayerNotFoundResponse is the reply when a slash command names an unknown player.
func (s *Notifier) FormatPlayerNotFoundResponse(name string) slack.Message {
	return slack.NewBlockMessage(section(fmt.Sprintf("Could not find a player called %q.", name)))
}

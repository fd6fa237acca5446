package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/auth"
	"github.com/spf13/cobra"
)

var (
	playerID  string
	status    string
	page      int
	pageSize  int
	search    string
	board     string
	date      string
	admin     bool
	tokenTTL  time.Duration
	jwtSecret string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(tokenCmd)

	challengesCmd.Flags().StringVar(&status, "status", "", "Only list challenges in this status")

	leaderboardCmd.Flags().IntVar(&page, "page", 1, "Page number")
	leaderboardCmd.Flags().IntVar(&pageSize, "page-size", 20, "Entries per page")
	leaderboardCmd.Flags().StringVar(&search, "q", "", "Filter by username or name")
	leaderboardCmd.Flags().StringVar(&board, "board", "overall", "overall, batting or bowling")

	availabilityCmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Date as YYYY-MM-DD")

	recomputeCmd.Flags().StringVar(&playerID, "player", "", "Recompute a single player instead of everyone")

	tokenCmd.Flags().BoolVar(&admin, "admin", false, "Issue an admin token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTokenTTL, "Token lifetime")
	tokenCmd.Flags().StringVar(&jwtSecret, "secret", os.Getenv("JWT_SECRET"), "Signing secret (defaults to $JWT_SECRET)")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List challenges with per-status counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if status != "" {
			q.Set("status", status)
		}
		return performRequest(http.MethodGet, "/challenges", q)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show a page of the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("board", board)
		q.Set("page", fmt.Sprint(page))
		q.Set("page_size", fmt.Sprint(pageSize))
		if search != "" {
			q.Set("q", search)
		}
		return performRequest(http.MethodGet, "/leaderboard", q)
	},
}

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "List the open time slots of a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/availability", url.Values{"date": {date}})
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute player statistics (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if playerID != "" {
			q.Set("player_id", playerID)
		}
		return performRequest(http.MethodPost, "/admin/recompute-stats", q)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store the current ranks and post the leaderboard (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/admin/rank-snapshot", nil)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <player-id>",
	Short: "Issue a bearer token for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if jwtSecret == "" {
			return fmt.Errorf("a signing secret is required, set --secret or JWT_SECRET")
		}
		signed, err := auth.New(jwtSecret, tokenTTL).Issue(args[0], admin)
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}

func performRequest(method, endpoint string, query url.Values) error {
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s %s\n", method, target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

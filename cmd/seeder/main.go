package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/tampere-cricket/internal/availability"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/database"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/rating"
	"github.com/mauv0809/tampere-cricket/internal/result"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

const (
	numDays     = 7
	numMatches  = 40
	concurrency = 4
)

var (
	firstNames = []string{"Aman", "Ville", "Ravi", "Mikko", "Sanjay", "Juha", "Imran", "Antti", "Kasun", "Oskari", "Faisal", "Lauri"}
	lastNames  = []string{"Mendis", "Virtanen", "Menon", "Korhonen", "Patel", "Nieminen", "Khan", "Laine", "Perera", "Heikkinen", "Ali", "Mäkinen"}
	roles      = []player.Role{player.RoleBatter, player.RoleBowler, player.RoleAllRounder}
	levels     = []string{"beginner", "intermediate", "advanced"}
	grounds    = []availability.Ground{
		{Name: "Hervanta Cricket Ground", Location: "Hervanta, Tampere", Capacity: 40, Facilities: "nets, pavilion"},
		{Name: "Kaleva Park", Location: "Kaleva, Tampere", Capacity: 25, Facilities: "nets"},
	}
	slotTimes = [][2]string{{"17:00", "18:00"}, {"18:00", "19:00"}, {"19:00", "20:00"}}
)

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken string) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName = os.Getenv("DB_NAME")
	if dbName == "" {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}
	return dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN")
}

func main() {
	log.Info("Starting database seeder...")
	dbName, primaryURL, authToken := loadConfig()

	db, teardown, err := database.InitDB(dbName, primaryURL, authToken)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	players := player.New(db)
	avail := availability.NewService(availability.New(db), availability.DefaultSlotCapacity, time.UTC)
	challengeStore := challenge.New(db)
	statsStore := stats.New(db, rating.Default())

	// Backdate the clock so seeded challenges spread over the past weeks.
	clock := time.Now().UTC().AddDate(0, 0, -28)
	challenges := challenge.NewService(challengeStore, players, avail, time.UTC).
		WithClock(func() time.Time { return clock })

	ids := seedPlayers(ctx, players)
	seedGrounds(ctx, avail)

	startTime := time.Now()
	completed := 0
	for i := 0; i < numMatches; i++ {
		clock = clock.Add(14 * time.Hour)
		if err := playMatch(ctx, challenges, ids); err != nil {
			log.Warn("Skipped dummy match", "error", err)
			continue
		}
		completed++
	}
	log.Info("Dummy matches inserted", "completed", completed, "duration", time.Since(startTime))

	n, err := statsStore.RecomputeAll(ctx, concurrency)
	if err != nil {
		log.Fatalf("Failed to recompute statistics: %s", err)
	}
	moved, err := ranking.NewService(ranking.New(db), nil).Snapshot(ctx)
	if err != nil {
		log.Fatalf("Failed to snapshot ranks: %s", err)
	}
	log.Info("Seeding complete", "players", n, "ranked", moved[ranking.BoardOverall])
}

func seedPlayers(ctx context.Context, players player.Store) []string {
	var ids []string
	for i, first := range firstNames {
		p := &player.Player{
			Username:        fmt.Sprintf("seed_%s", first),
			FirstName:       first,
			LastName:        lastNames[i],
			Phone:           fmt.Sprintf("+35840%07d", 1000000+i),
			Bio:             "Seeded player",
			Role:            roles[i%len(roles)],
			ExperienceLevel: levels[i%len(levels)],
			BattingStyle:    "right-handed",
			BowlingStyle:    "medium pace",
			YearsPlaying:    1 + i%10,
			IsAdmin:         i == 0,
		}
		if err := players.Create(ctx, p); err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.Username, err)
		}
		ids = append(ids, p.ID)
	}
	log.Info("Ensured dummy players exist.", "count", len(ids))
	return ids
}

func seedGrounds(ctx context.Context, avail *availability.Service) {
	today := time.Now().UTC()
	for _, g := range grounds {
		ground := g
		ground.IsAvailable = true
		if err := avail.CreateGround(ctx, &ground); err != nil {
			log.Fatalf("Failed to insert ground %s: %s", g.Name, err)
		}
		for day := 0; day < numDays; day++ {
			date := today.AddDate(0, 0, day).Format(availability.DateLayout)
			for _, t := range slotTimes {
				slot := &availability.TimeSlot{
					GroundID:    ground.ID,
					Date:        date,
					StartTime:   t[0],
					EndTime:     t[1],
					IsAvailable: true,
					Price:       5,
				}
				if err := avail.AddSlot(ctx, slot); err != nil {
					log.Fatalf("Failed to insert time slot: %s", err)
				}
			}
		}
	}
	log.Info("Ensured grounds and time slots exist.", "grounds", len(grounds), "days", numDays)
}

// playMatch runs one batting or bowling challenge from creation to result.
func playMatch(ctx context.Context, challenges *challenge.Service, ids []string) error {
	i := rand.Intn(len(ids))
	j := (i + 1 + rand.Intn(len(ids)-1)) % len(ids)
	challenger, opponent := ids[i], ids[j]

	kind, metric := challenge.TypeBatting, result.MetricRuns
	if rand.Intn(2) == 0 {
		kind, metric = challenge.TypeBowling, result.MetricWickets
	}
	c, err := challenges.Create(ctx, challenger, challenge.Draft{
		Type:       kind,
		Metric:     metric,
		OpponentID: &opponent,
	})
	if err != nil {
		return err
	}
	if _, err := challenges.Accept(ctx, c.ID, opponent); err != nil {
		return err
	}
	scores := result.Contest{Challenger: randomSide(), Opponent: randomSide()}
	_, _, err = challenges.RecordResult(ctx, c.ID, ids[0], challenge.ResultInput{
		Scores:  scores,
		Details: result.Details{TotalOvers: 2, DurationMinutes: 30, PitchConditions: "dry"},
	})
	return err
}

func randomSide() result.SideStats {
	return result.SideStats{
		Runs:    rand.Intn(60),
		Wickets: rand.Intn(4),
		Sixes:   rand.Intn(4),
		Fours:   rand.Intn(8),
		Dots:    rand.Intn(12),
	}
}

package availability_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/availability"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/database"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	eest    = time.FixedZone("EEST", 3*60*60)
)

type fixture struct {
	avail      *availability.Service
	store      availability.Store
	challenges *challenge.Service
	players    player.Store
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err, "Failed to initialize test database")
	t.Cleanup(teardown)

	store := availability.New(db)
	avail := availability.NewService(store, 2, eest)
	players := player.New(db)
	challenges := challenge.NewService(challenge.New(db), players, avail, eest).
		WithClock(func() time.Time { return testNow })
	return &fixture{avail: avail, store: store, challenges: challenges, players: players}
}

func (f *fixture) addPlayer(t *testing.T, username string) string {
	t.Helper()
	p := &player.Player{
		Username:     username,
		FirstName:    username,
		Phone:        "+358401234567",
		Bio:          "Plays at Hervanta",
		BattingStyle: "left-handed",
		BowlingStyle: "off spin",
		YearsPlaying: 5,
	}
	require.NoError(t, f.players.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) addGround(t *testing.T, name string) *availability.Ground {
	t.Helper()
	g := &availability.Ground{Name: name, Location: "Tampere", Capacity: 40, IsAvailable: true}
	require.NoError(t, f.avail.CreateGround(context.Background(), g))
	return g
}

func (f *fixture) schedule(t *testing.T, challengerID, groundID string, at time.Time) (*challenge.Challenge, error) {
	t.Helper()
	return f.challenges.Create(context.Background(), challengerID, challenge.Draft{
		Type:        challenge.TypeBatting,
		Metric:      result.MetricRuns,
		GroundID:    &groundID,
		ScheduledAt: &at,
	})
}

func evening(hour, minute int) time.Time {
	return time.Date(2026, 5, 11, hour, minute, 0, 0, eest)
}

func TestWindows(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	ground := f.addGround(t, "Kaupin kenttä")
	other := f.addGround(t, "Hervannan kenttä")

	require.NoError(t, f.avail.AddSlot(ctx, &availability.TimeSlot{
		GroundID: ground.ID, Date: "2026-05-11", StartTime: "18:00", EndTime: "19:00", IsAvailable: true, Price: 20,
	}))
	require.NoError(t, f.avail.AddSlot(ctx, &availability.TimeSlot{
		GroundID: other.ID, Date: "2026-05-11", StartTime: "17:00", EndTime: "18:00", IsAvailable: true,
	}))
	require.NoError(t, f.avail.AddSlot(ctx, &availability.TimeSlot{
		GroundID: other.ID, Date: "2026-05-11", StartTime: "19:00", EndTime: "20:00", IsAvailable: false,
	}))

	_, err := f.schedule(t, f.addPlayer(t, "alice"), ground.ID, evening(18, 0))
	require.NoError(t, err)

	day, err := f.avail.Windows(ctx, "2026-05-11")
	require.NoError(t, err)
	require.Equal(t, 2, day.TotalSlots, "closed slots are not listed")

	assert.Equal(t, "17:00", day.Slots[0].StartTime)
	assert.Equal(t, 0, day.Slots[0].CurrentCount)

	w := day.Slots[1]
	assert.Equal(t, "Kaupin kenttä", w.GroundName)
	assert.Equal(t, "18:00 - 19:00", w.Display)
	assert.Equal(t, 1, w.CurrentCount)
	assert.Equal(t, 2, w.MaxChallenges)
	assert.True(t, w.IsAvailable)

	_, err = f.avail.Windows(ctx, "11.05.2026")
	assert.ErrorIs(t, err, challenge.ErrValidation)
}

func TestCheckCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("full window rejects a third challenge", func(t *testing.T) {
		f := setup(t)
		ground := f.addGround(t, "Kaupin kenttä")
		require.NoError(t, f.avail.AddSlot(ctx, &availability.TimeSlot{
			GroundID: ground.ID, Date: "2026-05-11", StartTime: "18:00", EndTime: "19:00", IsAvailable: true,
		}))

		first, err := f.schedule(t, f.addPlayer(t, "alice"), ground.ID, evening(18, 0))
		require.NoError(t, err)
		_, err = f.schedule(t, f.addPlayer(t, "bob"), ground.ID, evening(18, 30))
		require.NoError(t, err)

		carol := f.addPlayer(t, "carol")
		_, err = f.schedule(t, carol, ground.ID, evening(18, 45))
		require.ErrorIs(t, err, challenge.ErrAdmissionLimit)
		var limit *challenge.AdmissionLimitError
		require.True(t, errors.As(err, &limit))
		assert.Contains(t, limit.Reason, "18:00 - 19:00")

		day, err := f.avail.Windows(ctx, "2026-05-11")
		require.NoError(t, err)
		require.Len(t, day.Slots, 1)
		assert.Equal(t, 2, day.Slots[0].CurrentCount)
		assert.False(t, day.Slots[0].IsAvailable)

		_, err = f.challenges.Cancel(ctx, first.ID, first.ChallengerID, false)
		require.NoError(t, err)
		_, err = f.schedule(t, carol, ground.ID, evening(18, 45))
		assert.NoError(t, err, "cancelled challenges free their place")
	})

	t.Run("concurrent creates never overfill a window", func(t *testing.T) {
		f := setup(t)
		ground := f.addGround(t, "Kaupin kenttä")
		require.NoError(t, f.avail.AddSlot(ctx, &availability.TimeSlot{
			GroundID: ground.ID, Date: "2026-05-11", StartTime: "18:00", EndTime: "19:00", IsAvailable: true,
		}))
		const callers = 6
		ids := make([]string, callers)
		for i := range ids {
			ids[i] = f.addPlayer(t, fmt.Sprintf("player%d", i))
		}

		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i, id := range ids {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = f.schedule(t, id, ground.ID, evening(18, 10*i%60))
			}()
		}
		wg.Wait()

		admitted := 0
		for _, err := range errs {
			if err == nil {
				admitted++
				continue
			}
			assert.ErrorIs(t, err, challenge.ErrAdmissionLimit)
		}
		assert.Equal(t, 2, admitted)

		day, err := f.avail.Windows(ctx, "2026-05-11")
		require.NoError(t, err)
		require.Len(t, day.Slots, 1)
		assert.Equal(t, 2, day.Slots[0].CurrentCount)
	})

	t.Run("editing keeps its own place", func(t *testing.T) {
		f := setup(t)
		ground := f.addGround(t, "Kaupin kenttä")
		require.NoError(t, f.avail.AddSlot(ctx, &availability.TimeSlot{
			GroundID: ground.ID, Date: "2026-05-11", StartTime: "18:00", EndTime: "19:00", IsAvailable: true,
		}))
		_, err := f.schedule(t, f.addPlayer(t, "alice"), ground.ID, evening(18, 0))
		require.NoError(t, err)
		c, err := f.schedule(t, f.addPlayer(t, "bob"), ground.ID, evening(18, 15))
		require.NoError(t, err)

		assert.NoError(t, f.avail.CheckCapacity(ctx, ground.ID, evening(18, 50), c.ID))
		assert.ErrorIs(t, f.avail.CheckCapacity(ctx, ground.ID, evening(18, 50), ""), challenge.ErrAdmissionLimit)
	})

	t.Run("without a slot the exact minute is the window", func(t *testing.T) {
		f := setup(t)
		ground := f.addGround(t, "Kaupin kenttä")
		_, err := f.schedule(t, f.addPlayer(t, "alice"), ground.ID, evening(10, 0))
		require.NoError(t, err)
		_, err = f.schedule(t, f.addPlayer(t, "bob"), ground.ID, evening(10, 0))
		require.NoError(t, err)

		assert.ErrorIs(t, f.avail.CheckCapacity(ctx, ground.ID, evening(10, 0), ""), challenge.ErrAdmissionLimit)
		assert.NoError(t, f.avail.CheckCapacity(ctx, ground.ID, evening(10, 1), ""))
	})

	t.Run("closed slot and unknown ground", func(t *testing.T) {
		f := setup(t)
		ground := f.addGround(t, "Kaupin kenttä")
		require.NoError(t, f.avail.AddSlot(ctx, &availability.TimeSlot{
			GroundID: ground.ID, Date: "2026-05-11", StartTime: "07:00", EndTime: "08:00", IsAvailable: false,
		}))

		assert.ErrorIs(t, f.avail.CheckCapacity(ctx, ground.ID, evening(7, 30), ""), challenge.ErrAdmissionLimit)
		assert.ErrorIs(t, f.avail.CheckCapacity(ctx, "missing", evening(7, 30), ""), challenge.ErrValidation)
	})
}

func TestAddSlot(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	ground := f.addGround(t, "Kaupin kenttä")

	slot := availability.TimeSlot{GroundID: ground.ID, Date: "2026-05-11", StartTime: "18:00", EndTime: "19:00", IsAvailable: true}
	first := slot
	require.NoError(t, f.avail.AddSlot(ctx, &first))
	assert.NotEmpty(t, first.ID)

	dup := slot
	assert.ErrorIs(t, f.avail.AddSlot(ctx, &dup), challenge.ErrValidation)

	backwards := slot
	backwards.StartTime, backwards.EndTime = "20:00", "19:00"
	assert.ErrorIs(t, f.avail.AddSlot(ctx, &backwards), challenge.ErrValidation)

	orphan := slot
	orphan.GroundID = "missing"
	assert.ErrorIs(t, f.avail.AddSlot(ctx, &orphan), availability.ErrGroundNotFound)

	assert.ErrorIs(t, f.avail.CreateGround(ctx, &availability.Ground{Name: "  "}), challenge.ErrValidation)

	grounds, err := f.avail.Grounds(ctx)
	require.NoError(t, err)
	require.Len(t, grounds, 1)
	assert.True(t, grounds[0].IsAvailable)
}

package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/database"
)

// New creates a new grounds and time slots Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) CreateGround(ctx context.Context, g *Ground) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO grounds (id, name, location, capacity, facilities, is_available, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Location, g.Capacity, g.Facilities, database.Bool(g.IsAvailable), g.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert ground %s: %w", g.Name, err)
	}
	log.Info("Ground created", "groundID", g.ID, "name", g.Name)
	return nil
}

func (s *store) GetGround(ctx context.Context, id string) (*Ground, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, location, capacity, facilities, is_available, created_at
		FROM grounds WHERE id = ?`, id)
	g, err := scanGround(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ground %s: %w", id, err)
	}
	return g, nil
}

func (s *store) ListGrounds(ctx context.Context) ([]*Ground, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, location, capacity, facilities, is_available, created_at
		FROM grounds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grounds: %w", err)
	}
	defer rows.Close()

	var grounds []*Ground
	for rows.Next() {
		g, err := scanGround(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ground: %w", err)
		}
		grounds = append(grounds, g)
	}
	return grounds, rows.Err()
}

func (s *store) CreateSlot(ctx context.Context, t *TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_slots (id, ground_id, date, start_time, end_time, is_available, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.GroundID, t.Date, t.StartTime, t.EndTime, database.Bool(t.IsAvailable), t.Price)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s %s at ground %s", ErrSlotExists, t.Date, t.StartTime, t.GroundID)
		}
		return fmt.Errorf("failed to insert time slot: %w", err)
	}
	log.Debug("Time slot created", "slotID", t.ID, "groundID", t.GroundID, "date", t.Date, "start", t.StartTime)
	return nil
}

func (s *store) SlotsOn(ctx context.Context, date, groundID string) ([]TimeSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, ground_id, date, start_time, end_time, is_available, price FROM time_slots WHERE date = ?`
	args := []any{date}
	if groundID != "" {
		query += ` AND ground_id = ?`
		args = append(args, groundID)
	}
	query += ` ORDER BY start_time, ground_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time slots for %s: %w", date, err)
	}
	defer rows.Close()

	var slots []TimeSlot
	for rows.Next() {
		var (
			t         TimeSlot
			available int
		)
		if err := rows.Scan(&t.ID, &t.GroundID, &t.Date, &t.StartTime, &t.EndTime, &available, &t.Price); err != nil {
			return nil, fmt.Errorf("failed to scan time slot: %w", err)
		}
		t.IsAvailable = available == 1
		slots = append(slots, t)
	}
	return slots, rows.Err()
}

func (s *store) CountActive(ctx context.Context, groundID string, from, to time.Time, excludeID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM challenges
		WHERE ground_id = ? AND scheduled_at >= ? AND scheduled_at < ?
			AND status IN (?, ?, ?) AND id != ?`,
		groundID, from.Unix(), to.Unix(),
		challenge.StatusOpen, challenge.StatusPending, challenge.StatusAccepted, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count challenges at ground %s: %w", groundID, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGround(row scanner) (*Ground, error) {
	var (
		g         Ground
		available int
		createdAt int64
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Location, &g.Capacity, &g.Facilities, &available, &createdAt); err != nil {
		return nil, err
	}
	g.IsAvailable = available == 1
	g.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &g, nil
}

package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tampere-cricket/internal/database"
)

// New creates a new player Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

const selectColumns = `id, username, first_name, last_name, phone, city, bio, role, experience_level,
	batting_style, bowling_style, years_playing, is_admin, status, created_at, deleted_at`

func (s *store) Create(ctx context.Context, p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.Role == "" {
		p.Role = RoleAllRounder
	}
	if p.City == "" {
		p.City = "Tampere"
	}
	if p.ExperienceLevel == "" {
		p.ExperienceLevel = "intermediate"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, username, first_name, last_name, phone, city, bio, role, experience_level,
			batting_style, bowling_style, years_playing, is_admin, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Username, p.FirstName, p.LastName, p.Phone, p.City, p.Bio, p.Role, p.ExperienceLevel,
		p.BattingStyle, p.BowlingStyle, p.YearsPlaying, database.Bool(p.IsAdmin), p.Status, p.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrUsernameTaken, p.Username)
		}
		return fmt.Errorf("failed to insert player %s: %w", p.Username, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO player_stats (player_id) VALUES (?)`, p.ID); err != nil {
		return fmt.Errorf("failed to create statistics for player %s: %w", p.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Player created", "playerID", p.ID, "username", p.Username)
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM players WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *store) GetMany(ctx context.Context, ids []string) (map[string]*Player, error) {
	players := make(map[string]*Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT ` + selectColumns + ` FROM players WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players[p.ID] = p
	}
	return players, rows.Err()
}

func (s *store) List(ctx context.Context, includeDeleted bool) ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + selectColumns + ` FROM players`
	if !includeDeleted {
		query += ` WHERE status = 'ACTIVE'`
	}
	query += ` ORDER BY username`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// SoftDelete keeps the row so historical challenges stay intact, but renames
// the player and removes them from rankings and new challenges.
func (s *store) SoftDelete(ctx context.Context, id string, at time.Time) (*Player, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	deleted := SoftDelete(*current, at)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `UPDATE players SET username = ?, status = ?, deleted_at = ? WHERE id = ?`,
		deleted.Username, deleted.Status, database.NullUnix(deleted.DeletedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to soft delete player %s: %w", id, err)
	}
	log.Info("Player soft deleted", "playerID", id)
	return &deleted, nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var (
		p         Player
		isAdmin   int
		createdAt int64
		deletedAt sql.NullInt64
	)
	err := scanner.Scan(&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.Phone, &p.City, &p.Bio, &p.Role,
		&p.ExperienceLevel, &p.BattingStyle, &p.BowlingStyle, &p.YearsPlaying, &isAdmin, &p.Status,
		&createdAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	p.IsAdmin = isAdmin == 1
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.DeletedAt = database.TimePtr(deletedAt)
	return &p, nil
}

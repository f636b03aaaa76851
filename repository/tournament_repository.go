package repository

import (
	"context"
	"fmt"

	"arenabot/database"
	"arenabot/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TournamentRepository implements the service.TournamentRepository interface
type TournamentRepository struct {
	q queryable
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *database.DB) *TournamentRepository {
	return &TournamentRepository{q: db.Pool}
}

// newTournamentRepositoryWithTx creates a new tournament repository with a transaction
func newTournamentRepositoryWithTx(tx queryable) *TournamentRepository {
	return &TournamentRepository{q: tx}
}

const tournamentColumns = `
	key, title, map, mode, entry_fee, prize_pool, per_kill, starts_at,
	max_slots, filled_slots, status, room_id, room_pass, image_url,
	game_link, created_at
`

func scanTournament(row pgx.Row) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(
		&t.Key, &t.Title, &t.Map, &t.Mode, &t.EntryFee, &t.PrizePool,
		&t.PerKill, &t.StartsAt, &t.MaxSlots, &t.FilledSlots, &t.Status,
		&t.RoomID, &t.RoomPass, &t.ImageURL, &t.GameLink, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByKey retrieves a tournament. Returns (nil, nil) when absent.
func (r *TournamentRepository) GetByKey(ctx context.Context, key string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE key = $1`

	t, err := scanTournament(r.q.QueryRow(ctx, query, key))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %s: %w", key, err)
	}
	return t, nil
}

// GetByKeyForUpdate retrieves a tournament and locks the row. Joins go
// through this so the slot counter cannot double-increment under races.
func (r *TournamentRepository) GetByKeyForUpdate(ctx context.Context, key string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE key = $1 FOR UPDATE`

	t, err := scanTournament(r.q.QueryRow(ctx, query, key))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock tournament %s: %w", key, err)
	}
	return t, nil
}

// List returns tournaments, optionally filtered by status, soonest first
func (r *TournamentRepository) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY starts_at ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tournaments: %w", err)
	}
	return tournaments, nil
}

// Create inserts a new tournament
func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
		(key, title, map, mode, entry_fee, prize_pool, per_kill, starts_at,
		 max_slots, status, image_url, game_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		t.Key, t.Title, t.Map, t.Mode, t.EntryFee, t.PrizePool, t.PerKill,
		t.StartsAt, t.MaxSlots, t.Status, t.ImageURL, t.GameLink,
	).Scan(&t.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tournament %s: %w", t.Key, err)
	}
	return nil
}

// Update rewrites the admin-editable fields
func (r *TournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET title = $1, map = $2, mode = $3, entry_fee = $4, prize_pool = $5,
		    per_kill = $6, starts_at = $7, max_slots = $8, image_url = $9,
		    game_link = $10
		WHERE key = $11
	`

	result, err := r.q.Exec(ctx, query,
		t.Title, t.Map, t.Mode, t.EntryFee, t.PrizePool, t.PerKill,
		t.StartsAt, t.MaxSlots, t.ImageURL, t.GameLink, t.Key,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament %s: %w", t.Key, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tournament %s not found", t.Key)
	}
	return nil
}

// Delete removes a tournament and its participant rows
func (r *TournamentRepository) Delete(ctx context.Context, key string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM tournaments WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %s: %w", key, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tournament %s not found", key)
	}
	return nil
}

// SetStatus transitions the lifecycle state
func (r *TournamentRepository) SetStatus(ctx context.Context, key string, status models.TournamentStatus) error {
	result, err := r.q.Exec(ctx, `UPDATE tournaments SET status = $1 WHERE key = $2`, status, key)
	if err != nil {
		return fmt.Errorf("failed to set status for tournament %s: %w", key, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tournament %s not found", key)
	}
	return nil
}

// SetRoom publishes the room credentials for a live match
func (r *TournamentRepository) SetRoom(ctx context.Context, key, roomID, roomPass string) error {
	result, err := r.q.Exec(ctx,
		`UPDATE tournaments SET room_id = $1, room_pass = $2 WHERE key = $3`,
		roomID, roomPass, key,
	)
	if err != nil {
		return fmt.Errorf("failed to set room for tournament %s: %w", key, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tournament %s not found", key)
	}
	return nil
}

// AddParticipant inserts a participant row and bumps the slot counter in one
// statement pair, keeping filled_slots equal to the row count. Returns the
// new slot count.
func (r *TournamentRepository) AddParticipant(ctx context.Context, key, uid string) (int, error) {
	_, err := r.q.Exec(ctx,
		`INSERT INTO tournament_participants (tournament_key, uid) VALUES ($1, $2)`,
		key, uid,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return 0, fmt.Errorf("user %s already joined tournament %s", uid, key)
		}
		return 0, fmt.Errorf("failed to add participant to tournament %s: %w", key, err)
	}

	var filled int
	err = r.q.QueryRow(ctx,
		`UPDATE tournaments SET filled_slots = filled_slots + 1 WHERE key = $1 RETURNING filled_slots`,
		key,
	).Scan(&filled)
	if err != nil {
		return 0, fmt.Errorf("failed to increment slots for tournament %s: %w", key, err)
	}
	return filled, nil
}

// HasParticipant reports whether the user already joined
func (r *TournamentRepository) HasParticipant(ctx context.Context, key, uid string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tournament_participants WHERE tournament_key = $1 AND uid = $2)`,
		key, uid,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participant for tournament %s: %w", key, err)
	}
	return exists, nil
}

// ListParticipants returns the uids of everyone who joined
func (r *TournamentRepository) ListParticipants(ctx context.Context, key string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT uid FROM tournament_participants WHERE tournament_key = $1 ORDER BY joined_at`,
		key,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %s: %w", key, err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		uids = append(uids, uid)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return uids, nil
}

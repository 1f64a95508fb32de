package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSlotNotFound means no save slot exists under the requested name.
var ErrSlotNotFound = errors.New("save slot not found")

// Slot is one named save entry.
type Slot struct {
	ID        string
	Name      string
	Game      string
	Data      []byte
	UpdatedAt time.Time
}

// SlotRepo reads and writes save slots.
type SlotRepo struct {
	db *sql.DB
}

func NewSlotRepo(db *sql.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// Put stores serialized session data under a slot name, overwriting an
// existing slot with the same name.
func (r *SlotRepo) Put(ctx context.Context, name, game string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO save_slots (id, name, game, data, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			game = excluded.game,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), name, game, data)
	if err != nil {
		return fmt.Errorf("slot put %q: %w", name, err)
	}
	return nil
}

// Get returns the slot stored under name.
func (r *SlotRepo) Get(ctx context.Context, name string) (*Slot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, game, data, updated_at FROM save_slots WHERE name = ?
	`, name)

	var s Slot
	if err := row.Scan(&s.ID, &s.Name, &s.Game, &s.Data, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, name)
		}
		return nil, fmt.Errorf("slot get %q: %w", name, err)
	}
	return &s, nil
}

// List returns all slots, most recently updated first, without data
// payloads.
func (r *SlotRepo) List(ctx context.Context) ([]Slot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, game, updated_at FROM save_slots ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("slot list: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.Name, &s.Game, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("slot list scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a slot by name.
func (r *SlotRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM save_slots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("slot delete %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	return nil
}

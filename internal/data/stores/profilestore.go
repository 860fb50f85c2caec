package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/taskboard/internal/core/profile"
	"github.com/colonyops/taskboard/internal/data/db"
)

// ProfileStore implements profile.Store on SQLite or PostgreSQL.
type ProfileStore struct {
	db *db.DB
}

var _ profile.Store = (*ProfileStore)(nil)

// NewProfileStore creates a new SQL-backed profile store.
func NewProfileStore(db *db.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// GetProfile returns the saved profile or profile.ErrNotFound.
func (s *ProfileStore) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	return s.scanProfile(s.db.Conn().QueryRowContext(ctx, s.selectQuery(), userID), userID)
}

// UpdateProfile reads, modifies and writes the user's profile in one
// transaction. A user without a saved profile starts from an empty one.
func (s *ProfileStore) UpdateProfile(ctx context.Context, userID string, fn func(p *profile.Profile) error) (profile.Profile, error) {
	var out profile.Profile

	err := retryBusy(ctx, func() error {
		return s.db.WithTx(ctx, func(tx *sql.Tx) error {
			p, err := s.scanProfile(tx.QueryRowContext(ctx, s.selectQuery(), userID), userID)
			if errors.Is(err, profile.ErrNotFound) {
				p = profile.Profile{UserID: userID}
			} else if err != nil {
				return err
			}

			if err := fn(&p); err != nil {
				return err
			}
			p.UserID = userID

			var age sql.NullInt64
			if p.Age != nil {
				age = sql.NullInt64{Int64: int64(*p.Age), Valid: true}
			}

			_, err = tx.ExecContext(ctx, s.db.Dialect().Rebind(`
				INSERT INTO profiles (user_id, display_name, phone, age, updated_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (user_id) DO UPDATE SET
					display_name = excluded.display_name,
					phone        = excluded.phone,
					age          = excluded.age,
					updated_at   = excluded.updated_at`),
				p.UserID, p.DisplayName, p.Phone, age, p.UpdatedAt.UnixNano(),
			)
			if err != nil {
				return fmt.Errorf("put profile: %w", err)
			}

			out = p
			return nil
		})
	})
	if err != nil {
		return profile.Profile{}, err
	}

	return out, nil
}

func (s *ProfileStore) selectQuery() string {
	return s.db.Dialect().Rebind(`
		SELECT display_name, phone, age, updated_at FROM profiles WHERE user_id = ?`)
}

func (s *ProfileStore) scanProfile(row *sql.Row, userID string) (profile.Profile, error) {
	var (
		p         = profile.Profile{UserID: userID}
		age       sql.NullInt64
		updatedAt int64
	)

	err := row.Scan(&p.DisplayName, &p.Phone, &age, &updatedAt)
	if IsNotFoundError(err) {
		return profile.Profile{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return p, nil
}

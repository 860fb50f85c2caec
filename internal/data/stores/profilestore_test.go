package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/profile"
)

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

	for name, database := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewProfileStore(database)

			_, err := store.GetProfile(ctx, "alice")
			require.ErrorIs(t, err, profile.ErrNotFound)

			age := 31
			saved, err := store.UpdateProfile(ctx, "alice", func(p *profile.Profile) error {
				assert.Equal(t, profile.Profile{UserID: "alice"}, *p)
				p.DisplayName = "Alice"
				p.Phone = "5550100"
				p.Age = &age
				p.UpdatedAt = ts
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, "Alice", saved.DisplayName)

			got, err := store.GetProfile(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, "Alice", got.DisplayName)
			assert.Equal(t, "5550100", got.Phone)
			require.NotNil(t, got.Age)
			assert.Equal(t, 31, *got.Age)
			assert.True(t, ts.Equal(got.UpdatedAt))

			// The callback sees the saved row and can clear the age.
			_, err = store.UpdateProfile(ctx, "alice", func(p *profile.Profile) error {
				assert.Equal(t, "5550100", p.Phone)
				p.DisplayName = "Al"
				p.Age = nil
				return nil
			})
			require.NoError(t, err)

			got, err = store.GetProfile(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, "Al", got.DisplayName)
			assert.Equal(t, "5550100", got.Phone)
			assert.Nil(t, got.Age)
		})
	}
}

func TestProfileStore_UpdateCallbackErrorRollsBack(t *testing.T) {
	ctx := context.Background()

	for name, database := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewProfileStore(database)

			_, err := store.UpdateProfile(ctx, "bob", func(p *profile.Profile) error {
				p.DisplayName = "Bob"
				return nil
			})
			require.NoError(t, err)

			_, err = store.UpdateProfile(ctx, "bob", func(p *profile.Profile) error {
				p.DisplayName = "Robert"
				return assert.AnError
			})
			require.ErrorIs(t, err, assert.AnError)

			got, err := store.GetProfile(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, "Bob", got.DisplayName)

			_, err = store.UpdateProfile(ctx, "nobody", func(*profile.Profile) error { return assert.AnError })
			require.ErrorIs(t, err, assert.AnError)
			_, err = store.GetProfile(ctx, "nobody")
			assert.ErrorIs(t, err, profile.ErrNotFound)
		})
	}
}

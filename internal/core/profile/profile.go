// Package profile manages the per-user profile shown alongside the task list.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validate"
)

// ErrNotFound is returned by a Store when the user has no saved profile.
var ErrNotFound = errors.New("profile not found")

// Profile holds user-editable details. Age is nil when never set.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone"`
	Age         *int      `json:"age,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the user-editable fields.
func (p Profile) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("phone", p.Phone, validate.Phone),
		validate.AgeField("age", p.Age),
	)
}

// Store persists profiles keyed by user id.
type Store interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	// UpdateProfile loads the user's profile (an empty one if none is saved),
	// passes it to fn and saves the result atomically. Nothing is saved when
	// fn returns an error.
	UpdateProfile(ctx context.Context, userID string, fn func(p *Profile) error) (Profile, error)
}

// Update carries the fields to change. Nil fields keep their current value.
// ClearAge unsets the age and takes precedence over Age.
type Update struct {
	DisplayName *string
	Phone       *string
	Age         *int
	ClearAge    bool
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return u.DisplayName == nil && u.Phone == nil && u.Age == nil && !u.ClearAge
}

func (u Update) applyTo(p *Profile) {
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	switch {
	case u.ClearAge:
		p.Age = nil
	case u.Age != nil:
		age := *u.Age
		p.Age = &age
	}
}

// Service reads and writes the signed-in user's profile.
type Service struct {
	store    Store
	identity task.Identity
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a Service.
func NewService(store Store, identity task.Identity, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		identity: identity,
		log:      log.With().Str("component", "profile-service").Logger(),
		now:      time.Now,
	}
}

// Get returns the signed-in user's profile. A user who never saved one gets
// an empty profile.
func (s *Service) Get(ctx context.Context) (Profile, error) {
	userID, ok := s.identity.CurrentUserID()
	if !ok {
		return Profile{}, task.ErrUnauthenticated
	}
	ctx = logging.WithUserID(ctx, userID)

	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Profile{UserID: userID}, nil
	}
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("fetch profile failed")
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return p, nil
}

// Update applies u to the signed-in user's profile, validates the result
// and saves it. Nothing is written when validation fails.
func (s *Service) Update(ctx context.Context, u Update) (Profile, error) {
	userID, ok := s.identity.CurrentUserID()
	if !ok {
		return Profile{}, task.ErrUnauthenticated
	}
	ctx = logging.WithUserID(ctx, userID)

	var invalid error
	p, err := s.store.UpdateProfile(ctx, userID, func(p *Profile) error {
		p.UserID = userID
		u.applyTo(p)
		if invalid = p.Validate(); invalid != nil {
			return invalid
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if invalid != nil {
		return Profile{}, invalid
	}
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("save profile failed")
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}

	s.log.Debug().Ctx(ctx).Msg("profile saved")
	return p, nil
}

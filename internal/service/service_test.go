package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"coursepanel/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// plainHasher stores passwords with a visible prefix so tests stay fast
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// staticIssuer issues a predictable token
type staticIssuer struct{ ttl time.Duration }

func (i staticIssuer) Issue(user *models.User) (string, error) { return "token-" + user.ID, nil }

func (i staticIssuer) TTL() time.Duration { return i.ttl }

// countingSeeder records how often Seed ran
type countingSeeder struct {
	calls int
	seed  func(ctx context.Context) error
}

func (s *countingSeeder) Seed(ctx context.Context) error {
	s.calls++
	if s.seed != nil {
		return s.seed(ctx)
	}
	return nil
}

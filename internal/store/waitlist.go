package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicateEmail is returned when a waitlist email already exists
var ErrDuplicateEmail = errors.New("email already on waitlist")

// AddToWaitlist records a signup. Duplicate emails return ErrDuplicateEmail.
func (s *Store) AddToWaitlist(ctx context.Context, email, source string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO waitlist (id, email, source)
		VALUES ($1, $2, $3)`,
		uuid.NewString(), email, source)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("add to waitlist: %w", err)
	}
	return nil
}

// WaitlistCount returns the number of signups
func (s *Store) WaitlistCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM waitlist`); err != nil {
		return 0, fmt.Errorf("count waitlist: %w", err)
	}
	return count, nil
}

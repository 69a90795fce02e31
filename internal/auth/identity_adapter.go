package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// IdentityAdapter exposes member identity lookups to the reservation service
// without creating an import cycle back into this package.
type IdentityAdapter struct {
	repo Repository
}

// NewIdentityAdapter creates a new identity adapter
func NewIdentityAdapter(repo Repository) *IdentityAdapter {
	return &IdentityAdapter{
		repo: repo,
	}
}

// GetUserByID fetches user details by ID and returns email, firstName, lastName
func (a *IdentityAdapter) GetUserByID(ctx context.Context, userID uuid.UUID) (email, firstName, lastName string, err error) {
	user, err := a.repo.GetUserByID(ctx, userID.String())
	if err != nil {
		return "", "", "", fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	return user.Email, user.FirstName, user.LastName, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

type userGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Gate authenticates bearer tokens and enforces the account status check.
// A valid token for a user that is not approved yields domain.ErrForbidden.
type Gate struct {
	tokens *JWTManager
	users  userGetter
}

func NewGate(tokens *JWTManager, users userGetter) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate validates the token, loads the user row and returns the
// request principal. The role is taken from the database, not the token,
// so a role change takes effect without reissuing tokens.
func (g *Gate) Authenticate(ctx context.Context, token string) (ctxutil.Principal, error) {
	userID, _, err := g.tokens.ValidateAccessToken(token)
	if err != nil {
		return ctxutil.Principal{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, err)
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ctxutil.Principal{}, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
		}
		return ctxutil.Principal{}, fmt.Errorf("load user %s: %w", userID, err)
	}

	if !user.IsApproved() {
		return ctxutil.Principal{}, fmt.Errorf("%w: account not approved", domain.ErrForbidden)
	}

	return ctxutil.Principal{
		ID:     user.ID,
		Role:   string(user.Role),
		Status: string(user.Status),
	}, nil
}

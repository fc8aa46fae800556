package identity

import (
	"context"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/realtime"
	"go.uber.org/zap"
)

// ErrUnknownSubject is returned when a valid token references a user
// that no longer exists.
var ErrUnknownSubject = shared.NewDomainError("UNAUTHORIZED", "Token subject is unknown")

// Resolver turns a bearer credential into an authenticated user. The
// same resolver backs the HTTP auth middleware and the websocket
// handshake, so both paths apply identical expiry and blacklist rules.
type Resolver struct {
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewResolver creates a credential resolver. blacklist may be nil when
// logout-revocation is not wired.
func NewResolver(
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		jwtService: jwtService,
		blacklist:  blacklist,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// ResolveUser validates the credential and loads the referenced user.
// Expired tokens are rejected; the permissive decode some clients
// relied on historically is intentionally not supported.
func (r *Resolver) ResolveUser(ctx context.Context, credential string) (*identity.User, *auth.Claims, error) {
	claims, err := r.jwtService.ValidateToken(credential)
	if err != nil {
		return nil, nil, err
	}

	if r.blacklist != nil && claims.ID != "" {
		revoked, err := r.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			r.logger.Error("Blacklist lookup failed", zap.Error(err))
			return nil, nil, auth.ErrInvalidToken
		}
		if revoked {
			return nil, nil, auth.ErrTokenBlacklisted
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, nil, auth.ErrInvalidClaims
	}

	user, err := r.userRepo.FindByID(ctx, userID)
	if err != nil {
		r.logger.Warn("Token references unknown user", zap.String("user_id", userID.String()))
		return nil, nil, ErrUnknownSubject
	}

	return user, claims, nil
}

// Resolve validates the credential and returns the connection identity
// used by the realtime registry.
func (r *Resolver) Resolve(ctx context.Context, credential string) (realtime.Identity, error) {
	user, _, err := r.ResolveUser(ctx, credential)
	if err != nil {
		return realtime.Identity{}, err
	}
	return realtime.IdentityFromUser(user), nil
}

package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/realtime"
	"go.uber.org/zap"
)

// AdminNotifier pushes registration events to live admin connections
type AdminNotifier interface {
	NotifyAdmins(notification realtime.Notification)
}

// AuthService handles registration, authentication and profile
// operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	notifier   AdminNotifier
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. notifier may be
// nil when no realtime registry is wired.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	notifier AdminNotifier,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		notifier:   notifier,
		logger:     logger,
	}
}

// Register creates a new user account. Producers start unapproved and
// admins get a live notification so they can act on the approval.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	if input.Role == identity.RoleAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Admin accounts cannot self-register")
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to register user")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to register user")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	user.SetProfile(input.FirstName, input.LastName, input.CompanyName)

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to persist new user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to register user")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	if s.notifier != nil {
		userID := user.ID
		s.notifier.NotifyAdmins(realtime.Notification{
			Type:    "new_registration",
			Title:   "New registration",
			Message: fmt.Sprintf("%s registered as %s", user.Username, user.Role),
			UserID:  &userID,
		})
	}

	info := userInfoFrom(user)
	return &info, nil
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Login for unknown username", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CheckPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to generate authentication token")
	}

	user.RecordLogin(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds; the tracking fields are best effort.
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        userInfoFrom(user),
	}, nil
}

// Logout blacklists the presented token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" || input.TokenTTL <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to log out")
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// ChangePassword verifies the old password and stores the new hash
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.ErrNotFound
	}

	if !user.CheckPassword(input.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	if err := user.ChangePassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to persist password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to change password")
	}

	s.logger.Info("Password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetProfile returns the user's own profile
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	info := userInfoFrom(user)
	return &info, nil
}

// UpdateProfile replaces the editable profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	user.SetProfile(input.FirstName, input.LastName, input.CompanyName)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to persist profile update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update profile")
	}

	info := userInfoFrom(user)
	return &info, nil
}

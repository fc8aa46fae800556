package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/realtime"
	"go.uber.org/zap"
)

// UserNotifier pushes account events to a single user's connections
type UserNotifier interface {
	NotifyUser(userID uuid.UUID, notification realtime.Notification)
}

// UserService covers admin-facing account operations and the public
// producer directory.
type UserService struct {
	userRepo identity.UserRepository
	notifier UserNotifier
	logger   *zap.Logger
}

// NewUserService creates a new user service. notifier may be nil.
func NewUserService(userRepo identity.UserRepository, notifier UserNotifier, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{userRepo: userRepo, notifier: notifier, logger: logger}
}

// ListUsers returns a paginated user listing for admins
func (s *UserService) ListUsers(ctx context.Context, filter shared.Filter) (shared.Paginated[UserInfo], error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return shared.Paginated[UserInfo]{}, shared.NewDomainError("INTERNAL", "Failed to list users")
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return shared.Paginated[UserInfo]{}, shared.NewDomainError("INTERNAL", "Failed to list users")
	}

	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = userInfoFrom(&users[i])
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.Limit()), nil
}

// ListProducers returns approved producers for buyer-facing browsing
func (s *UserService) ListProducers(ctx context.Context, filter shared.Filter) ([]UserInfo, error) {
	if filter.Filters == nil {
		filter.Filters = map[string]interface{}{}
	}
	filter.Filters["approved"] = true

	producers, err := s.userRepo.FindByRole(ctx, identity.RoleProducer, filter)
	if err != nil {
		s.logger.Error("Failed to list producers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list producers")
	}

	infos := make([]UserInfo, len(producers))
	for i := range producers {
		infos[i] = userInfoFrom(&producers[i])
	}
	return infos, nil
}

// ApproveUser marks a pending producer account as approved and tells
// the producer over their live connections.
func (s *UserService) ApproveUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if user.Approved {
		info := userInfoFrom(user)
		return &info, nil
	}

	user.Approve()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to persist approval", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to approve user")
	}

	s.logger.Info("User approved", zap.String("user_id", user.ID.String()))

	if s.notifier != nil {
		s.notifier.NotifyUser(user.ID, realtime.Notification{
			Type:    "account_approved",
			Title:   "Account approved",
			Message: fmt.Sprintf("Your %s account has been approved", user.Role),
		})
	}

	info := userInfoFrom(user)
	return &info, nil
}

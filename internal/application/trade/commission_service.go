package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// CommissionService exposes the platform's commission ledger to admins
// and producers.
type CommissionService struct {
	commissionRepo trade.CommissionRepository
	logger         *zap.Logger
}

// NewCommissionService creates a new commission service
func NewCommissionService(commissionRepo trade.CommissionRepository, logger *zap.Logger) *CommissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommissionService{commissionRepo: commissionRepo, logger: logger}
}

// ListCommissions returns all commission records for admins
func (s *CommissionService) ListCommissions(ctx context.Context, filter shared.Filter) ([]trade.Commission, error) {
	return s.commissionRepo.FindAll(ctx, filter)
}

// ListProducerCommissions returns a producer's commission records
func (s *CommissionService) ListProducerCommissions(ctx context.Context, producerID uuid.UUID, filter shared.Filter) ([]trade.Commission, error) {
	return s.commissionRepo.FindByProducer(ctx, producerID, filter)
}

// MarkPaid settles a commission to the platform
func (s *CommissionService) MarkPaid(ctx context.Context, commissionID uuid.UUID) (*trade.Commission, error) {
	commission, err := s.commissionRepo.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.Status == trade.CommissionStatusPaid {
		return commission, nil
	}

	commission.MarkPaid()
	if err := s.commissionRepo.Save(ctx, commission); err != nil {
		s.logger.Error("Failed to persist commission settlement", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update commission")
	}

	s.logger.Info("Commission settled", zap.String("commission_id", commission.ID.String()))
	return commission, nil
}

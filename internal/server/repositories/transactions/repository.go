package transactions

import (
	"context"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, tx *models.Transaction, shares []models.TransactionShare) error
	ListForGroup(ctx context.Context, groupID uuid.UUID) ([]models.Transaction, error)
	SharesForGroup(ctx context.Context, groupID uuid.UUID) (map[uuid.UUID][]models.TransactionShare, error)
}

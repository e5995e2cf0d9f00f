package invitations

import (
	"context"

	"github.com/splitvault/splitvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	FindByToken(ctx context.Context, verificationToken string) (*models.Invitation, error)
}

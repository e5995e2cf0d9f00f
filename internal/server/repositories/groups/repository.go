package groups

import (
	"context"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/server/models"
)

// Membership pairs a group row with the requesting member's wrapped copy of
// the group key.
type Membership struct {
	Group           models.Group
	WrappedGroupKey string
}

type Repository interface {
	Create(ctx context.Context, group *models.Group) error
	AddMember(ctx context.Context, member *models.GroupMember) error
	IsMember(ctx context.Context, groupID uuid.UUID, userID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]Membership, error)
	Members(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
}

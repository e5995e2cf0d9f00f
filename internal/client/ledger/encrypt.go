package ledger

import (
	"fmt"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/client/models"
	"github.com/splitvault/splitvault/internal/cryptox"
)

// EncryptTransaction seals every field of tx under the group key, producing
// the wire form the backend stores without being able to read it.
func EncryptTransaction(tx models.Transaction, groupKey cryptox.Key) (*api.Transaction, error) {
	encType, err := cryptox.EncryptString(string(tx.Type), groupKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt type: %w", err)
	}
	encName, err := cryptox.EncryptString(tx.Name, groupKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt name: %w", err)
	}
	encAmount, err := cryptox.EncryptInt(tx.AmountCents, groupKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt amount: %w", err)
	}
	encFrom, err := cryptox.EncryptInt(tx.FromUserID, groupKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt fromUserId: %w", err)
	}
	encDate, err := cryptox.EncryptInt(tx.Date.UnixMilli(), groupKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt date: %w", err)
	}

	toUsers := make([]api.Share, len(tx.ToUsers))
	for i, s := range tx.ToUsers {
		encID, err := cryptox.EncryptInt(s.UserID, groupKey)
		if err != nil {
			return nil, fmt.Errorf("encrypt toUsers.id: %w", err)
		}
		encShare, err := cryptox.EncryptInt(s.Share, groupKey)
		if err != nil {
			return nil, fmt.Errorf("encrypt toUsers.share: %w", err)
		}
		toUsers[i] = api.Share{ID: encID, Share: encShare}
	}

	return &api.Transaction{
		ID:         tx.ID,
		Type:       encType,
		Name:       encName,
		Amount:     encAmount,
		FromUserID: encFrom,
		ToUsers:    toUsers,
		Date:       encDate,
		ReceiptKey: tx.ReceiptKey,
	}, nil
}

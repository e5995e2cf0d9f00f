// Package ledger turns an encrypted group, as served by the backend, into
// its plaintext form: it unwraps the group data key under the user's key
// and decrypts every field of the group and its transactions.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/client/models"
	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/cryptox"
	"github.com/splitvault/splitvault/internal/logging"
)

// Decryptor decrypts groups. Domain anomalies in ledger data (unknown
// transaction type, non-numeric amount) are downgraded to logged warnings
// with a safe default substituted, so one corrupt record cannot hide the
// whole group. AEAD failures are never downgraded.
type Decryptor struct {
	logger logging.Logger
}

func New(logger logging.Logger) *Decryptor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Decryptor{logger: logger}
}

// DecryptGroup unwraps enc's group key under userKey and decrypts every
// field. Transaction fields are verified independently (per-field AEAD
// tags), decrypted in parallel, and the result is assembled only once the
// whole set is done, sorted by date descending. Without a user key the
// pipeline yields nothing rather than partial plaintext.
func (d *Decryptor) DecryptGroup(ctx context.Context, enc *api.Group, userKey cryptox.Key) (*models.Group, error) {
	if userKey.IsZero() {
		return nil, fmt.Errorf("no session key: %w", common.ErrUnauthorized)
	}

	groupKey, err := cryptox.UnwrapKey(enc.GroupKey, userKey)
	if err != nil {
		return nil, fmt.Errorf("unwrap group key: %w", err)
	}

	name, err := cryptox.DecryptString(enc.Name, groupKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt group name: %w", err)
	}

	members := make([]models.Member, len(enc.Members))
	for i, m := range enc.Members {
		username, err := cryptox.DecryptString(m.Username, groupKey)
		if err != nil {
			return nil, fmt.Errorf("decrypt member %d username: %w", m.UserID, err)
		}
		members[i] = models.Member{UserID: m.UserID, Username: username, Rights: models.Rights(m.Rights)}
	}

	transactions := make([]models.Transaction, len(enc.Transactions))
	g, gctx := errgroup.WithContext(ctx)
	for i, et := range enc.Transactions {
		i, et := i, et
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tx, err := d.decryptTransaction(gctx, et, groupKey)
			if err != nil {
				return err
			}
			transactions[i] = *tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	return &models.Group{
		ID:           enc.ID,
		Name:         name,
		Members:      members,
		Transactions: transactions,
	}, nil
}

func (d *Decryptor) decryptTransaction(ctx context.Context, et api.Transaction, groupKey cryptox.Key) (*models.Transaction, error) {
	tx := &models.Transaction{ID: et.ID, ReceiptKey: et.ReceiptKey}

	// Type goes first: an unknown value is substituted, not fatal.
	rawType, err := cryptox.DecryptString(et.Type, groupKey)
	if err != nil {
		return nil, fmt.Errorf("transaction %s type: %w", et.ID, err)
	}
	txType, known := models.ParseTransactionType(rawType)
	tx.Type = txType
	if !known {
		tx.Anomalous = true
		d.logger.Warn(ctx, "unknown transaction type, substituting default",
			"transaction_id", et.ID, "default", string(txType))
	}

	tx.Name, err = cryptox.DecryptString(et.Name, groupKey)
	if err != nil {
		return nil, fmt.Errorf("transaction %s name: %w", et.ID, err)
	}

	tx.AmountCents, err = d.decryptIntField(ctx, et.ID, "amount", et.Amount, groupKey, tx)
	if err != nil {
		return nil, err
	}
	tx.FromUserID, err = d.decryptIntField(ctx, et.ID, "fromUserId", et.FromUserID, groupKey, tx)
	if err != nil {
		return nil, err
	}

	tx.ToUsers = make([]models.Share, len(et.ToUsers))
	for i, es := range et.ToUsers {
		id, err := d.decryptIntField(ctx, et.ID, "toUsers.id", es.ID, groupKey, tx)
		if err != nil {
			return nil, err
		}
		share, err := d.decryptIntField(ctx, et.ID, "toUsers.share", es.Share, groupKey, tx)
		if err != nil {
			return nil, err
		}
		tx.ToUsers[i] = models.Share{UserID: id, Share: share}
	}

	dateMs, err := d.decryptIntField(ctx, et.ID, "date", et.Date, groupKey, tx)
	if err != nil {
		return nil, err
	}
	tx.Date = time.UnixMilli(dateMs)

	return tx, nil
}

// decryptIntField decrypts an integer field, downgrading domain anomalies
// (verified plaintext that is not a decimal integer) to a logged warning
// plus a zero default. Authentication failures propagate untouched.
func (d *Decryptor) decryptIntField(ctx context.Context, txID any, field, encoded string, key cryptox.Key, tx *models.Transaction) (int64, error) {
	v, err := cryptox.DecryptInt(encoded, key)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, common.ErrDomainValidation) {
		tx.Anomalous = true
		d.logger.Warn(ctx, "non-numeric ledger field, substituting zero",
			"transaction_id", txID, "field", field)
		return 0, nil
	}
	return 0, fmt.Errorf("transaction %v %s: %w", txID, field, err)
}

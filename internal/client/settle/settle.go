// Package settle computes each member's net balance from a decrypted
// transaction ledger and derives a repayment plan that zeroes all
// balances in at most N-1 transfers.
package settle

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/client/models"
	"github.com/splitvault/splitvault/internal/common"
)

// Tolerance is the residual (in cents) below which a balance counts as
// settled. Weighted splits divide integers, so a one-unit rounding
// remainder is accepted.
const Tolerance = 1

// Balance is a member's net position in cents: positive means the group
// owes them, negative means they owe the group.
type Balance struct {
	UserID int64
	Cents  int64
}

// Transfer is one point-to-point repayment.
type Transfer struct {
	FromUserID int64
	ToUserID   int64
	Cents      int64
}

// ComputeBalances folds the transactions into a net balance per member,
// in member order. For a transaction with total share weight S the payer
// gains the full amount and each recipient loses amount·share/S, which
// supports unequal splits. Transactions with non-positive S or referring
// to users outside the member set are excluded and reported as anomalies;
// they must not move any balance.
//
// Amounts are accumulated as exact rationals and rounded to cents only at
// the end, so drift stays inside Tolerance.
func ComputeBalances(members []models.Member, txs []models.Transaction) ([]Balance, []uuid.UUID) {
	index := make(map[int64]int, len(members))
	acc := make([]*big.Rat, len(members))
	for i, m := range members {
		index[m.UserID] = i
		acc[i] = new(big.Rat)
	}

	var anomalies []uuid.UUID

	for _, tx := range txs {
		var total int64
		for _, s := range tx.ToUsers {
			total += s.Share
		}

		payer, payerKnown := index[tx.FromUserID]
		recipientsKnown := true
		for _, s := range tx.ToUsers {
			if _, ok := index[s.UserID]; !ok {
				recipientsKnown = false
				break
			}
		}

		if total <= 0 || !payerKnown || !recipientsKnown {
			anomalies = append(anomalies, tx.ID)
			continue
		}

		amount := new(big.Rat).SetInt64(tx.AmountCents)
		acc[payer].Add(acc[payer], amount)

		totalRat := new(big.Rat).SetInt64(total)
		for _, s := range tx.ToUsers {
			part := new(big.Rat).SetInt64(s.Share)
			part.Quo(part.Mul(part, amount), totalRat)
			i := index[s.UserID]
			acc[i].Sub(acc[i], part)
		}
	}

	balances := make([]Balance, len(members))
	for i, m := range members {
		balances[i] = Balance{UserID: m.UserID, Cents: roundRat(acc[i])}
	}
	return balances, anomalies
}

// ComputeEquilibrium derives a repayment plan from net balances: while any
// balance exceeds Tolerance, the largest debtor pays the largest creditor
// min(credit, debt). Each step settles at least one member, so a valid
// (near zero-sum) input converges within len(balances) iterations and
// produces at most N-1 transfers. If the bound is exceeded the input did
// not sum to (near) zero and common.ErrConvergence is returned instead of
// looping.
func ComputeEquilibrium(balances []Balance) ([]Transfer, error) {
	n := len(balances)
	rem := make([]int64, n)
	for i, b := range balances {
		rem[i] = b.Cents
	}

	var transfers []Transfer
	for iter := 0; ; iter++ {
		creditor, debtor := 0, 0
		for i := 1; i < n; i++ {
			// Ties break on the first-found index.
			if rem[i] > rem[creditor] {
				creditor = i
			}
			if rem[i] < rem[debtor] {
				debtor = i
			}
		}
		if n == 0 || (rem[creditor] <= Tolerance && -rem[debtor] <= Tolerance) {
			return transfers, nil
		}
		if iter >= n {
			return nil, fmt.Errorf("balances do not sum to zero: %w", common.ErrConvergence)
		}

		amount := min(rem[creditor], -rem[debtor])
		rem[creditor] -= amount
		rem[debtor] += amount
		transfers = append(transfers, Transfer{
			FromUserID: balances[debtor].UserID,
			ToUserID:   balances[creditor].UserID,
			Cents:      amount,
		})
	}
}

// roundRat rounds to the nearest integer, half away from zero.
func roundRat(r *big.Rat) int64 {
	num := new(big.Int).Abs(r.Num())
	den := r.Denom() // always positive

	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Lsh(rem, 1).Cmp(den) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if r.Sign() < 0 {
		quo.Neg(quo)
	}
	return quo.Int64()
}

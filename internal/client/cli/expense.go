package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/splitvault/splitvault/internal/client/models"
)

// AddExpense collects an expense interactively: group, description, amount,
// and a split weight per member (0 excludes a member). The transaction is
// sealed under the group key before it leaves the process.
func (a *App) AddExpense(ctx context.Context) error {
	return a.addTransaction(ctx, models.TransactionTypeExpense)
}

// AddRepayment records a direct repayment from the current user to a single
// member, settling part of an existing debt.
func (a *App) AddRepayment(ctx context.Context) error {
	g, err := a.promptGroup(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	n, err := GetInt(a.reader, "Repay to member number:\n"+memberList(g), os.Stdout)
	if err != nil || n > len(g.Members) {
		log.Printf("error: invalid member number")
		return fmt.Errorf("invalid member number")
	}
	to := g.Members[n-1]

	amountText, err := getSimpleText(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		return err
	}
	cents, err := ParseAmount(amountText)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	tx := models.Transaction{
		Type:        models.TransactionTypeRepayment,
		Name:        "repayment to " + to.Username,
		AmountCents: cents,
		FromUserID:  a.session.UserID(),
		ToUsers:     []models.Share{{UserID: to.UserID, Share: 1}},
	}

	id, err := a.groups.AddExpense(ctx, g.ID, tx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Repayment recorded: %s\n", id)
	return nil
}

func (a *App) addTransaction(ctx context.Context, txType models.TransactionType) error {
	g, err := a.promptGroup(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	name, err := getSimpleText(a.reader, "Enter description", os.Stdout)
	if err != nil {
		return err
	}

	amountText, err := getSimpleText(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		return err
	}
	cents, err := ParseAmount(amountText)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	var shares []models.Share
	fmt.Println("Split weights (0 to exclude a member):")
	for _, m := range g.Members {
		text, err := getSimpleText(a.reader, fmt.Sprintf("  weight for %s", m.Username), os.Stdout)
		if err != nil {
			return err
		}
		w, err := strconv.ParseInt(text, 10, 64)
		if err != nil || w < 0 {
			log.Printf("error: invalid weight %q", text)
			return fmt.Errorf("invalid weight %q", text)
		}
		if w > 0 {
			shares = append(shares, models.Share{UserID: m.UserID, Share: w})
		}
	}

	tx := models.Transaction{
		Type:        txType,
		Name:        name,
		AmountCents: cents,
		FromUserID:  a.session.UserID(),
		ToUsers:     shares,
	}

	receiptPath, err := getSimpleText(a.reader, "Receipt file path (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if receiptPath != "" {
		data, err := os.ReadFile(receiptPath)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		key, err := a.groups.AttachReceipt(ctx, g.ID, data)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		tx.ReceiptKey = key
	}

	id, err := a.groups.AddExpense(ctx, g.ID, tx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Expense recorded: %s\n", id)
	return nil
}

func memberList(g *models.Group) string {
	s := ""
	for i, m := range g.Members {
		s += fmt.Sprintf("  %d. %s\n", i+1, m.Username)
	}
	return s
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/splitvault/splitvault/internal/filex"
)

// ShowReceipt downloads and decrypts the receipt attached to a transaction
// and saves it under ./download.
func (a *App) ShowReceipt(ctx context.Context) error {
	g, err := a.promptGroup(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	withReceipts := 0
	for i, tx := range g.Transactions {
		if tx.ReceiptKey != "" {
			fmt.Printf("%d. %s %s\n", i+1, tx.Date.Format("2006-01-02"), tx.Name)
			withReceipts++
		}
	}
	if withReceipts == 0 {
		fmt.Println("No receipts in this group.")
		return nil
	}

	n, err := GetInt(a.reader, "Enter transaction number", os.Stdout)
	if err != nil || n > len(g.Transactions) {
		log.Printf("error: invalid transaction number")
		return fmt.Errorf("invalid transaction number")
	}
	tx := g.Transactions[n-1]
	if tx.ReceiptKey == "" {
		return fmt.Errorf("transaction has no receipt")
	}

	data, err := a.groups.FetchReceipt(ctx, g.ID, tx.ReceiptKey)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	dir, err := filex.EnsureSubDir("download")
	if err != nil {
		return err
	}
	outputFile := filepath.Join(dir, tx.ID.String())
	if err := os.WriteFile(outputFile, data, 0o600); err != nil {
		return err
	}

	log.Printf("Receipt saved to: %s", outputFile)
	return nil
}

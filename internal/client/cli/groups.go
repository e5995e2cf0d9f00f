package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/splitvault/splitvault/internal/client/models"
)

// List fetches and decrypts all groups, prints them numbered, and remembers
// the order so subsequent commands can refer to a group by its number.
func (a *App) List(ctx context.Context) error {
	groups, err := a.groups.ListGroups(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.rememberGroups(groups)

	if len(groups) == 0 {
		fmt.Println("No groups yet. Use 'newgroup' to create one or 'join' to accept an invitation.")
		return nil
	}

	for i, g := range groups {
		fmt.Printf("%d. %s (%d members, %d transactions)\n", i+1, g.Name, len(g.Members), len(g.Transactions))
		for _, tx := range g.Transactions {
			marker := ""
			if tx.Anomalous {
				marker = " [!]"
			}
			fmt.Printf("   %s  %-20s %8s  paid by %s%s\n",
				tx.Date.Format("2006-01-02"), tx.Name, FormatCents(tx.AmountCents), memberName(&g, tx.FromUserID), marker)
		}
	}
	return nil
}

// NewGroup prompts for a name and creates a group with a fresh group key.
func (a *App) NewGroup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter group name", os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.groups.CreateGroup(ctx, name)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Group created: %s\n", id)

	// Refresh the numbered cache so the group is addressable right away.
	return a.List(ctx)
}

// promptGroup asks for a group number against the last listed set.
func (a *App) promptGroup(ctx context.Context) (*models.Group, error) {
	a.mu.Lock()
	empty := len(a.lastGroups) == 0
	a.mu.Unlock()
	if empty {
		if err := a.List(ctx); err != nil {
			return nil, err
		}
	}

	n, err := GetInt(a.reader, "Enter group number", os.Stdout)
	if err != nil {
		return nil, err
	}
	g, ok := a.groupByNumber(n)
	if !ok {
		return nil, fmt.Errorf("no group with number %d; run 'list' first", n)
	}
	return g, nil
}

func memberName(g *models.Group, userID int64) string {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m.Username
		}
	}
	return fmt.Sprintf("user#%d", userID)
}

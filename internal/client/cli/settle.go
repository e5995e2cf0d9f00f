package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/fatih/color"
)

var (
	creditColor = color.New(color.FgGreen)
	debtColor   = color.New(color.FgRed)
)

// Balances prints each member's net position in the selected group:
// green for creditors, red for debtors.
func (a *App) Balances(ctx context.Context) error {
	g, err := a.promptGroup(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	balances := a.groups.Balances(ctx, g)
	for _, b := range balances {
		line := fmt.Sprintf("%-20s %10s", memberName(g, b.UserID), FormatCents(b.Cents))
		switch {
		case b.Cents > 0:
			creditColor.Println(line)
		case b.Cents < 0:
			debtColor.Println(line)
		default:
			fmt.Println(line)
		}
	}
	return nil
}

// Settle prints a minimal set of transfers that brings the selected group
// back to equilibrium.
func (a *App) Settle(ctx context.Context) error {
	g, err := a.promptGroup(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	transfers, err := a.groups.Settlement(ctx, g)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(transfers) == 0 {
		fmt.Println("All settled up.")
		return nil
	}

	for _, tr := range transfers {
		fmt.Printf("%s pays %s to %s\n",
			memberName(g, tr.FromUserID), FormatCents(tr.Cents), memberName(g, tr.ToUserID))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Invite creates an invitation for the selected group and prints the link
// code to share out of band. The server never sees the code itself.
func (a *App) Invite(ctx context.Context) error {
	g, err := a.promptGroup(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	inv, err := a.groups.Invite(ctx, g.ID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Share this code with the invitee (it is never sent to the server):")
	fmt.Println(inv.LinkCode())
	return nil
}

// Join prompts for a link code and joins the corresponding group.
func (a *App) Join(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter invitation code", os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.groups.Join(ctx, code)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Joined group %s\n", id)

	return a.List(ctx)
}

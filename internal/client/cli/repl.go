package cli

import (
	"context"
	"fmt"
	"strings"
)

const helpText = "Available commands: ping, known, staged, register, verify, login, logout, whoami, add-email, identities, sync, exit"

// Root runs the interactive loop until EOF or exit.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Authority CLI (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "authority> ")
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Fprintln(a.out, helpText)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			if err := a.Exec(ctx, parts[0], parts[1:]); err != nil {
				fmt.Fprintln(a.out, "Error:", err)
			}
		}
	}
}

package cli

import (
	"context"
	"fmt"
)

// Root runs the interactive command loop until "quit" or EOF.
func (a *App) Root(ctx context.Context) {
	for {
		fmt.Fprintln(a.out)
		if a.isLoggedIn() {
			fmt.Fprintln(a.out, "Commands: whoami, profile, update, logout, quit")
		} else {
			fmt.Fprintln(a.out, "Commands: login, register, quit")
		}

		cmd, err := GetSimpleText(a.reader, "Enter command", a.out)
		if err != nil {
			return
		}

		switch cmd {
		case "login":
			a.Login(ctx)
		case "register":
			a.Register(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.WhoAmI(ctx)
		case "profile":
			a.Profile(ctx)
		case "update":
			a.UpdateProfile(ctx)
		case "quit", "exit":
			return
		case "":
		default:
			fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
		}
	}
}

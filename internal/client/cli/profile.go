package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkovs/sessionkeeper/internal/common"
)

func (a *App) WhoAmI(ctx context.Context) {
	user, err := a.users.Get(ctx)
	if err != nil {
		a.printProfileError(err)
		return
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Username)
}

func (a *App) Profile(ctx context.Context) {
	user, err := a.users.Get(ctx)
	if err != nil {
		a.printProfileError(err)
		return
	}

	fmt.Fprintf(a.out, "Username:     %s\n", user.Username)
	fmt.Fprintf(a.out, "Display name: %s\n", user.DisplayName)
	fmt.Fprintf(a.out, "Email:        %s\n", user.Email)
}

func (a *App) UpdateProfile(ctx context.Context) {
	user, err := a.users.Get(ctx)
	if err != nil {
		a.printProfileError(err)
		return
	}

	displayName, err := GetSimpleText(a.reader, fmt.Sprintf("Display name [%s]", user.DisplayName), a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	email, err := GetSimpleText(a.reader, fmt.Sprintf("Email [%s]", user.Email), a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if displayName != "" {
		user.DisplayName = displayName
	}
	if email != "" {
		user.Email = email
	}

	updated, err := a.users.Update(ctx, user)
	if err != nil {
		a.printProfileError(err)
		return
	}
	fmt.Fprintf(a.out, "Profile updated: %s <%s>\n", updated.DisplayName, updated.Email)
}

func (a *App) printProfileError(err error) {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		fmt.Fprintln(a.out, "Session expired, please log in again")
	case errors.Is(err, common.ErrNetwork):
		fmt.Fprintln(a.out, "Server unreachable")
	default:
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
}

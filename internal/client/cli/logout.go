package cli

import (
	"context"
	"fmt"
)

func (a *App) Logout(ctx context.Context) {
	// Cached profile data belongs to the session being closed.
	if err := a.users.Invalidate(ctx); err != nil {
		a.logger.Warn(ctx, "cache invalidation failed", "error", err)
	}

	if err := a.session.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout failed: %s\n", err.Error())
		return
	}
	fmt.Fprintln(a.out, "Logged out")
}

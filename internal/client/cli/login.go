package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkovs/sessionkeeper/internal/common"
)

func (a *App) Login(ctx context.Context) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, userName, string(password)); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			fmt.Fprintln(a.out, "Login unsuccessful: wrong username or password")
		case errors.Is(err, common.ErrNetwork):
			fmt.Fprintln(a.out, "Login unsuccessful: server unreachable")
		default:
			fmt.Fprintf(a.out, "Login unsuccessful: %s\n", err.Error())
		}
		return
	}

	fmt.Fprintln(a.out, "Login successful")
}

func (a *App) Register(ctx context.Context) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	displayName, err := GetSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, userName, string(password), displayName, email); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			fmt.Fprintln(a.out, "Registration unsuccessful: username is taken")
			return
		}
		fmt.Fprintf(a.out, "Registration unsuccessful: %s\n", err.Error())
		return
	}

	fmt.Fprintln(a.out, "Registration successful, you can now log in")
}

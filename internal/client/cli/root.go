package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	st := a.session.State()
	if !st.Authenticated {
		return "(signed out)"
	}
	if st.User != nil {
		return fmt.Sprintf("(%s)", st.User.DisplayName())
	}
	return "(signed in)"
}

// Root prints the banner, restores the session and runs the REPL.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to SkillSwap CLI (type 'help' for commands)")

	defer a.watchSession()()

	if err := a.session.Restore(ctx); err != nil {
		a.println("Could not restore saved session:", err)
	}

	if a.isLoggedIn() {
		if _, err := a.session.FetchProfile(ctx); err == nil {
			a.printf("Welcome back, %s\n", a.session.State().User.DisplayName())
		}
	}

	if !a.isLoggedIn() {
		a.println("You are not signed in. Use 'login' or 'register'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

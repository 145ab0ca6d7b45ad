package cli

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"golang.org/x/sync/errgroup"
)

type dashboardData struct {
	user     models.User
	skills   []models.Skill
	requests []models.ExchangeRequest
}

// loadDashboard refreshes the profile, then loads the user's skills and
// requests concurrently. Each goroutine drives a different store.
func (a *App) loadDashboard(ctx context.Context) (dashboardData, error) {
	var d dashboardData

	user, err := a.session.FetchProfile(ctx)
	if err != nil {
		return d, err
	}
	d.user = user

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		skills, err := a.catalog.ListUserSkills(gctx, user.ID)
		d.skills = skills
		return err
	})
	g.Go(func() error {
		reqs, err := a.exchange.ListMyRequests(gctx, models.RequestFilter{})
		d.requests = reqs
		return err
	})

	if err := g.Wait(); err != nil {
		return d, err
	}
	return d, nil
}

// Dashboard prints a summary of the user's profile, skills and requests.
func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.loadDashboard(ctx)
	if err != nil {
		return err
	}

	var pendingIn, pendingOut, active, done int
	for _, r := range d.requests {
		switch {
		case r.Status == models.StatusPending && r.ToUserID == d.user.ID:
			pendingIn++
		case r.Status == models.StatusPending:
			pendingOut++
		case r.Status == models.StatusAccepted:
			active++
		case r.Status == models.StatusCompleted:
			done++
		}
	}

	a.printf("Hello, %s\n\n", d.user.DisplayName())
	a.printf("Skills offered:        %d\n", len(d.skills))
	a.printf("Requests to answer:    %d\n", pendingIn)
	a.printf("Requests awaiting:     %d\n", pendingOut)
	a.printf("Exchanges in progress: %d\n", active)
	a.printf("Exchanges completed:   %d\n", done)
	return nil
}

package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

// SendRequest asks the owner of a skill for an exchange.
func (a *App) SendRequest(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("request <skillId> [message]")
	}
	r, err := a.exchange.CreateRequest(ctx, models.CreateRequestInput{
		SkillID: args[0],
		Message: strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}
	a.printf("Request sent [%s], status %s\n", r.ID, r.Status)
	return nil
}

// Requests lists the user's requests. Optional arguments are a direction
// (sent|received) and a status, in any order.
func (a *App) Requests(ctx context.Context, args []string) error {
	var f models.RequestFilter
	for _, arg := range args {
		switch d := models.Direction(strings.ToLower(arg)); d {
		case models.DirectionSent, models.DirectionReceived:
			f.Direction = d
			continue
		}
		st := models.RequestStatus(strings.ToUpper(arg[:1]) + strings.ToLower(arg[1:]))
		if !st.Valid() {
			return usage("requests [sent|received] [Pending|Accepted|Rejected|Completed]")
		}
		f.Status = st
	}

	uid, err := a.currentUserID(ctx)
	if err != nil {
		return err
	}
	reqs, err := a.exchange.ListMyRequests(ctx, f)
	if err != nil {
		return err
	}
	printRequests(a.out, reqs, uid)
	return nil
}

// SkillRequests lists the requests made against one skill.
func (a *App) SkillRequests(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("skillrequests <skillId>")
	}
	reqs, err := a.exchange.ListSkillRequests(ctx, args[0])
	if err != nil {
		return err
	}
	printRequests(a.out, reqs, a.session.UserID())
	return nil
}

func (a *App) setStatus(ctx context.Context, args []string, cmd string, to models.RequestStatus) error {
	if len(args) != 1 {
		return usage("%s <requestId>", cmd)
	}
	r, err := a.exchange.UpdateStatus(ctx, args[0], to)
	if err != nil {
		return err
	}
	a.printf("Request %s is now %s\n", r.ID, r.Status)
	return nil
}

// Accept accepts a pending request addressed to the user.
func (a *App) Accept(ctx context.Context, args []string) error {
	return a.setStatus(ctx, args, "accept", models.StatusAccepted)
}

// Reject declines a pending request addressed to the user.
func (a *App) Reject(ctx context.Context, args []string) error {
	return a.setStatus(ctx, args, "reject", models.StatusRejected)
}

// Complete marks an accepted request the user sent as completed.
func (a *App) Complete(ctx context.Context, args []string) error {
	return a.setStatus(ctx, args, "complete", models.StatusCompleted)
}

// Cancel withdraws a pending request the user sent.
func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("cancel <requestId>")
	}
	if err := a.exchange.CancelRequest(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Request %s cancelled\n", args[0])
	return nil
}

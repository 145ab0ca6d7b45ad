// Package lifecycle encodes the exchange request state machine.
//
//	Pending  --accept   (owner)-->     Accepted
//	Pending  --reject   (owner)-->     Rejected   (terminal)
//	Pending  --cancel   (requester)--> removed    (terminal)
//	Accepted --complete (requester)--> Completed  (terminal)
//
// Every other (state, event) pair is illegal. The owner is the request's
// ToUserID, the requester its FromUserID.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrActorNotAllowed   = errors.New("actor not allowed to perform transition")
	ErrUnknownEvent      = errors.New("unknown lifecycle event")
)

// Event is something a participant does to a request.
type Event string

const (
	EventAccept   Event = "accept"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
)

// Role is the side of a request a user is on.
type Role int

const (
	RoleNone Role = iota
	RoleRequester
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleRequester:
		return "requester"
	case RoleOwner:
		return "owner"
	}
	return "none"
}

type transition struct {
	from  models.RequestStatus
	event Event
}

type outcome struct {
	to    models.RequestStatus // empty means the request is removed
	actor Role
}

var table = map[transition]outcome{
	{models.StatusPending, EventAccept}:    {models.StatusAccepted, RoleOwner},
	{models.StatusPending, EventReject}:    {models.StatusRejected, RoleOwner},
	{models.StatusPending, EventCancel}:    {"", RoleRequester},
	{models.StatusAccepted, EventComplete}: {models.StatusCompleted, RoleRequester},
}

// EventFor maps a requested target status to the event that produces it.
func EventFor(to models.RequestStatus) (Event, error) {
	switch to {
	case models.StatusAccepted:
		return EventAccept, nil
	case models.StatusRejected:
		return EventReject, nil
	case models.StatusCompleted:
		return EventComplete, nil
	}
	return "", fmt.Errorf("%w: no event leads to %q", ErrIllegalTransition, to)
}

// RoleOf returns the role userID plays on r.
func RoleOf(r models.ExchangeRequest, userID string) Role {
	switch {
	case userID == "":
		return RoleNone
	case r.FromUserID == userID:
		return RoleRequester
	case r.ToUserID == userID:
		return RoleOwner
	}
	return RoleNone
}

// Next returns the status r moves to when userID fires ev, or removed=true when
// the event removes the request. An empty userID skips the actor check.
func Next(r models.ExchangeRequest, ev Event, userID string) (to models.RequestStatus, removed bool, err error) {
	switch ev {
	case EventAccept, EventReject, EventCancel, EventComplete:
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev)
	}

	out, ok := table[transition{r.Status, ev}]
	if !ok {
		return "", false, fmt.Errorf("%w: %s from %q", ErrIllegalTransition, ev, r.Status)
	}

	if userID != "" {
		if role := RoleOf(r, userID); role != out.actor {
			return "", false, fmt.Errorf("%w: %s requires the %s, user is %s", ErrActorNotAllowed, ev, out.actor, role)
		}
	}

	return out.to, out.to == "", nil
}

// Allowed lists the events userID may fire on r in its current state.
func Allowed(r models.ExchangeRequest, userID string) []Event {
	var out []Event
	for _, ev := range []Event{EventAccept, EventReject, EventCancel, EventComplete} {
		if _, _, err := Next(r, ev, userID); err == nil {
			out = append(out, ev)
		}
	}
	return out
}

package models

import "time"

// RequestStatus is the lifecycle state of an exchange request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "Pending"
	StatusAccepted  RequestStatus = "Accepted"
	StatusRejected  RequestStatus = "Rejected"
	StatusCompleted RequestStatus = "Completed"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// ExchangeRequest asks the owner of a skill (ToUserID) for an exchange on
// behalf of FromUserID.
type ExchangeRequest struct {
	ID         string
	SkillID    string
	FromUserID string
	ToUserID   string
	Status     RequestStatus
	Message    string
	CreatedAt  time.Time

	// Populated summaries, set only when the server expands the references.
	Skill    *Skill
	FromUser *User
	ToUser   *User
}

// CreateRequestInput is the payload for a new exchange request.
type CreateRequestInput struct {
	SkillID string `json:"skillId"`
	Message string `json:"message,omitempty"`
}

// Direction selects requests relative to the authenticated user.
type Direction string

const (
	DirectionAny      Direction = ""
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// RequestFilter narrows ListMyRequests.
type RequestFilter struct {
	Direction Direction
	Status    RequestStatus
}

// Query renders the filter as query parameters, omitting empty keys.
func (f RequestFilter) Query() map[string]string {
	q := map[string]string{}
	if f.Direction != DirectionAny {
		q["type"] = string(f.Direction)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q
}

// Involves reports whether userID is on either side of r.
func (r ExchangeRequest) Involves(userID string) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// Matches reports whether r passes f from the point of view of userID.
func (f RequestFilter) Matches(r ExchangeRequest, userID string) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	switch f.Direction {
	case DirectionSent:
		return r.FromUserID == userID
	case DirectionReceived:
		return r.ToUserID == userID
	}
	return r.Involves(userID)
}

package stores

import (
	"context"
	"net/http"
	"slices"

	"github.com/dmitrijs2005/skillswap/internal/client/api"
	"github.com/dmitrijs2005/skillswap/internal/client/lifecycle"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/logging"
)

// IdentitySource yields the acting user's id, or "" when unknown.
type IdentitySource interface {
	UserID() string
}

// SkillLookup resolves locally known skills. Used to fill in the owner of a
// freshly created request when the server leaves it out.
type SkillLookup interface {
	Lookup(id string) (models.Skill, bool)
}

// ExchangeState is a snapshot of the exchange store.
type ExchangeState struct {
	Requests      []models.ExchangeRequest // last ListMyRequests result plus local changes
	SkillRequests []models.ExchangeRequest // last ListSkillRequests result
	Selected      *models.ExchangeRequest
	Busy          bool
	LastError     *ErrorInfo
}

// ExchangeStore owns exchange requests and guards their lifecycle.
type ExchangeStore struct {
	tracker

	exec     api.Executor
	identity IdentitySource
	skills   SkillLookup
	logger   logging.Logger

	requests      []models.ExchangeRequest
	skillRequests []models.ExchangeRequest
	selected      *models.ExchangeRequest
}

// NewExchangeStore builds the store. skills may be nil.
func NewExchangeStore(exec api.Executor, identity IdentitySource, skills SkillLookup, logger logging.Logger) *ExchangeStore {
	return &ExchangeStore{exec: exec, identity: identity, skills: skills, logger: logger}
}

func requestID(r models.ExchangeRequest) string { return r.ID }

// State returns a snapshot of the store.
func (e *ExchangeStore) State() ExchangeState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var sel *models.ExchangeRequest
	if e.selected != nil {
		cp := *e.selected
		sel = &cp
	}
	return ExchangeState{
		Requests:      slices.Clone(e.requests),
		SkillRequests: slices.Clone(e.skillRequests),
		Selected:      sel,
		Busy:          e.busy,
		LastError:     e.lastErr.clone(),
	}
}

func (e *ExchangeStore) actor() string {
	if e.identity == nil {
		return ""
	}
	return e.identity.UserID()
}

// lookup finds a request in any local collection.
func (e *ExchangeStore) lookup(id string) (models.ExchangeRequest, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.selected != nil && e.selected.ID == id {
		return *e.selected, true
	}
	for _, list := range [][]models.ExchangeRequest{e.requests, e.skillRequests} {
		if i := indexOf(list, id, requestID); i >= 0 {
			return list[i], true
		}
	}
	return models.ExchangeRequest{}, false
}

// replace swaps r into every local collection that already holds it.
func (e *ExchangeStore) replace(r models.ExchangeRequest) {
	if i := indexOf(e.requests, r.ID, requestID); i >= 0 {
		e.requests[i] = r
	}
	if i := indexOf(e.skillRequests, r.ID, requestID); i >= 0 {
		e.skillRequests[i] = r
	}
	if e.selected != nil && e.selected.ID == r.ID {
		cp := r
		e.selected = &cp
	}
}

// CreateRequest asks the owner of in.SkillID for an exchange. The new request
// is Pending even when the server omits the status.
func (e *ExchangeStore) CreateRequest(ctx context.Context, in models.CreateRequestInput) (models.ExchangeRequest, error) {
	e.start()

	body, err := e.exec.Execute(ctx, http.MethodPost, "/requests", api.Request{Body: in})
	if err != nil {
		return models.ExchangeRequest{}, e.fail(err)
	}

	req := models.DecodeRequest(models.Envelope(body, "request"))
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if req.SkillID == "" {
		req.SkillID = in.SkillID
	}
	if req.Message == "" {
		req.Message = in.Message
	}
	if req.FromUserID == "" {
		req.FromUserID = e.actor()
	}
	if req.ToUserID == "" && e.skills != nil {
		if s, ok := e.skills.Lookup(req.SkillID); ok {
			req.ToUserID = s.OwnerUserID
		}
	}

	e.succeed(func() {
		if req.ID != "" {
			e.requests = upsert(e.requests, req, requestID)
		}
	})
	e.logger.Info(ctx, "request created", "request_id", req.ID, "skill_id", req.SkillID)
	return req, nil
}

// ListMyRequests loads the requests the acting user sent or received. When
// the acting user is known the result is also filtered locally.
func (e *ExchangeStore) ListMyRequests(ctx context.Context, f models.RequestFilter) ([]models.ExchangeRequest, error) {
	e.start()

	body, err := e.exec.Execute(ctx, http.MethodGet, "/requests", api.Request{Query: f.Query()})
	if err != nil {
		return nil, e.fail(err)
	}

	all := models.DecodeRequests(models.Envelope(body, "requests"))
	uid := e.actor()
	out := make([]models.ExchangeRequest, 0, len(all))
	for _, r := range all {
		if uid == "" || (r.FromUserID == "" && r.ToUserID == "") || f.Matches(r, uid) {
			out = append(out, r)
		}
	}

	e.succeed(func() { e.requests = out })
	return slices.Clone(out), nil
}

// GetRequest loads one request and marks it selected.
func (e *ExchangeStore) GetRequest(ctx context.Context, id string) (models.ExchangeRequest, error) {
	e.start()

	body, err := e.exec.Execute(ctx, http.MethodGet, pathID("/requests", id), api.Request{})
	if err != nil {
		return models.ExchangeRequest{}, e.fail(err)
	}

	req := models.DecodeRequest(models.Envelope(body, "request"))
	if req.ID == "" {
		req.ID = id
	}
	e.succeed(func() {
		e.replace(req)
		cp := req
		e.selected = &cp
	})
	return req, nil
}

// ListSkillRequests loads the requests made against skillID.
func (e *ExchangeStore) ListSkillRequests(ctx context.Context, skillID string) ([]models.ExchangeRequest, error) {
	e.start()

	body, err := e.exec.Execute(ctx, http.MethodGet, pathID("/requests/skill", skillID), api.Request{})
	if err != nil {
		return nil, e.fail(err)
	}

	reqs := models.DecodeRequests(models.Envelope(body, "requests"))
	e.succeed(func() { e.skillRequests = reqs })
	return slices.Clone(reqs), nil
}

// checkTransition applies the lifecycle table to a locally known request.
// Unknown requests are left for the server to judge. A rejection is recorded
// as the last error; requests and busy are untouched.
func (e *ExchangeStore) checkTransition(id string, ev lifecycle.Event) error {
	req, ok := e.lookup(id)
	if !ok {
		return nil
	}
	if _, _, err := lifecycle.Next(req, ev, e.actor()); err != nil {
		return e.reject(err)
	}
	return nil
}

// UpdateStatus moves request id to status. An illegal transition on a known
// request fails before anything is sent and leaves the requests untouched.
func (e *ExchangeStore) UpdateStatus(ctx context.Context, id string, status models.RequestStatus) (models.ExchangeRequest, error) {
	ev, err := lifecycle.EventFor(status)
	if err != nil {
		return models.ExchangeRequest{}, e.reject(err)
	}
	if err := e.checkTransition(id, ev); err != nil {
		return models.ExchangeRequest{}, err
	}

	e.start()

	body, err := e.exec.Execute(ctx, http.MethodPatch, pathID("/requests", id)+"/status", api.Request{
		Body: map[string]string{"status": string(status)},
	})
	if err != nil {
		return models.ExchangeRequest{}, e.fail(err)
	}

	updated := models.DecodeRequest(models.Envelope(body, "request"))
	if prev, ok := e.lookup(id); ok && updated.ID == "" {
		updated = prev
	}
	updated.ID = id
	updated.Status = status

	e.succeed(func() { e.replace(updated) })
	e.logger.Info(ctx, "request status changed", "request_id", id, "status", string(status))
	return updated, nil
}

// CancelRequest withdraws a Pending request. The request is removed locally
// only after the server confirms the deletion.
func (e *ExchangeStore) CancelRequest(ctx context.Context, id string) error {
	if err := e.checkTransition(id, lifecycle.EventCancel); err != nil {
		return err
	}

	e.start()

	if _, err := e.exec.Execute(ctx, http.MethodDelete, pathID("/requests", id), api.Request{}); err != nil {
		return e.fail(err)
	}

	e.succeed(func() {
		e.requests = remove(e.requests, id, requestID)
		e.skillRequests = remove(e.skillRequests, id, requestID)
		if e.selected != nil && e.selected.ID == id {
			e.selected = nil
		}
	})
	e.logger.Info(ctx, "request cancelled", "request_id", id)
	return nil
}

// Reset forgets every loaded request and the last error.
func (e *ExchangeStore) Reset() {
	e.reset(func() {
		e.requests = nil
		e.skillRequests = nil
		e.selected = nil
	})
}

package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/client/api"
	"github.com/dmitrijs2005/skillswap/internal/client/lifecycle"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

/*************
 * Credential store
 *************/

type memCreds struct {
	mu       sync.Mutex
	stored   models.StoredCredential
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	clears   int
}

func (m *memCreds) Load(context.Context) (models.StoredCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored, m.loadErr
}

func (m *memCreds) Save(_ context.Context, c models.StoredCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = c
	return nil
}

func (m *memCreds) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.stored = models.StoredCredential{}
	return nil
}

func (m *memCreds) get() models.StoredCredential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored
}

/*************
 * Scripted executor
 *************/

type call struct {
	Method string
	Path   string
	Req    api.Request
}

// scriptedExec answers every call with fn and records what it was asked.
type scriptedExec struct {
	mu    sync.Mutex
	calls []call
	fn    func(ctx context.Context, method, path string, req api.Request) ([]byte, error)
}

func (s *scriptedExec) Execute(ctx context.Context, method, path string, req api.Request) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call{method, path, req})
	s.mu.Unlock()
	return s.fn(ctx, method, path, req)
}

func (s *scriptedExec) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedExec) last() call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func respond(body string) *scriptedExec {
	return &scriptedExec{fn: func(context.Context, string, string, api.Request) ([]byte, error) {
		return []byte(body), nil
	}}
}

func failWith(err error) *scriptedExec {
	return &scriptedExec{fn: func(context.Context, string, string, api.Request) ([]byte, error) {
		return nil, err
	}}
}

/*************
 * In-memory backend
 *************/

type fbUser struct {
	models.User
	password string
}

// fakeBackend mimics the REST API closely enough to drive the stores end to
// end. It enforces ownership and the status table on its side too.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]*fbUser // by id
	tokens   map[string]string  // token -> user id
	skills   []models.Skill
	requests []models.ExchangeRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: map[string]*fbUser{}, tokens: map[string]string{}}
}

// addUser registers a user directly and returns its id.
func (b *fakeBackend) addUser(name, email, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.NewString()
	b.users[id] = &fbUser{User: models.User{ID: id, Name: name, Email: email}, password: password}
	return id
}

func (b *fakeBackend) revokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = map[string]string{}
}

// client returns an executor speaking to b with creds as token source.
func (b *fakeBackend) client() *backendExec {
	return &backendExec{b: b}
}

type backendExec struct {
	b            *fakeBackend
	creds        api.CredentialSource
	unauthorized []api.UnauthorizedHandler
	calls        int
}

func (e *backendExec) Execute(ctx context.Context, method, path string, req api.Request) ([]byte, error) {
	e.calls++
	token := ""
	if e.creds != nil {
		token = e.creds.Token()
	}
	body, err := e.b.handle(method, path, req, token)
	if err != nil && api.StatusOf(err) == http.StatusUnauthorized {
		for _, h := range e.unauthorized {
			h(ctx)
		}
	}
	return body, err
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func userJSON(u models.User) map[string]any {
	return map[string]any{"_id": u.ID, "name": u.Name, "email": u.Email, "phone": u.Phone, "bio": u.Bio}
}

func skillJSON(s models.Skill) map[string]any {
	return map[string]any{
		"_id":             s.ID,
		"userId":          s.OwnerUserID,
		"category":        s.Category,
		"title":           s.Title,
		"description":     s.Description,
		"experienceLevel": s.ExperienceLevel,
		"availability":    map[string]any{"days": s.Availability.Days, "timeSlots": s.Availability.TimeSlots},
		"createdAt":       s.CreatedAt.Format(time.RFC3339Nano),
	}
}

func requestJSON(r models.ExchangeRequest) map[string]any {
	return map[string]any{
		"_id":        r.ID,
		"skillId":    r.SkillID,
		"fromUserId": r.FromUserID,
		"toUserId":   r.ToUserID,
		"status":     r.Status,
		"message":    r.Message,
		"createdAt":  r.CreatedAt.Format(time.RFC3339Nano),
	}
}

func apiErr(status int, msg string) error {
	kind := api.ErrValidation
	switch status {
	case http.StatusUnauthorized:
		kind = api.ErrUnauthorized
	case http.StatusForbidden:
		kind = api.ErrForbidden
	case http.StatusNotFound:
		kind = api.ErrNotFound
	}
	return api.NewError(kind, status, msg)
}

func (b *fakeBackend) handle(method, path string, req api.Request, token string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	in := gjson.ParseBytes(mustJSON(req.Body))
	parts := strings.Split(strings.Trim(path, "/"), "/")
	route := method + " " + parts[0]
	if len(parts) > 1 {
		route += "/" + parts[1]
	}

	switch route {
	case "POST auth/register":
		for _, u := range b.users {
			if u.Email == in.Get("email").String() {
				return nil, apiErr(http.StatusBadRequest, "User already exists")
			}
		}
		id := uuid.NewString()
		u := &fbUser{User: models.User{ID: id, Name: in.Get("name").String(), Email: in.Get("email").String(), Phone: in.Get("phone").String()}, password: in.Get("password").String()}
		b.users[id] = u
		return b.issueToken(u), nil
	case "POST auth/login":
		for _, u := range b.users {
			if u.Email == in.Get("email").String() && u.password == in.Get("password").String() {
				return b.issueToken(u), nil
			}
		}
		return nil, apiErr(http.StatusUnauthorized, "Invalid credentials")
	}

	uid, ok := b.tokens[token]
	if !ok {
		return nil, apiErr(http.StatusUnauthorized, "Not authorized, token failed")
	}
	me := b.users[uid]

	switch {
	case route == "POST auth/logout":
		delete(b.tokens, token)
		return mustJSON(map[string]any{"message": "Logged out"}), nil
	case route == "GET auth/profile":
		return mustJSON(map[string]any{"user": userJSON(me.User)}), nil
	case route == "PUT auth/profile":
		me.Name = in.Get("name").String()
		me.Phone = in.Get("phone").String()
		me.Bio = in.Get("bio").String()
		return mustJSON(map[string]any{"user": userJSON(me.User)}), nil

	case route == "GET skills" && len(parts) == 1:
		var out []map[string]any
		for _, s := range b.skills {
			if c := req.Query["category"]; c != "" && s.Category != c {
				continue
			}
			if l := req.Query["experienceLevel"]; l != "" && string(s.ExperienceLevel) != l {
				continue
			}
			out = append(out, skillJSON(s))
		}
		return mustJSON(map[string]any{"skills": out}), nil
	case route == "GET skills/search":
		q := strings.ToLower(req.Query["query"])
		var out []map[string]any
		for _, s := range b.skills {
			if strings.Contains(strings.ToLower(s.Title+" "+s.Description), q) {
				out = append(out, skillJSON(s))
			}
		}
		return mustJSON(map[string]any{"skills": out}), nil
	case route == "GET skills/user" && len(parts) == 3:
		var out []map[string]any
		for _, s := range b.skills {
			if s.OwnerUserID == parts[2] {
				out = append(out, skillJSON(s))
			}
		}
		return mustJSON(map[string]any{"skills": out}), nil
	case route == "POST skills":
		s := models.Skill{
			ID:              uuid.NewString(),
			OwnerUserID:     uid,
			Category:        in.Get("category").String(),
			Title:           in.Get("title").String(),
			Description:     in.Get("description").String(),
			ExperienceLevel: models.ExperienceLevel(in.Get("experienceLevel").String()),
			CreatedAt:       time.Now().UTC(),
		}
		for _, d := range in.Get("availability.days").Array() {
			s.Availability.Days = append(s.Availability.Days, d.String())
		}
		for _, ts := range in.Get("availability.timeSlots").Array() {
			s.Availability.TimeSlots = append(s.Availability.TimeSlots, ts.String())
		}
		b.skills = append(b.skills, s)
		return mustJSON(map[string]any{"skill": skillJSON(s)}), nil
	case strings.HasPrefix(route, "GET skills/"), strings.HasPrefix(route, "PUT skills/"), strings.HasPrefix(route, "DELETE skills/"):
		i := b.skillIndex(parts[1])
		if i < 0 {
			return nil, apiErr(http.StatusNotFound, "Skill not found")
		}
		s := &b.skills[i]
		switch method {
		case http.MethodGet:
			return mustJSON(map[string]any{"skill": skillJSON(*s)}), nil
		case http.MethodPut:
			if s.OwnerUserID != uid {
				return nil, apiErr(http.StatusForbidden, "Not authorized to update this skill")
			}
			if v := in.Get("title"); v.Exists() {
				s.Title = v.String()
			}
			if v := in.Get("description"); v.Exists() {
				s.Description = v.String()
			}
			return mustJSON(map[string]any{"skill": skillJSON(*s)}), nil
		default:
			if s.OwnerUserID != uid {
				return nil, apiErr(http.StatusForbidden, "Not authorized to delete this skill")
			}
			b.skills = append(b.skills[:i], b.skills[i+1:]...)
			return mustJSON(map[string]any{"message": "Skill deleted"}), nil
		}

	case route == "POST requests":
		i := b.skillIndex(in.Get("skillId").String())
		if i < 0 {
			return nil, apiErr(http.StatusNotFound, "Skill not found")
		}
		r := models.ExchangeRequest{
			ID:         uuid.NewString(),
			SkillID:    b.skills[i].ID,
			FromUserID: uid,
			ToUserID:   b.skills[i].OwnerUserID,
			Status:     models.StatusPending,
			Message:    in.Get("message").String(),
			CreatedAt:  time.Now().UTC(),
		}
		b.requests = append(b.requests, r)
		return mustJSON(map[string]any{"request": requestJSON(r)}), nil
	case route == "GET requests" && len(parts) == 1:
		f := models.RequestFilter{Direction: models.Direction(req.Query["type"]), Status: models.RequestStatus(req.Query["status"])}
		var out []map[string]any
		for _, r := range b.requests {
			if f.Matches(r, uid) {
				out = append(out, requestJSON(r))
			}
		}
		return mustJSON(map[string]any{"requests": out}), nil
	case route == "GET requests/skill" && len(parts) == 3:
		var out []map[string]any
		for _, r := range b.requests {
			if r.SkillID == parts[2] {
				out = append(out, requestJSON(r))
			}
		}
		return mustJSON(map[string]any{"requests": out}), nil
	case strings.HasPrefix(route, "GET requests/"), strings.HasPrefix(route, "PATCH requests/"), strings.HasPrefix(route, "DELETE requests/"):
		i := b.requestIndex(parts[1])
		if i < 0 {
			return nil, apiErr(http.StatusNotFound, "Request not found")
		}
		r := &b.requests[i]
		if !r.Involves(uid) {
			return nil, apiErr(http.StatusForbidden, "Not authorized")
		}
		switch method {
		case http.MethodGet:
			return mustJSON(map[string]any{"request": requestJSON(*r)}), nil
		case http.MethodPatch:
			to := models.RequestStatus(in.Get("status").String())
			ev, err := lifecycle.EventFor(to)
			if err != nil {
				return nil, apiErr(http.StatusBadRequest, "Invalid status")
			}
			if _, _, err := lifecycle.Next(*r, ev, uid); err != nil {
				return nil, apiErr(http.StatusBadRequest, fmt.Sprintf("Cannot change status: %v", err))
			}
			r.Status = to
			return mustJSON(map[string]any{"request": requestJSON(*r)}), nil
		default:
			if _, _, err := lifecycle.Next(*r, lifecycle.EventCancel, uid); err != nil {
				return nil, apiErr(http.StatusBadRequest, "Cannot cancel request")
			}
			b.requests = append(b.requests[:i], b.requests[i+1:]...)
			return mustJSON(map[string]any{"message": "Request cancelled"}), nil
		}
	}

	return nil, apiErr(http.StatusNotFound, "Route not found: "+method+" "+path)
}

func (b *fakeBackend) issueToken(u *fbUser) []byte {
	tok := "tok-" + uuid.NewString()
	b.tokens[tok] = u.ID
	return mustJSON(map[string]any{"token": tok, "user": userJSON(u.User)})
}

func (b *fakeBackend) skillIndex(id string) int {
	for i, s := range b.skills {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (b *fakeBackend) requestIndex(id string) int {
	for i, r := range b.requests {
		if r.ID == id {
			return i
		}
	}
	return -1
}

/*************
 * Wiring
 *************/

// testClient is one signed-in (or not) user's set of stores.
type testClient struct {
	exec     *backendExec
	creds    *memCreds
	session  *SessionStore
	catalog  *CatalogStore
	exchange *ExchangeStore
}

func newTestClient(b *fakeBackend) *testClient {
	exec := b.client()
	creds := &memCreds{}
	logger := nopLogger()

	session := NewSessionStore(exec, creds, logger)
	exec.creds = session
	exec.unauthorized = append(exec.unauthorized, session.HandleUnauthorized)

	catalog := NewCatalogStore(exec, logger)
	exchange := NewExchangeStore(exec, session, catalog, logger)
	ResetOnSignOut(session, catalog, exchange)
	return &testClient{
		exec:     exec,
		creds:    creds,
		session:  session,
		catalog:  catalog,
		exchange: exchange,
	}
}

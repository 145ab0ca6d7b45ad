package stores

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/client/api"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
)

// CredentialStore persists the session credential between runs.
type CredentialStore interface {
	Load(ctx context.Context) (models.StoredCredential, error)
	Save(ctx context.Context, c models.StoredCredential) error
	Clear(ctx context.Context) error
}

// ChangeReason says why the session changed.
type ChangeReason string

const (
	ReasonRestored     ChangeReason = "restored"
	ReasonRegistered   ChangeReason = "registered"
	ReasonLoggedIn     ChangeReason = "logged_in"
	ReasonProfile      ChangeReason = "profile"
	ReasonLoggedOut    ChangeReason = "logged_out"
	ReasonUnauthorized ChangeReason = "unauthorized"
	ReasonExpired      ChangeReason = "expired"
)

// SessionState is a snapshot of the session.
type SessionState struct {
	User          *models.User
	Token         string
	Authenticated bool
	Busy          bool
	LastError     *ErrorInfo
}

// SessionEvent is delivered to subscribers after every session change.
type SessionEvent struct {
	Reason ChangeReason
	State  SessionState
}

// SessionStore owns the authenticated identity. It is the executor's
// credential source and the Exchange store's identity source.
type SessionStore struct {
	tracker

	exec   api.Executor
	creds  CredentialStore
	logger logging.Logger
	now    func() time.Time

	user       *models.User
	token      string
	userID     string
	loggingOut bool

	subsMu sync.Mutex
	subs   map[int]func(SessionEvent)
	nextID int
}

// NewSessionStore returns an empty session. Call Restore to rehydrate.
func NewSessionStore(exec api.Executor, creds CredentialStore, logger logging.Logger) *SessionStore {
	return &SessionStore{
		exec:   exec,
		creds:  creds,
		logger: logger,
		now:    time.Now,
		subs:   make(map[int]func(SessionEvent)),
	}
}

// Subscribe registers fn for session changes and returns its cancel func.
// fn runs synchronously on the goroutine that caused the change.
func (s *SessionStore) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *SessionStore) notify(reason ChangeReason) {
	ev := SessionEvent{Reason: reason, State: s.State()}

	s.subsMu.Lock()
	fns := make([]func(SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// State returns a snapshot of the session.
func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u *models.User
	if s.user != nil {
		c := *s.user
		u = &c
	}
	return SessionState{
		User:          u,
		Token:         s.token,
		Authenticated: s.token != "",
		Busy:          s.busy,
		LastError:     s.lastErr.clone(),
	}
}

// Token returns the credential token, or "" when signed out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the authenticated user's id, or "" when unknown.
func (s *SessionStore) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user != nil && s.user.ID != "" {
		return s.user.ID
	}
	return s.userID
}

// IsAuthenticated reports whether a credential token is present.
func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// Restore rehydrates the token from the credential store. An expired JWT is
// discarded along with its persisted copy; opaque tokens are kept as-is.
func (s *SessionStore) Restore(ctx context.Context) error {
	stored, err := s.creds.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "session restore failed", "error", err)
		return err
	}
	if stored.Token == "" {
		return nil
	}

	if tokenExpired(stored.Token, s.now()) {
		s.logger.Info(ctx, "stored session expired, discarding", "user_id", stored.UserID)
		if err := s.creds.Clear(ctx); err != nil {
			s.logger.Warn(ctx, "clear expired credential failed", "error", err)
		}
		s.notify(ReasonExpired)
		return nil
	}

	s.mu.Lock()
	s.token = stored.Token
	s.userID = stored.UserID
	s.mu.Unlock()

	s.logger.Info(ctx, "session restored", "user_id", stored.UserID, "saved_at", stored.SavedAt)
	s.notify(ReasonRestored)
	return nil
}

// tokenExpired inspects the exp claim without verifying the signature. Tokens
// that do not parse as JWTs, or carry no exp, never expire locally.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// Register creates an account and signs it in.
func (s *SessionStore) Register(ctx context.Context, in models.RegisterInput) (models.User, error) {
	return s.authenticate(ctx, "/auth/register", in, in.Email, ReasonRegistered)
}

// Login signs in with email and password.
func (s *SessionStore) Login(ctx context.Context, email, password string) (models.User, error) {
	return s.authenticate(ctx, "/auth/login", models.Credentials{Email: email, Password: password}, email, ReasonLoggedIn)
}

func (s *SessionStore) authenticate(ctx context.Context, path string, payload any, email string, reason ChangeReason) (models.User, error) {
	s.start()

	body, err := s.exec.Execute(ctx, http.MethodPost, path, api.Request{Body: payload})
	if err != nil {
		return models.User{}, s.fail(err)
	}

	token := gjson.GetBytes(body, "token").String()
	if token == "" {
		return models.User{}, s.fail(api.NewError(ErrMalformedResponse, 0, "server did not return a token"))
	}

	user := models.User{Email: email}
	if u := gjson.GetBytes(body, "user"); u.IsObject() {
		user = models.DecodeUser(u)
	}

	if err := s.creds.Save(ctx, models.StoredCredential{Token: token, UserID: user.ID}); err != nil {
		s.logger.Warn(ctx, "persist credential failed", "error", err)
	}

	s.succeed(func() {
		s.token = token
		s.userID = user.ID
		s.user = &user
	})

	s.logger.Info(ctx, "signed in", "user_id", user.ID, "reason", string(reason))
	s.notify(reason)
	return user, nil
}

func (s *SessionStore) requireToken() error {
	if s.Token() == "" {
		return api.NewError(api.ErrUnauthorized, 0, "not authenticated")
	}
	return nil
}

// FetchProfile refreshes the current user from the server. Without a token it
// fails immediately.
func (s *SessionStore) FetchProfile(ctx context.Context) (models.User, error) {
	s.start()
	if err := s.requireToken(); err != nil {
		return models.User{}, s.fail(err)
	}

	body, err := s.exec.Execute(ctx, http.MethodGet, "/auth/profile", api.Request{})
	if err != nil {
		return models.User{}, s.fail(err)
	}

	return s.applyProfile(ctx, body), nil
}

// UpdateProfile sends the editable fields and stores the server's answer.
// Email cannot be changed.
func (s *SessionStore) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	s.start()
	if err := s.requireToken(); err != nil {
		return models.User{}, s.fail(err)
	}

	body, err := s.exec.Execute(ctx, http.MethodPut, "/auth/profile", api.Request{Body: upd})
	if err != nil {
		return models.User{}, s.fail(err)
	}

	return s.applyProfile(ctx, body), nil
}

func (s *SessionStore) applyProfile(ctx context.Context, body []byte) models.User {
	user := models.DecodeUser(models.Envelope(body, "user"))

	var persist bool
	var token string
	s.succeed(func() {
		if s.token == "" {
			// signed out while the call was in flight
			return
		}
		persist = user.ID != "" && user.ID != s.userID
		token = s.token
		s.user = &user
		if user.ID != "" {
			s.userID = user.ID
		}
	})

	if persist {
		if err := s.creds.Save(ctx, models.StoredCredential{Token: token, UserID: user.ID}); err != nil {
			s.logger.Warn(ctx, "persist credential failed", "error", err)
		}
	}

	s.notify(ReasonProfile)
	return user
}

// Logout ends the session. When signed in it first tells the server; a
// failure there, including a 401, is logged and ignored. Calling Logout
// twice is harmless.
func (s *SessionStore) Logout(ctx context.Context) {
	if s.Token() != "" {
		s.start()
		s.setLoggingOut(true)
		_, err := s.exec.Execute(ctx, http.MethodPost, "/auth/logout", api.Request{})
		s.setLoggingOut(false)
		if err != nil {
			s.logger.Warn(ctx, "server logout failed", "error", api.Message(err))
		}
		s.succeed(nil)
	}
	s.teardown(ctx, ReasonLoggedOut)
}

func (s *SessionStore) setLoggingOut(v bool) {
	s.mu.Lock()
	s.loggingOut = v
	s.mu.Unlock()
}

// HandleUnauthorized tears the session down locally. It is subscribed to the
// executor's 401 notifications and never calls the server. A 401 answering
// Logout's own server call is left to Logout.
func (s *SessionStore) HandleUnauthorized(ctx context.Context) {
	s.mu.RLock()
	out := s.loggingOut
	s.mu.RUnlock()
	if out {
		return
	}
	s.teardown(ctx, ReasonUnauthorized)
}

func (s *SessionStore) teardown(ctx context.Context, reason ChangeReason) {
	s.mu.Lock()
	had := s.token != "" || s.user != nil
	s.user = nil
	s.token = ""
	s.userID = ""
	if reason == ReasonLoggedOut {
		s.lastErr = nil
	}
	s.mu.Unlock()

	if err := s.creds.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "clear credential failed", "error", err)
	}

	if had {
		s.logger.Info(ctx, "session ended", "reason", string(reason))
		s.notify(reason)
	}
}

// Resetter is a store holding per-user data that must not outlive a session.
type Resetter interface {
	Reset()
}

// ResetOnSignOut clears stores whenever the session ends, whether by logout,
// a 401 or an expired saved token.
func ResetOnSignOut(s *SessionStore, stores ...Resetter) (unsubscribe func()) {
	return s.Subscribe(func(ev SessionEvent) {
		switch ev.Reason {
		case ReasonLoggedOut, ReasonUnauthorized, ReasonExpired:
			for _, r := range stores {
				r.Reset()
			}
		}
	})
}

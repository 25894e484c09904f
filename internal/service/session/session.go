package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/repository"
)

// Keys of the persisted session entries.
const (
	TokenKey      = "jwt_token"
	UserKey       = "currentUser_enc"
	LegacyUserKey = "currentUser"
)

// ErrNotAuthenticated is returned by operations that need a logged in operator.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// AuthAPI is the backend call used to log in.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// State is the observable session.
type State struct {
	CurrentUser     *models.User `json:"currentUser"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Session tracks the authenticated operator and mirrors it to the store.
type Session struct {
	api    AuthAPI
	store  repository.Store
	obf    *Obfuscator
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	user     *models.User
	token    string
	onLogout []func()
}

// New builds a logged out session. Call Restore once before use.
func New(api AuthAPI, store repository.Store, obf *Obfuscator, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		api:    api,
		store:  store,
		obf:    obf,
		logger: logger,
		now:    time.Now,
	}
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{CurrentUser: copyUser(s.user), IsAuthenticated: s.authenticated()}
}

// IsAuthenticated reports whether both a token and a user are held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated()
}

func (s *Session) authenticated() bool {
	return s.token != "" && s.user != nil
}

// Token returns the bearer token, or an empty string when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns the logged in operator or ErrNotAuthenticated.
func (s *Session) CurrentUser() (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated() {
		return nil, ErrNotAuthenticated
	}
	return copyUser(s.user), nil
}

// Login authenticates against the backend and persists the token and the
// sealed user snapshot. Backend errors are returned unchanged.
func (s *Session) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	resp, err := s.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("session: backend returned an empty token")
	}

	user := resp.User
	if err := s.persist(ctx, resp.Token, &user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("operator logged in", zap.String("user_id", user.ID), zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return resp, nil
}

func (s *Session) persist(ctx context.Context, token string, user *models.User) error {
	sealed, err := s.obf.SealObject(user)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := s.store.Set(ctx, UserKey, sealed); err != nil {
		return fmt.Errorf("store user snapshot: %w", err)
	}
	return nil
}

// UpdateUser replaces the cached operator record, e.g. after an avatar change.
func (s *Session) UpdateUser(ctx context.Context, user models.User) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return ErrNotAuthenticated
	}

	sealed, err := s.obf.SealObject(&user)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, UserKey, sealed); err != nil {
		return fmt.Errorf("store user snapshot: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// OnLogout registers fn to run after every logout, forced or not.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Logout clears the store and the in-memory state. The backend is not called.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if err := s.store.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Expire is called when the backend answers 401 on an authenticated call.
func (s *Session) Expire(reason string) {
	if !s.IsAuthenticated() {
		return
	}
	s.logger.Warn("session expired by backend", zap.String("reason", reason))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Logout(ctx); err != nil {
		s.logger.Error("failed to clear expired session", zap.Error(err))
	}
}

// Restore loads the session persisted by a previous run. A snapshot that
// cannot be decoded logs the operator out and returns ErrCorruptSnapshot. A
// plain user entry left by older consoles is sealed once and removed.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.get(ctx, TokenKey)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	if s.tokenExpired(token) {
		s.logger.Info("stored token already expired")
		return s.Logout(ctx)
	}

	sealed, err := s.get(ctx, UserKey)
	if err != nil {
		return err
	}
	if sealed != "" {
		return s.restoreSealed(ctx, token, sealed)
	}

	legacy, err := s.get(ctx, LegacyUserKey)
	if err != nil {
		return err
	}
	if legacy == "" {
		s.logger.Info("token without user snapshot, clearing")
		return s.Logout(ctx)
	}
	return s.migrateLegacy(ctx, token, legacy)
}

func (s *Session) restoreSealed(ctx context.Context, token, sealed string) error {
	var user *models.User
	err := s.obf.OpenObject(sealed, &user)
	if err == nil && (user == nil || user.ID == "") {
		err = fmt.Errorf("%w: empty user", ErrCorruptSnapshot)
	}
	if err != nil {
		s.logger.Warn("discarding unreadable session", zap.Error(err))
		if logoutErr := s.Logout(ctx); logoutErr != nil {
			return errors.Join(err, logoutErr)
		}
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	s.logger.Info("session restored", zap.String("user_id", user.ID))
	return nil
}

func (s *Session) migrateLegacy(ctx context.Context, token, legacy string) error {
	var user models.User
	if err := json.Unmarshal([]byte(legacy), &user); err != nil || user.ID == "" {
		s.logger.Warn("discarding unreadable legacy user entry", zap.Error(err))
		if logoutErr := s.Logout(ctx); logoutErr != nil {
			return logoutErr
		}
		return s.store.Delete(ctx, LegacyUserKey)
	}

	sealed, err := s.obf.SealObject(&user)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, UserKey, sealed); err != nil {
		return fmt.Errorf("store user snapshot: %w", err)
	}
	if err := s.store.Delete(ctx, LegacyUserKey); err != nil {
		return fmt.Errorf("remove legacy user entry: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("legacy session migrated", zap.String("user_id", user.ID))
	return nil
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return value, nil
}

// tokenExpired reads the exp claim without verifying the signature. Opaque
// tokens are left for the backend to judge.
func (s *Session) tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(s.now())
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

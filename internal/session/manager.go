// Package session owns authentication state: the two-phase OTP flow, the
// durable session marker, and global de-authentication on 401 responses.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/auth"
	"github.com/skpot/biryani-console/internal/events"
)

// Session is the authenticated identity plus its transient OTP-flow state.
// Lifetime is owned exclusively by the Manager.
type Session struct {
	SubjectID    string
	Phone        string
	Role         string
	PendingPhone string
	ExpiresAt    time.Time
}

// Manager is the session guard. It derives authentication strictly from the
// hydrated in-memory session; the durable profile only seeds it at startup.
type Manager struct {
	client  *api.Client
	storage *Storage
	log     logrus.FieldLogger

	mu      sync.RWMutex
	session Session
	loading bool
	err     error
}

// NewManager creates a Manager and subscribes it to the hub's unauthorized
// event so any 401 from any store tears the session down.
func NewManager(client *api.Client, hub *events.Hub, storage *Storage, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Manager{
		client:  client,
		storage: storage,
		log:     log.WithField("component", "session"),
	}
	hub.SubscribeUnauthorized(m.handleUnauthorized)
	return m
}

// Hydrate seeds the session from the durable profile. It performs no network
// round-trip; the first 401 invalidates an expired marker.
func (m *Manager) Hydrate() error {
	user, err := m.storage.Load()
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	m.mu.Lock()
	m.session = Session{SubjectID: user.ID, Phone: user.Phone, Role: user.Role}
	m.mu.Unlock()
	m.log.WithField("subject", user.ID).Debug("session rehydrated from disk")
	return nil
}

// Authenticated reports whether a session is hydrated.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.SubjectID != ""
}

// Session returns a copy of the current session state.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Loading reports whether an auth dispatch is in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Err returns the last auth error, cleared by the next dispatch.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// RequestOTP asks the server to send a one-time passcode and records the
// phone as pending so VerifyOTP can insist on the same number.
func (m *Manager) RequestOTP(ctx context.Context, phone string) error {
	m.begin()
	_, err := m.client.Do(ctx, http.MethodPost, "/auth/send-otp", map[string]string{"phone": phone})
	if err != nil {
		return m.fail("failed to send OTP", err)
	}

	m.mu.Lock()
	m.session.PendingPhone = phone
	m.loading = false
	m.mu.Unlock()
	return nil
}

// VerifyOTP completes the OTP flow. The phone must match the pending one
// from RequestOTP; anything else is a caller error refused without a network
// call. On success the pending phone is consumed and the session set.
func (m *Manager) VerifyOTP(ctx context.Context, phone, code string) error {
	m.mu.RLock()
	pending := m.session.PendingPhone
	m.mu.RUnlock()
	if pending == "" || pending != phone {
		err := fmt.Errorf("no pending OTP request for %s", phone)
		m.mu.Lock()
		m.err = err
		m.mu.Unlock()
		return err
	}

	m.begin()
	payload, err := m.client.Do(ctx, http.MethodPost, "/auth/verify-otp", map[string]string{"phone": phone, "otp": code})
	if err != nil {
		return m.fail("invalid OTP", err)
	}

	var resp struct {
		Token string    `json:"token"`
		User  auth.User `json:"user"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return m.fail("invalid OTP", fmt.Errorf("decode verify response: %w", err))
	}

	user := resp.User
	if user.Phone == "" {
		user.Phone = phone
	}

	sess := Session{SubjectID: user.ID, Phone: user.Phone, Role: user.Role}
	if resp.Token != "" {
		// Mirror the token for non-cookie transports and fill gaps from its
		// claims. The server already validated it; parsing stays unverified.
		m.client.SetToken(resp.Token)
		fillFromClaims(&sess, resp.Token)
		user.Role = sess.Role
	}

	m.mu.Lock()
	m.session = sess
	m.loading = false
	m.mu.Unlock()

	if err := m.storage.Save(user); err != nil {
		m.log.WithError(err).Warn("persist session profile")
	}
	m.log.WithField("subject", sess.SubjectID).Info("login successful")
	return nil
}

// Logout tells the server best-effort, then clears local state
// unconditionally so the operator is never stuck logged in.
func (m *Manager) Logout(ctx context.Context) error {
	_, err := m.client.Do(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		m.log.WithError(err).Warn("server logout failed, clearing local session anyway")
	}
	m.clear()
	return err
}

// handleUnauthorized is the hub subscriber: any 401 response from any store
// forces de-authentication.
func (m *Manager) handleUnauthorized() {
	if !m.Authenticated() {
		return
	}
	m.log.Warn("session expired, logging out")
	m.clear()
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()

	m.client.SetToken("")
	if err := m.storage.Clear(); err != nil {
		m.log.WithError(err).Warn("clear session profile")
	}
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.loading = true
	m.err = nil
	m.mu.Unlock()
}

func (m *Manager) fail(fallback string, cause error) error {
	err := fmt.Errorf("%s: %w", api.Message(cause, fallback), cause)
	m.mu.Lock()
	m.loading = false
	m.err = err
	m.mu.Unlock()
	return err
}

// fillFromClaims copies subject, role, and expiry from the access token when
// the verify response left them blank.
func fillFromClaims(sess *Session, token string) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return
	}
	if sess.SubjectID == "" {
		if sub, err := claims.GetSubject(); err == nil {
			sess.SubjectID = sub
		}
	}
	if sess.Role == "" {
		if role, ok := claims["role"].(string); ok {
			sess.Role = role
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
}

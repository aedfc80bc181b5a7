// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/dberr"
	"github.com/taibuivan/lectio/internal/platform/kv"
	"github.com/taibuivan/lectio/internal/platform/sec"
	"github.com/taibuivan/lectio/internal/platform/validate"
	"github.com/taibuivan/lectio/pkg/uuid"
)

// MinPassphraseLength is the shortest accepted session passphrase.
const MinPassphraseLength = 8

// operatorSubject is the token subject of operator tokens.
const operatorSubject = "operator"

// # Session Model

// Session is the persisted record of a reading session.
type Session struct {
	ID             string    `json:"id"`
	PassphraseHash string    `json:"passphrase_hash,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Protected reports whether resuming the session requires a passphrase.
func (session Session) Protected() bool {
	return session.PassphraseHash != ""
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	IssueToken(sessionID string, role sec.Role, ttl time.Duration) (string, error)
}

// SessionConfig tunes a [SessionService].
type SessionConfig struct {
	TTL                  time.Duration
	OperatorPasswordHash string
	Logger               *slog.Logger
	ReaderOptions        []Option
}

// # Session Service

// SessionService creates reading sessions and hands out one [Reader] per session.
type SessionService struct {
	deps   Deps
	tokens TokenIssuer
	config SessionConfig
	clock  func() time.Time

	mu      sync.Mutex
	readers map[string]*cachedReader
}

type cachedReader struct {
	reader   *Reader
	lastUsed time.Time
}

// NewSessionService constructs a [SessionService]. deps.Store is the shared medium;
// each session reads and writes through its own key namespace.
func NewSessionService(deps Deps, tokens TokenIssuer, config SessionConfig) *SessionService {
	if config.TTL <= 0 {
		config.TTL = constants.DefaultSessionTTL
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &SessionService{
		deps:    deps,
		tokens:  tokens,
		config:  config,
		clock:   time.Now,
		readers: make(map[string]*cachedReader),
	}
}

/*
Create starts a new reading session.

Description: An optional passphrase protects the session so it can be resumed from
another device. The passphrase is stored as a bcrypt hash.

Parameters:
  - ctx: context.Context
  - passphrase: string (Optional, at least MinPassphraseLength characters)

Returns:
  - Session: The new session record
  - string: A reader token for the session
  - error: VALIDATION_ERROR for a short passphrase, storage failures
*/
func (service *SessionService) Create(ctx context.Context, passphrase string) (Session, string, error) {
	session := Session{ID: uuid.New(), CreatedAt: service.clock().UTC()}

	if passphrase != "" {
		validator := &validate.Validator{}
		validator.MinLen("passphrase", passphrase, MinPassphraseLength)
		if err := validator.Err(); err != nil {
			return Session{}, "", err
		}

		hash, err := sec.HashPassphrase(passphrase)
		if err != nil {
			return Session{}, "", apperr.Internal(err)
		}
		session.PassphraseHash = hash
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return Session{}, "", apperr.Internal(err)
	}
	if err := service.deps.Store.Set(ctx, recordKey(session.ID), string(raw)); err != nil {
		return Session{}, "", dberr.ToAppError(fmt.Errorf("reader: storing session: %w", err))
	}

	token, err := service.issue(session.ID)
	if err != nil {
		return Session{}, "", err
	}

	service.config.Logger.InfoContext(ctx, "session_created",
		slog.String("session_id", session.ID),
		slog.Bool("protected", session.Protected()),
	)
	return session, token, nil
}

/*
Resume issues a fresh token for an existing protected session.

Parameters:
  - ctx: context.Context
  - id: string (Session UUID)
  - passphrase: string

Returns:
  - string: A reader token for the session
  - error: NOT_FOUND, FORBIDDEN (unprotected session) or UNAUTHORIZED (wrong passphrase)
*/
func (service *SessionService) Resume(ctx context.Context, id, passphrase string) (string, error) {
	session, err := service.Lookup(ctx, id)
	if err != nil {
		return "", err
	}

	if !session.Protected() {
		return "", apperr.Forbidden("Session has no passphrase and cannot be resumed")
	}
	if !sec.MatchPassphrase(passphrase, session.PassphraseHash) {
		service.config.Logger.WarnContext(ctx, "session_resume_rejected", slog.String("session_id", id))
		return "", apperr.Unauthorized("Invalid passphrase")
	}

	return service.issue(session.ID)
}

// Lookup returns the record of a session.
func (service *SessionService) Lookup(ctx context.Context, id string) (Session, error) {
	if err := validateSessionID(id); err != nil {
		return Session{}, err
	}

	raw, found, err := service.deps.Store.Get(ctx, recordKey(id))
	if err != nil {
		return Session{}, dberr.ToAppError(fmt.Errorf("reader: loading session: %w", err))
	}
	if !found {
		return Session{}, apperr.NotFound("Session")
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, apperr.Internal(fmt.Errorf("reader: decoding session: %w", err))
	}
	return session, nil
}

// IssueOperatorToken exchanges the operator password for an operator token.
func (service *SessionService) IssueOperatorToken(ctx context.Context, password string) (string, error) {
	if service.config.OperatorPasswordHash == "" {
		return "", apperr.Forbidden("Operator access is disabled")
	}
	if !sec.MatchPassphrase(password, service.config.OperatorPasswordHash) {
		service.config.Logger.WarnContext(ctx, "operator_login_rejected")
		return "", apperr.Unauthorized("Invalid operator password")
	}

	token, err := service.tokens.IssueToken(operatorSubject, sec.RoleOperator, service.config.TTL)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

// Reader returns the [Reader] of a session, creating it on first use.
func (service *SessionService) Reader(ctx context.Context, id string) (*Reader, error) {
	if reader, found := service.cached(id); found {
		return reader, nil
	}

	if _, err := service.Lookup(ctx, id); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	// Another request may have created it meanwhile
	if entry, found := service.readers[id]; found {
		entry.lastUsed = service.clock()
		return entry.reader, nil
	}

	deps := service.deps
	deps.Store = kv.Prefixed(service.deps.Store, fmt.Sprintf(constants.StorageKeySessionPrefix, id))

	opts := append([]Option{WithLogger(service.config.Logger.With(slog.String("session_id", id)))}, service.config.ReaderOptions...)
	reader := NewReader(deps, opts...)
	service.readers[id] = &cachedReader{reader: reader, lastUsed: service.clock()}
	return reader, nil
}

func (service *SessionService) cached(id string) (*Reader, bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	entry, found := service.readers[id]
	if !found {
		return nil, false
	}
	entry.lastUsed = service.clock()
	return entry.reader, true
}

// Evict drops the in-memory reader of a session. Persisted state is kept.
func (service *SessionService) Evict(id string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.readers, id)
}

// Sweep drops readers unused for longer than idle and returns how many were dropped.
// A dropped reader is rebuilt from storage on the next [SessionService.Reader] call.
func (service *SessionService) Sweep(idle time.Duration) int {
	service.mu.Lock()
	defer service.mu.Unlock()

	dropped := 0
	cutoff := service.clock().Add(-idle)
	for id, entry := range service.readers {
		if entry.lastUsed.Before(cutoff) {
			delete(service.readers, id)
			dropped++
		}
	}
	return dropped
}

// SweepIdle runs [SessionService.Sweep] every interval until ctx ends.
func (service *SessionService) SweepIdle(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if dropped := service.Sweep(idle); dropped > 0 {
				service.config.Logger.DebugContext(ctx, "readers_swept", slog.Int("dropped", dropped))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (service *SessionService) issue(sessionID string) (string, error) {
	token, err := service.tokens.IssueToken(sessionID, sec.RoleReader, service.config.TTL)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

func recordKey(id string) string {
	return fmt.Sprintf(constants.StorageKeySessionRecord, id)
}

func validateSessionID(id string) error {
	validator := &validate.Validator{}
	validator.UUID("id", id)
	return validator.Err()
}

// Package service hosts many independent game sessions behind ids, serializing
// access to each session and archiving their moves when a store is configured.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"hotseat/internal/core"
	"hotseat/internal/game"
	"hotseat/internal/obslog"
	"hotseat/internal/storage"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCapacity        = errors.New("session limit reached")
)

// Archiver receives session history. *storage.Store implements it.
type Archiver interface {
	RecordSession(storage.SessionRecord)
	RecordMove(storage.MoveRecord)
	RecordResult(sessionID, result string, endedAt time.Time)
	RecordReset(sessionID string)
	IsHealthy() bool
	Close() error
}

type Options struct {
	MaxSessions int
	WaitTimeout time.Duration
}

type Service struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	store       Archiver // nil if persistence disabled
	waiter      *WaitRegistry
	maxSessions int
}

type entry struct {
	mu        sync.Mutex
	session   *game.Session
	nickname  string
	createdAt time.Time
}

// View is a consistent read of one session
type View struct {
	ID        string
	Nickname  string
	CreatedAt time.Time
	Snapshot  game.Snapshot
	Summary   string
	Winner    *core.Color
	Ledger    []core.MoveRecord
	Last      *game.MoveResult
}

// New creates a service; store may be nil
func New(store Archiver, opts Options) *Service {
	return &Service{
		sessions:    make(map[string]*entry),
		store:       store,
		waiter:      NewWaitRegistry(opts.WaitTimeout),
		maxSessions: opts.MaxSessions,
	}
}

// CreateSession starts a game from the standard arrangement
func (s *Service) CreateSession() (View, error) {
	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		return View{}, ErrCapacity
	}

	id := uuid.New().String()
	for _, exists := s.sessions[id]; exists; _, exists = s.sessions[id] {
		id = uuid.New().String()
	}
	e := &entry{
		session:   game.New(),
		nickname:  petname.Generate(2, "-"),
		createdAt: time.Now().UTC(),
	}
	s.sessions[id] = e
	s.mu.Unlock()

	if s.store != nil {
		s.store.RecordSession(storage.SessionRecord{
			SessionID: id,
			Nickname:  e.nickname,
			CreatedAt: e.createdAt,
		})
	}
	obslog.L().Info("session created", zap.String("session", id), zap.String("nickname", e.nickname))

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(id), nil
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (e *entry) view(id string) View {
	v := View{
		ID:        id,
		Nickname:  e.nickname,
		CreatedAt: e.createdAt,
		Snapshot:  e.session.Snapshot(),
		Summary:   e.session.Summary(),
		Ledger:    e.session.Ledger(),
	}
	if w, ok := e.session.Winner(); ok {
		v.Winner = &w
	}
	if last := e.session.LastResult(); last != nil {
		cp := *last
		v.Last = &cp
	}
	return v
}

func (s *Service) GetSession(id string) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(id), nil
}

// SelectSquare records a selection in the session
func (s *Service) SelectSquare(id string, sq core.Square) ([]core.Square, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.SelectSquare(sq.Row, sq.Col)
}

// LegalMoves lists destinations for the piece on sq; it does not touch the selection
func (s *Service) LegalMoves(id string, sq core.Square) ([]core.Square, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.LegalMoves(sq)
}

// AllLegalMoves lists every legal move of the side to move
func (s *Service) AllLegalMoves(id string) ([]core.Move, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.AllLegalMoves(), nil
}

// MakeMove commits a move, archives it and wakes long-polling clients
func (s *Service) MakeMove(id string, from, to core.Square) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	res, err := e.session.RequestMove(from, to)
	if err != nil {
		e.mu.Unlock()
		return View{}, err
	}
	plies := e.session.Plies()
	view := e.view(id)
	reason := e.session.TerminalReason()
	e.mu.Unlock()

	now := time.Now().UTC()
	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			SessionID: id,
			Ply:       plies,
			Label:     res.Label,
			From:      from.String(),
			To:        to.String(),
			Color:     string(rune(res.Player)),
			Status:    res.Status.String(),
			CreatedAt: now,
		})
		if res.Status.Terminal() {
			s.store.RecordResult(id, reason, now)
		}
	}

	log := obslog.L()
	log.Debug("move committed",
		zap.String("session", id),
		zap.String("move", res.Label),
		zap.String("status", res.Status.String()))
	if res.Status.Terminal() {
		log.Info("session finished", zap.String("session", id), zap.String("result", reason))
	}

	s.waiter.NotifySession(id, plies)
	return view, nil
}

// ResetSession restores the initial arrangement, keeping id and nickname
func (s *Service) ResetSession(id string) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	prior := e.session.Plies()
	e.session.Reset()
	view := e.view(id)
	e.mu.Unlock()

	if s.store != nil && prior > 0 {
		s.store.RecordReset(id)
	}
	s.waiter.NotifySession(id, 0)
	return view, nil
}

func (s *Service) DeleteSession(id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	s.waiter.RemoveSession(id)
	obslog.L().Info("session deleted", zap.String("session", id))
	return nil
}

// Wait returns a channel closed once the session's ply count differs from
// plies, or the wait ends for another reason. It is already closed when the
// count differs at call time.
func (s *Service) Wait(ctx context.Context, id string, plies int) (<-chan struct{}, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Plies() != plies {
		ch := make(chan struct{})
		close(ch)
		return ch, nil
	}
	return s.waiter.RegisterWait(ctx, id, plies), nil
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StorageHealth is "disabled", "ok" or "degraded"
func (s *Service) StorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close releases waiters and the archive
func (s *Service) Close() error {
	werr := s.waiter.Shutdown(5 * time.Second)

	s.mu.Lock()
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	if s.store != nil {
		return errors.Join(werr, s.store.Close())
	}
	return werr
}

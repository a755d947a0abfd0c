package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Manager is the registry of live sessions, keyed by session ID.
// Sessions share nothing: the manager only hands out machines.
type Manager struct {
	mu       sync.RWMutex
	machines map[uuid.UUID]*Machine

	settings Settings
	llm      Generator
	archive  Archiver
	logger   *slog.Logger
}

func NewManager(settings Settings, llm Generator, archive Archiver, logger *slog.Logger) *Manager {
	return &Manager{
		machines: make(map[uuid.UUID]*Machine),
		settings: settings,
		llm:      llm,
		archive:  archive,
		logger:   logger,
	}
}

// Create starts a new journey and returns its machine.
func (mg *Manager) Create() *Machine {
	id := uuid.New()
	m := NewMachine(id, mg.settings, mg.llm, mg.archive, mg.logger)

	mg.mu.Lock()
	mg.machines[id] = m
	mg.mu.Unlock()

	mg.logger.Info("session created", "session_id", id.String())
	return m
}

func (mg *Manager) Get(id uuid.UUID) (*Machine, error) {
	mg.mu.RLock()
	defer mg.mu.RUnlock()

	m, ok := mg.machines[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (mg *Manager) Remove(id uuid.UUID) error {
	mg.mu.Lock()
	defer mg.mu.Unlock()

	if _, ok := mg.machines[id]; !ok {
		return ErrNotFound
	}
	delete(mg.machines, id)
	mg.logger.Info("session removed", "session_id", id.String())
	return nil
}

func (mg *Manager) Count() int {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	return len(mg.machines)
}

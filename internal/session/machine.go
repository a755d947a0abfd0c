package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stillwater-labs/navigator/internal/gemini"
	"github.com/stillwater-labs/navigator/internal/parse"
	"github.com/stillwater-labs/navigator/internal/prompt"
)

// Generator is the gateway port: one model round trip, no retries.
// Satisfied by gemini.Client; faked in tests.
type Generator interface {
	Generate(ctx context.Context, system string, history []gemini.Message, prompt string) (string, error)
}

// Archiver receives a concluded journey. Optional: a nil Archiver means
// journeys are not recorded anywhere.
type Archiver interface {
	SaveJourney(ctx context.Context, s *Session) error
}

// Settings fixes the per-deployment behavior of a machine. Loaded once
// at construction and never re-read.
type Settings struct {
	LineageCount      int
	ConclusionMarker  string
	ConcludeOnMarker  bool
	DiscoverMore      bool
	SystemInstruction string
}

// Machine drives one Session. The mutex enforces the ownership
// discipline: one outstanding model call per session, and no snapshot
// reads while a call is in flight.
type Machine struct {
	mu       sync.Mutex
	settings Settings
	llm      Generator
	archive  Archiver
	logger   *slog.Logger
	now      func() time.Time
	sess     *Session
}

func NewMachine(id uuid.UUID, settings Settings, llm Generator, archive Archiver, logger *slog.Logger) *Machine {
	m := &Machine{
		settings: settings,
		llm:      llm,
		archive:  archive,
		logger:   logger.With("session_id", id.String()),
		now:      time.Now,
	}
	m.sess = newSession(id, m.now())
	return m
}

func (m *Machine) ID() uuid.UUID {
	return m.sess.ID
}

// Snapshot returns a copy of the session for the presentation layer.
// It blocks while a model call for this session is in flight.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := *m.sess
	snap.Lineages = append([]parse.Lineage(nil), m.sess.Lineages...)
	snap.Messages = append([]Message(nil), m.sess.Messages...)
	return snap
}

// SubmitTopic moves Start → ChooseLineage and runs the stage's entry
// action: lineage discovery with at most one fallback call. The topic is
// stored verbatim. An empty topic leaves the session in Start.
func (m *Machine) SubmitTopic(ctx context.Context, topic, temperament string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Stage != StageStart {
		return ErrWrongStage
	}
	if strings.TrimSpace(topic) == "" {
		return ErrEmptyTopic
	}

	m.sess.Topic = topic
	m.sess.Temperament = temperament
	m.sess.Stage = StageChooseLineage
	m.touch()

	m.logger.Info("topic submitted", "stage", m.sess.Stage.String(), "topic_len", len(topic))
	return m.discoverLineages(ctx)
}

// discoverLineages sends the primary discovery prompt and, if that
// yields no options, exactly one broader fallback — never a third call.
func (m *Machine) discoverLineages(ctx context.Context) error {
	raw, err := m.llm.Generate(ctx, m.settings.SystemInstruction, nil,
		prompt.Lineages(m.sess.Topic, m.settings.LineageCount))
	options := parse.Lineages(raw)

	if err != nil || len(options) == 0 {
		m.logger.Info("primary lineage discovery inconclusive, trying broader prompt", "error", err)

		raw2, err2 := m.llm.Generate(ctx, m.settings.SystemInstruction, nil,
			prompt.LineagesFallback(m.sess.Topic))
		if err2 != nil {
			m.logger.Error("fallback lineage discovery failed", "error", err2)
			return &ServiceError{Op: "lineage discovery", Err: err2}
		}
		raw, options = raw2, parse.Lineages(raw2)
	}

	// The fallback's result stands whatever it is. No options is a
	// valid "no paths found" state the presentation layer renders.
	m.sess.LineagesRaw = raw
	m.sess.Lineages = options
	m.touch()

	m.logger.Info("lineage discovery complete", "options", len(options))
	return nil
}

// SelectLineage moves ChooseLineage → Dialogue and initializes the
// dialogue: guide selection, then the hidden opening turn. Any failure
// regresses to ChooseLineage so a half-initialized dialogue never
// exists.
func (m *Machine) SelectLineage(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Stage != StageChooseLineage {
		return ErrWrongStage
	}
	found := false
	for _, l := range m.sess.Lineages {
		if l.Name == name {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownLineage
	}

	m.sess.ChosenLineage = name
	m.sess.Guide = ""
	m.sess.Messages = nil
	m.sess.Reflection = ""
	m.sess.opening = ""
	m.sess.Stage = StageDialogue
	m.touch()

	if err := m.startDialogue(ctx); err != nil {
		m.sess.Stage = StageChooseLineage
		m.sess.ChosenLineage = ""
		m.sess.Guide = ""
		m.sess.Messages = nil
		m.sess.opening = ""
		m.touch()
		return err
	}
	return nil
}

func (m *Machine) startDialogue(ctx context.Context) error {
	raw, err := m.llm.Generate(ctx, m.settings.SystemInstruction, nil,
		prompt.GuideSelection(m.sess.ChosenLineage, m.sess.Topic))
	if err != nil {
		m.logger.Error("guide selection failed", "error", err)
		return &ServiceError{Op: "guide selection", Err: err}
	}

	guide := parse.GuideName(raw)
	if guide == "" {
		return &ServiceError{Op: "guide selection", Err: errors.New("empty guide name")}
	}
	if strings.Contains(guide, "\n") || len(guide) > 80 {
		// Accepted anyway: the contract is trim-and-trust.
		m.logger.Warn("guide name looks non-compliant", "guide_len", len(guide))
	}
	m.sess.Guide = guide

	opening := prompt.DialogueOpening(m.sess.Topic, m.sess.ChosenLineage, guide, m.sess.Temperament)
	first, err := m.llm.Generate(ctx, m.settings.SystemInstruction, nil, opening)
	if err != nil {
		m.logger.Error("dialogue opening failed", "error", err)
		return &ServiceError{Op: "dialogue opening", Err: err}
	}

	m.sess.opening = opening
	m.sess.Messages = []Message{{Role: gemini.RoleModel, Text: first}}
	m.touch()

	m.logger.Info("dialogue started", "guide", guide)
	return nil
}

// SubmitReflection runs one dialogue turn. The user message is only
// committed once the model call succeeds, so a failed turn can be
// retried without duplicating the reflection.
func (m *Machine) SubmitReflection(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Stage != StageDialogue {
		return ErrWrongStage
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyReflection
	}

	history := m.sess.historyForModel()
	reply, err := m.llm.Generate(ctx, m.settings.SystemInstruction, history, text)
	if err != nil {
		m.logger.Error("dialogue turn failed", "error", err)
		return &ServiceError{Op: "dialogue turn", Err: err}
	}

	m.sess.Messages = append(m.sess.Messages, Message{Role: gemini.RoleUser, Text: text})

	stripped := strings.TrimLeft(reply, " \t\r\n")
	if m.settings.ConcludeOnMarker && strings.HasPrefix(stripped, m.settings.ConclusionMarker) {
		m.sess.Reflection = strings.TrimLeft(strings.TrimPrefix(stripped, m.settings.ConclusionMarker), " \t\r\n")
		m.sess.Stage = StageFinalSummary
		m.touch()
		m.logger.Info("dialogue concluded", "turns", len(m.sess.Messages))
		m.concludeJourney(ctx)
		return nil
	}

	m.sess.Messages = append(m.sess.Messages, Message{Role: gemini.RoleModel, Text: reply})
	m.touch()
	return nil
}

// concludeJourney runs the FinalSummary entry actions: the optional
// discover-more call and the optional archive write. Neither can fail
// the journey — a missing response just leaves placeholder sections.
func (m *Machine) concludeJourney(ctx context.Context) {
	if m.settings.DiscoverMore {
		raw, err := m.llm.Generate(ctx, m.settings.SystemInstruction, nil,
			prompt.DiscoverMore(m.sess.Guide, m.sess.Topic))
		if err != nil {
			m.logger.Warn("discover-more call failed", "error", err)
			raw = ""
		}
		m.sess.Discoveries = parse.DiscoverMore(raw)
	}

	if m.archive != nil {
		if err := m.archive.SaveJourney(ctx, m.sess); err != nil {
			m.logger.Warn("failed to archive journey", "error", err)
		}
	}
}

// Restart wipes the journey back to a fresh Start session. Only the ID,
// the session's address at the presentation boundary, survives.
func (m *Machine) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sess = newSession(m.sess.ID, m.now())
	m.logger.Info("session restarted")
}

func (m *Machine) touch() {
	m.sess.UpdatedAt = m.now()
}

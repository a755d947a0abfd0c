// Package session owns the journey state machine: one explicit Session
// record per seeker, advanced through Start → ChooseLineage → Dialogue →
// FinalSummary by user actions, with every model round trip and its
// fallback policy driven from here.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stillwater-labs/navigator/internal/gemini"
	"github.com/stillwater-labs/navigator/internal/parse"
)

// Stage is the closed set of journey stages. Transitions are restricted
// to the pairs the Machine methods implement; there is no way to set an
// arbitrary stage from outside the package.
type Stage int

const (
	StageStart Stage = iota
	StageChooseLineage
	StageDialogue
	StageFinalSummary
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageChooseLineage:
		return "choose_lineage"
	case StageDialogue:
		return "dialogue"
	case StageFinalSummary:
		return "final_summary"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Message is one visible turn of the dialogue. The grounding prompt that
// opens the dialogue is not a Message — it lives in Session.opening and
// is only prepended to the history sent to the model.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the whole mutable record for one seeker's journey. It is
// only ever mutated by its owning Machine.
type Session struct {
	ID            uuid.UUID
	Stage         Stage
	Topic         string
	Temperament   string
	Lineages      []parse.Lineage
	LineagesRaw   string
	ChosenLineage string
	Guide         string
	Messages      []Message
	Reflection    string
	Discoveries   parse.Discoveries
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// opening is the hidden seeker prompt that grounds the dialogue.
	// It is sent with every continuation call but never displayed.
	opening string
}

func newSession(id uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:        id,
		Stage:     StageStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// historyForModel rebuilds the role-tagged history the gateway needs,
// grounding prompt first.
func (s *Session) historyForModel() []gemini.Message {
	out := make([]gemini.Message, 0, len(s.Messages)+1)
	if s.opening != "" {
		out = append(out, gemini.Message{Role: gemini.RoleUser, Text: s.opening})
	}
	for _, m := range s.Messages {
		out = append(out, gemini.Message{Role: m.Role, Text: m.Text})
	}
	return out
}

// Action and lookup errors. Service failures are wrapped in
// ServiceError instead.
var (
	ErrEmptyTopic      = errors.New("session: topic must not be empty")
	ErrEmptyReflection = errors.New("session: reflection must not be empty")
	ErrUnknownLineage  = errors.New("session: unknown lineage option")
	ErrWrongStage      = errors.New("session: action not valid in current stage")
	ErrNotFound        = errors.New("session: not found")
)

// ServiceError marks a failed model round trip. The session survives it:
// the stage either stays put or regresses as the transition rules say,
// and the seeker can retry or restart.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *ServiceError) Unwrap() error { return e.Err }

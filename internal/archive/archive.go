// Package archive records concluded journeys in Postgres. It is an
// optional sink: the session core never depends on it succeeding, and a
// deployment without DATABASE_URL simply runs without it.
package archive

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stillwater-labs/navigator/internal/session"
)

type Archive struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Archive{pool: pool}, nil
}

func (a *Archive) Close() {
	a.pool.Close()
}

// SaveJourney writes one concluded journey and its visible transcript.
// Tables: journeys, journey_messages.
func (a *Archive) SaveJourney(ctx context.Context, s *session.Session) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	journeyID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO journeys (id, session_id, topic, temperament, lineage, guide, reflection, books, places, music, concluded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`,
		journeyID, s.ID, s.Topic, s.Temperament, s.ChosenLineage, s.Guide, s.Reflection,
		s.Discoveries.Books, s.Discoveries.Places, s.Discoveries.Music,
	)
	if err != nil {
		return fmt.Errorf("insert journey: %w", err)
	}

	for i, m := range s.Messages {
		_, err = tx.Exec(ctx, `
			INSERT INTO journey_messages (id, journey_id, seq, role, text)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), journeyID, i, m.Role, m.Text,
		)
		if err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

package recordstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// Ping verifies the record store is reachable.
func (s *PGStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}

// Insert writes one staged document payload.
func (s *PGStore) Insert(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO staged_documents (
    id,
    name,
    encoded_content,
    created_at
) VALUES ($1, $2, $3, $4)`

	_, err := s.DB.ExecContext(
		ctx,
		query,
		uuid.NewString(),
		rec.Name,
		rec.EncodedContent,
		time.Now().UTC(),
	)
	return err
}

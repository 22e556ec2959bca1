package oplog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/wire"
)

// Append records log as one batch and returns its id. Operations are
// stored in wire form exactly as given; nothing is validated here, so the
// archive keeps rejected operations too and replay reproduces their
// rejection.
func (a *Archive) Append(ctx context.Context, log domain.GraphLog, source string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("append: batch id: %w", err)
	}

	bodies := make([][]byte, 0, len(log.Ops))
	for i, op := range log.Ops {
		raw, err := wire.EncodeOp(op)
		if err != nil {
			return "", fmt.Errorf("append: op %d: %w", i, err)
		}
		canon, err := domain.CanonicalizeJSON(raw)
		if err != nil {
			return "", fmt.Errorf("append: op %d: %w", i, err)
		}
		bodies = append(bodies, canon)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("append: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, graph_id, source, op_count, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id.String(),
		string(log.GraphID),
		source,
		len(bodies),
		domain.BatchDigest(log.GraphID, bodies),
		a.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("append: insert batch: %w", err)
	}

	for i, body := range bodies {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO operations (batch_id, idx, op_type, body)
			VALUES (?, ?, ?, ?)
		`, id.String(), i, string(log.Ops[i].Type()), compress(body))
		if err != nil {
			return "", fmt.Errorf("append: insert op %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("append: commit: %w", err)
	}
	return id.String(), nil
}

package oplog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/wire"
)

// ErrDigestMismatch means a batch's stored operations no longer hash to
// the digest recorded when it was appended.
var ErrDigestMismatch = errors.New("batch digest mismatch")

// Batch describes one appended batch.
type Batch struct {
	Seq       int64          `json:"seq"`
	ID        string         `json:"id"`
	GraphID   domain.GraphID `json:"graphId"`
	Source    string         `json:"source,omitempty"`
	OpCount   int            `json:"opCount"`
	Digest    string         `json:"digest"`
	CreatedAt string         `json:"createdAt"`
}

// Batches lists every batch in append order.
func (a *Archive) Batches(ctx context.Context) ([]Batch, error) {
	return a.queryBatches(ctx, `
		SELECT seq, id, graph_id, source, op_count, digest, created_at
		FROM batches
		ORDER BY seq ASC
	`)
}

// ReadGraph lists the batches of one graph in append order.
func (a *Archive) ReadGraph(ctx context.Context, graphID domain.GraphID) ([]Batch, error) {
	return a.queryBatches(ctx, `
		SELECT seq, id, graph_id, source, op_count, digest, created_at
		FROM batches
		WHERE graph_id = ?
		ORDER BY seq ASC
	`, string(graphID))
}

func (a *Archive) queryBatches(ctx context.Context, query string, args ...any) ([]Batch, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		var b Batch
		var gid string
		if err := rows.Scan(&b.Seq, &b.ID, &gid, &b.Source, &b.OpCount, &b.Digest, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.GraphID = domain.GraphID(gid)
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}

// Logs returns every batch as a GraphLog, in append order. Each batch's
// operations are checked against its stored digest.
func (a *Archive) Logs(ctx context.Context) ([]domain.GraphLog, error) {
	batches, err := a.Batches(ctx)
	if err != nil {
		return nil, err
	}

	logs := make([]domain.GraphLog, 0, len(batches))
	for _, b := range batches {
		log, err := a.readBatch(ctx, b)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func (a *Archive) readBatch(ctx context.Context, b Batch) (domain.GraphLog, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT idx, body FROM operations
		WHERE batch_id = ?
		ORDER BY idx ASC
	`, b.ID)
	if err != nil {
		return domain.GraphLog{}, fmt.Errorf("read batch %s: %w", b.ID, err)
	}
	defer rows.Close()

	var bodies [][]byte
	log := domain.GraphLog{GraphID: b.GraphID, Ops: make([]domain.Operation, 0, b.OpCount)}
	for rows.Next() {
		var idx int
		var blob []byte
		if err := rows.Scan(&idx, &blob); err != nil {
			return domain.GraphLog{}, fmt.Errorf("read batch %s: %w", b.ID, err)
		}
		body, err := decompress(blob)
		if err != nil {
			return domain.GraphLog{}, fmt.Errorf("read batch %s op %d: %w", b.ID, idx, err)
		}
		op, err := wire.DecodeOp(body, fmt.Sprintf("batches.%s.ops.%d", b.ID, idx))
		if err != nil {
			return domain.GraphLog{}, err
		}
		bodies = append(bodies, body)
		log.Ops = append(log.Ops, op)
	}
	if err := rows.Err(); err != nil {
		return domain.GraphLog{}, fmt.Errorf("read batch %s: %w", b.ID, err)
	}

	if got := domain.BatchDigest(b.GraphID, bodies); got != b.Digest {
		return domain.GraphLog{}, fmt.Errorf("batch %s: %w", b.ID, ErrDigestMismatch)
	}
	return log, nil
}

// Count returns the number of archived operations.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n sql.NullInt64
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	return int(n.Int64), nil
}

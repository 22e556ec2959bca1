package oplog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/replay"
	"github.com/roach88/decisiongraph/internal/testutil"
)

func openTemp(t *testing.T) (*Archive, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oplog.db")
	a, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, path
}

func sampleLogs() []domain.GraphLog {
	n := testutil.Node("N:1")
	n.Payload = json.RawMessage(`{"statement":"Archive every batch","tags":["a","b"]}`)
	return []domain.GraphLog{
		{GraphID: "G:a", Ops: []domain.Operation{
			domain.AddNodeOp{Node: n},
			domain.AddNodeOp{Node: testutil.Node("N:2")},
			domain.AddEdgeOp{Edge: testutil.DependsOn("E:1", "N:1", "N:2")},
			testutil.Commit("C:1"),
		}},
		{GraphID: "G:b", Ops: []domain.Operation{
			domain.AddNodeOp{Node: testutil.Node("N:3")},
			domain.SupersedeEdgeOp{OldEdgeID: "E:1", NewEdge: testutil.DependsOn("E:2", "N:3", "N:1")},
		}},
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	_, path := openTemp(t)

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	a, path := openTemp(t)
	_, err := a.Append(context.Background(), sampleLogs()[0], "first")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()

	v, err := b.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, v)

	n, err := b.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestAppend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a, _ := openTemp(t)

	for _, l := range sampleLogs() {
		_, err := a.Append(ctx, l, "test")
		require.NoError(t, err)
	}

	logs, err := a.Logs(ctx)
	require.NoError(t, err)

	// Payloads come back canonical, which the sample already is.
	if d := cmp.Diff(sampleLogs(), logs); d != "" {
		t.Errorf("Logs() mismatch (-want +got):\n%s", d)
	}
}

func TestAppend_ReplayMatchesDirect(t *testing.T) {
	ctx := context.Background()
	a, _ := openTemp(t)
	for _, l := range sampleLogs() {
		_, err := a.Append(ctx, l, "")
		require.NoError(t, err)
	}

	logs, err := a.Logs(ctx)
	require.NoError(t, err)

	want, err := domain.StoreDigest(replay.Replay(sampleLogs(), nil))
	require.NoError(t, err)
	got, err := domain.StoreDigest(replay.Replay(logs, nil))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBatches_OrderAndMetadata(t *testing.T) {
	ctx := context.Background()
	a, _ := openTemp(t)

	var ids []string
	for _, l := range sampleLogs() {
		id, err := a.Append(ctx, l, "file.json")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	batches, err := a.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	for i, b := range batches {
		assert.Equal(t, ids[i], b.ID)
		parsed, err := uuid.Parse(b.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.Equal(t, "file.json", b.Source)
		assert.Len(t, b.Digest, 64)
	}
	assert.Less(t, batches[0].Seq, batches[1].Seq)
	assert.Equal(t, 4, batches[0].OpCount)
	assert.Equal(t, domain.GraphID("G:b"), batches[1].GraphID)

	onlyB, err := a.ReadGraph(ctx, "G:b")
	require.NoError(t, err)
	require.Len(t, onlyB, 1)
	assert.Equal(t, ids[1], onlyB[0].ID)
}

func TestLogs_DetectsTampering(t *testing.T) {
	ctx := context.Background()
	a, _ := openTemp(t)
	id, err := a.Append(ctx, sampleLogs()[0], "")
	require.NoError(t, err)

	forged := compress([]byte(`{"author":"mallory","commitId":"C:1","createdAt":"2026-01-01T00:00:00Z","type":"commit"}`))
	_, err = a.db.ExecContext(ctx, `UPDATE operations SET body = ? WHERE batch_id = ? AND idx = 3`, forged, id)
	require.NoError(t, err)

	_, err = a.Logs(ctx)
	assert.True(t, errors.Is(err, ErrDigestMismatch), "got %v", err)
}

func TestAppend_RejectsUnknownOperation(t *testing.T) {
	a, _ := openTemp(t)

	_, err := a.Append(context.Background(), domain.GraphLog{GraphID: "G:a", Ops: []domain.Operation{nil}}, "")
	assert.Error(t, err)

	n, err := a.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCodec_RoundTrip(t *testing.T) {
	body := []byte(`{"type":"commit","commitId":"C:1"}`)
	out, err := decompress(compress(body))
	require.NoError(t, err)
	assert.Equal(t, body, out)

	_, err = decompress([]byte("not zstd"))
	assert.Error(t, err)
}

func TestLogs_EmptyArchive(t *testing.T) {
	a, _ := openTemp(t)
	logs, err := a.Logs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

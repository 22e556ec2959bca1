package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/oplog"
)

func TestImportCommand_Text(t *testing.T) {
	db := filepath.Join(t.TempDir(), "decisions.db")

	stdout, _, err := execute(t, NewImportCommand(testOptions("text")), validDir, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "✓ Imported 2 batch(es), 6 operation(s) into "+db+"\n", stdout)

	a, err := oplog.Open(db)
	require.NoError(t, err)
	defer a.Close()

	batches, err := a.Batches(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, domain.GraphID("G:auth"), batches[0].GraphID)
	assert.Equal(t, authLog, batches[0].Source)
	assert.Equal(t, 4, batches[0].OpCount)
}

func TestImportCommand_JSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "decisions.db")

	stdout, _, err := execute(t, NewImportCommand(testOptions("json")), rejectedDir, "--db", db)
	require.NoError(t, err)

	var result ImportResult
	decodeResponse(t, stdout, &result)
	require.Len(t, result.Batches, 1)
	assert.Equal(t, rejectedLog, result.Batches[0].File)
	assert.Equal(t, domain.GraphID("G:dup"), result.Batches[0].GraphID)
	assert.Equal(t, 2, result.Batches[0].Ops, "rejected operations are archived too")
	assert.NotEmpty(t, result.Batches[0].ID)
}

func TestImportCommand_AppendsAcrossRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "decisions.db")

	_, _, err := execute(t, NewImportCommand(testOptions("text")), authLog, "--db", db)
	require.NoError(t, err)
	_, _, err = execute(t, NewImportCommand(testOptions("text")), billingLog, "--db", db)
	require.NoError(t, err)

	a, err := oplog.Open(db)
	require.NoError(t, err)
	defer a.Close()

	count, err := a.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestImportCommand_InvalidDocumentImportsNothing(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, authLog, dir)
	copyFile(t, invalidLog, dir)
	db := filepath.Join(t.TempDir(), "decisions.db")

	_, _, err := execute(t, NewImportCommand(testOptions("text")), dir, "--db", db)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.NoFileExists(t, db)
}

func TestImportCommand_NoArchive(t *testing.T) {
	stdout, _, err := execute(t, NewImportCommand(testOptions("text")), validDir)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "no archive")
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/decisiongraph/internal/config"
)

// testOptions returns root options as the root command would leave them,
// with colors off so text output can be matched.
func testOptions(format string) *RootOptions {
	cfg := config.Defaults()
	cfg.Color = config.ColorNever
	return &RootOptions{Format: format, Config: cfg, loaded: true}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// rawResponse is CLIResponse with the payload left undecoded.
type rawResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

func decodeResponse(t *testing.T, out string, data any) rawResponse {
	t.Helper()
	var resp rawResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func copyFile(t *testing.T, src, dir string) string {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	return writeFile(t, dir, filepath.Base(src), string(data))
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

const (
	validDir     = "testdata/valid"
	authLog      = "testdata/valid/auth.decisionlog.json"
	billingLog   = "testdata/valid/billing.decisionlog.json"
	warnDir      = "testdata/warn"
	rejectedDir  = "testdata/rejected"
	rejectedLog  = "testdata/rejected/dup.decisionlog.json"
	invalidLog   = "testdata/invalid/bad.decisionlog.json"
	supersededOn = `{
  "version": "0.3",
  "graphId": "G:s",
  "ops": [
    {"type": "add_node", "node": {"id": "S:1", "kind": "decision", "status": "Active", "createdAt": "2026-05-01T00:00:00Z", "author": "A:x"}},
    {"type": "add_node", "node": {"id": "S:2", "kind": "decision", "status": "Superseded", "createdAt": "2026-05-01T00:00:01Z", "author": "A:x"}},
    {"type": "add_edge", "edge": {"id": "E:S1", "type": "depends_on", "from": "S:1", "to": "S:2", "status": "Active", "createdAt": "2026-05-01T00:00:02Z", "author": "A:x"}}
  ]
}`
)

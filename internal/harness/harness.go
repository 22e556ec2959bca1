package harness

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/decisiongraph/internal/config"
	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/kernel"
	"github.com/roach88/decisiongraph/internal/policy"
	"github.com/roach88/decisiongraph/internal/testutil"
	"github.com/roach88/decisiongraph/internal/wire"
)

// Harness is the test execution engine.
// It stamps missing timestamps from a deterministic clock.
type Harness struct {
	clock  *testutil.DeterministicClock
	policy policy.Policy
}

// Run executes a test scenario and returns the result.
//
// Every scenario starts from an empty store. Execution flow:
//  1. Decode all logs (inline ops or files); any decode error aborts
//  2. Apply the logs in order through the kernel
//  3. Lint the final store
//  4. Evaluate assertions
//
// An error is returned only when the scenario cannot run; failed
// assertions are reported on the Result.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{clock: testutil.NewDeterministicClock()}
	if scenario.Policy != nil {
		cfg := config.Defaults()
		cfg.Policy = *scenario.Policy
		h.policy = cfg.CallerPolicy()
	}

	logs, err := h.loadLogs(scenario.Logs)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	applied := kernel.ApplyLogs(result.Store, logs, h.policy)
	result.Store = applied.Store

	i := 0
	for _, l := range logs {
		for range l.Ops {
			result.AddEvent(l.GraphID, applied.Events[i])
			i++
		}
	}

	result.Lint = kernel.Lint(result.Store, h.policy)

	for _, assertion := range scenario.Assertions {
		if err := evaluate(result, assertion); err != nil {
			result.AddError(err.Error())
		}
	}

	slog.Debug("scenario finished",
		"scenario", scenario.Name,
		"ops", len(result.Trace),
		"pass", result.Pass,
	)
	return result, nil
}

func (h *Harness) loadLogs(steps []LogStep) ([]domain.GraphLog, error) {
	logs := make([]domain.GraphLog, 0, len(steps))
	for i, step := range steps {
		if step.File != "" {
			data, err := os.ReadFile(step.File)
			if err != nil {
				return nil, fmt.Errorf("logs[%d]: %w", i, err)
			}
			l, err := wire.Decode(data)
			if err != nil {
				return nil, fmt.Errorf("logs[%d]: %s: %w", i, step.File, err)
			}
			logs = append(logs, l)
			continue
		}

		gid := domain.DefaultGraphID
		if step.Graph != "" {
			gid = domain.GraphID(step.Graph)
		}
		ops := make([]domain.Operation, 0, len(step.Ops))
		for j, raw := range step.Ops {
			h.stamp(raw)
			data, err := json.Marshal(raw)
			if err != nil {
				return nil, fmt.Errorf("logs[%d].ops[%d]: %w", i, j, err)
			}
			op, err := wire.DecodeOp(data, fmt.Sprintf("logs.%d.ops.%d", i, j))
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		logs = append(logs, domain.GraphLog{GraphID: gid, Ops: ops})
	}
	return logs, nil
}

// stamp fills a missing createdAt on the entity op carries.
func (h *Harness) stamp(op map[string]any) {
	target := op
	switch domain.OpType(fmt.Sprint(op["type"])) {
	case domain.OpAddNode:
		target, _ = op["node"].(map[string]any)
	case domain.OpAddEdge:
		target, _ = op["edge"].(map[string]any)
	case domain.OpSupersedeEdge:
		target, _ = op["newEdge"].(map[string]any)
	}
	if target == nil {
		return
	}
	if _, ok := target["createdAt"]; !ok {
		target["createdAt"] = h.clock.Next()
	}
}

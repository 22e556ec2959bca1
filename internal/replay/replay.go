// Package replay rebuilds stores from operation logs.
package replay

import (
	"errors"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/kernel"
	"github.com/roach88/decisiongraph/internal/policy"
)

// ErrCommitNotFound is returned by ReplayAt when no applied commit in the
// logs carries the requested id. The fully replayed store is returned
// alongside it.
var ErrCommitNotFound = errors.New("commit not found in logs")

// Replay applies logs in order to an empty store and returns the result.
// Identical logs always produce identical stores.
func Replay(logs []domain.GraphLog, p policy.Policy) domain.Store {
	return kernel.ApplyLogs(domain.EmptyStore(), logs, p).Store
}

// ReplayAt replays operation by operation and stops right after the first
// applied commit whose id is commitID, even in the middle of a log.
// A rejected commit with that id does not stop the replay.
func ReplayAt(logs []domain.GraphLog, commitID domain.CommitID, p policy.Policy) (domain.Store, error) {
	s := domain.EmptyStore()
	for _, l := range logs {
		for _, op := range l.Ops {
			r := kernel.Apply(s, l.GraphID, op, p)
			s = r.Store

			c, ok := op.(domain.CommitOp)
			if ok && c.CommitID == commitID && r.Events[0].Type == kernel.EventApplied {
				return s, nil
			}
		}
	}
	return s, ErrCommitNotFound
}

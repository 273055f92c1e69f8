package ledger

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fileshare/internal/client/tracker"
	"github.com/dmitrijs2005/fileshare/internal/logging"
)

const defaultWriteTimeout = 5 * time.Second

// Journal writes every published snapshot of tracked files to a Repository.
// Write failures are logged; the transfer that caused them has already
// succeeded.
type Journal struct {
	repo    Repository
	logger  logging.Logger
	timeout time.Duration
}

func NewJournal(repo Repository, logger logging.Logger) *Journal {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Journal{repo: repo, logger: logger, timeout: defaultWriteTimeout}
}

// FilesChanged implements client.Listener.
func (j *Journal) FilesChanged(files []tracker.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.repo.Replace(ctx, files); err != nil {
		j.logger.Error(ctx, "ledger write failed", "error", err, "records", len(files))
		return
	}
	j.logger.Debug(ctx, "ledger updated", "records", len(files))
}

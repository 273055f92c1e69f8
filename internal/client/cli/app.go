package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/fileshare/internal/client/client"
	"github.com/dmitrijs2005/fileshare/internal/client/config"
	"github.com/dmitrijs2005/fileshare/internal/client/ledger"
	"github.com/dmitrijs2005/fileshare/internal/client/protocol"
	"github.com/dmitrijs2005/fileshare/internal/client/tracker"
	"github.com/dmitrijs2005/fileshare/internal/client/transport"
	"github.com/dmitrijs2005/fileshare/internal/client/validation"
	"github.com/dmitrijs2005/fileshare/internal/logging"
)

// transfers is the part of *client.Client the commands use.
type transfers interface {
	Upload(ctx context.Context, path, endpoint string) (tracker.Record, error)
	FetchMetadata(ctx context.Context, id int64, endpoint string) (protocol.FileMetadata, error)
	Download(ctx context.Context, id int64, endpoint string) (protocol.DownloadedFile, error)
	Delete(ctx context.Context, id int64, endpoint string) error
	LookupID(displayText string) (int64, bool)
	Files() []tracker.Record
	Count() int
	Notify()
	UploadedBytes() int64
	ResetSession()
}

type App struct {
	config   *config.Config
	files    transfers
	logger   logging.Logger
	endpoint string
	reader   *bufio.Reader
	out      io.Writer
	db       *sql.DB
}

// NewApp builds the client stack described by cfg. When cfg.LedgerPath is
// set, files uploaded in earlier runs are restored and every change is
// journaled.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	a := &App{
		config:   cfg,
		logger:   logger,
		endpoint: cfg.Endpoint,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	c := client.New(
		transport.NewHTTP(cfg.RequestTimeout, logger),
		client.WithLogger(logger),
		client.WithValidator(validation.New(validation.Options{RollbackRejected: cfg.RollbackRejected})),
	)

	if cfg.LedgerPath != "" {
		db, err := ledger.Open(ctx, cfg.LedgerPath)
		if err != nil {
			return nil, err
		}
		store := ledger.NewStore(db)
		records, err := store.Load(ctx)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("load ledger: %w", err)
		}
		c.Restore(records)
		c.Subscribe(ledger.NewJournal(store, logger))
		a.db = db
		logger.Info(ctx, "ledger loaded", "path", cfg.LedgerPath, "records", len(records))
	}

	c.Subscribe(client.ListenerFunc(a.showFiles))
	a.files = c

	return a, nil
}

// Run starts the REPL on stdin and releases resources when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the ledger database, if any.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) showFiles(files []tracker.Record) {
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files uploaded")
		return
	}
	fmt.Fprintln(a.out, "Files:")
	for i, f := range files {
		fmt.Fprintf(a.out, "  %d. %s  (#%d)\n", i+1, f.DisplayText, f.ID)
	}
}

package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fileshare/internal/client/tracker"
	"github.com/dmitrijs2005/fileshare/internal/dbx"
)

// Repository persists the ordered list of tracked uploads.
type Repository interface {
	// Load returns the stored records in their original order.
	Load(ctx context.Context) ([]tracker.Record, error)
	// Replace stores records as the complete list, atomically.
	Replace(ctx context.Context, records []tracker.Record) error
}

// Store is the SQLite Repository.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Load(ctx context.Context) ([]tracker.Record, error) {
	return loadRecords(ctx, s.db)
}

func (s *Store) Replace(ctx context.Context, records []tracker.Record) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := clearRecords(ctx, tx); err != nil {
			return err
		}
		for i, r := range records {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO uploads (id, position, display_text) VALUES (?, ?, ?)`,
				r.ID, i, r.DisplayText,
			); err != nil {
				return fmt.Errorf("failed to insert upload %d: %w", r.ID, err)
			}
		}
		return nil
	})
}

func loadRecords(ctx context.Context, db dbx.DBTX) ([]tracker.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, display_text FROM uploads ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var result []tracker.Record
	for rows.Next() {
		var r tracker.Record
		if err := rows.Scan(&r.ID, &r.DisplayText); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upload rows: %w", err)
	}

	return result, nil
}

func clearRecords(ctx context.Context, db dbx.DBTX) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM uploads`); err != nil {
		return fmt.Errorf("failed to clear uploads: %w", err)
	}
	return nil
}

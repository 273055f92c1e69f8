// Package ledger keeps a local SQLite journal of the files a client has
// uploaded, so the list survives restarts.
//
// The schema is owned by goose migrations embedded in
// internal/client/migrations. Store persists ordered snapshots of tracked
// files; Journal plugs a Store into the client's change notifications.
//
// Typical usage:
//
//	db, err := ledger.Open(ctx, "uploads.db")
//	store := ledger.NewStore(db)
//	records, _ := store.Load(ctx)
//	c.Restore(records)
//	c.Subscribe(ledger.NewJournal(store, logger))
package ledger

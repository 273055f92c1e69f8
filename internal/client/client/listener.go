package client

import "github.com/dmitrijs2005/fileshare/internal/client/tracker"

// Listener is notified with the ordered list of tracked files whenever it
// changes.
type Listener interface {
	FilesChanged(files []tracker.Record)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(files []tracker.Record)

func (f ListenerFunc) FilesChanged(files []tracker.Record) { f(files) }

// ChanListener publishes snapshots to a channel. A snapshot is dropped when
// the channel is full, so a slow reader never stalls a transfer.
type ChanListener chan []tracker.Record

func (c ChanListener) FilesChanged(files []tracker.Record) {
	select {
	case c <- files:
	default:
	}
}

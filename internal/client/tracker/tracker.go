// Package tracker keeps the client's list of uploaded files: an
// insertion-ordered mapping from server-assigned identifier to display text.
//
// The presentation layer lists files in upload order, so iteration order is
// part of the contract. A Tracker is not safe for concurrent use.
package tracker

// Record is one tracked upload.
type Record struct {
	ID          int64
	DisplayText string
}

// Tracker is an insertion-ordered id → display text map.
type Tracker struct {
	order []int64
	texts map[int64]string
}

func New() *Tracker {
	return &Tracker{texts: make(map[int64]string)}
}

// Register adds id. Registering a known id replaces its text and keeps its
// position.
func (t *Tracker) Register(id int64, displayText string) {
	if _, ok := t.texts[id]; !ok {
		t.order = append(t.order, id)
	}
	t.texts[id] = displayText
}

// Remove drops id. Unknown ids are ignored.
func (t *Tracker) Remove(id int64) {
	if _, ok := t.texts[id]; !ok {
		return
	}
	delete(t.texts, id)

	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Get returns the display text for id.
func (t *Tracker) Get(id int64) (string, bool) {
	text, ok := t.texts[id]
	return text, ok
}

// LookupIDByDisplayText returns the first id, in insertion order, whose text
// equals displayText.
func (t *Tracker) LookupIDByDisplayText(displayText string) (int64, bool) {
	for _, id := range t.order {
		if t.texts[id] == displayText {
			return id, true
		}
	}
	return 0, false
}

// Snapshot returns a copy of all records in insertion order.
func (t *Tracker) Snapshot() []Record {
	out := make([]Record, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Record{ID: id, DisplayText: t.texts[id]})
	}
	return out
}

func (t *Tracker) Len() int { return len(t.order) }

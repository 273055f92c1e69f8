package client

// Op names a transfer operation.
type Op string

const (
	OpUpload   Op = "upload"
	OpMetadata Op = "metadata"
	OpDownload Op = "download"
	OpDelete   Op = "delete"
)

// State is a step of an operation.
type State uint8

const (
	StateIdle State = iota
	StateValidating
	StateEncoding
	StateAwaitingResponse
	StateDecoding
	// StateUpdated ends a successful operation. For Upload and Delete the
	// tracker changed and listeners were notified.
	StateUpdated
	// StateFailed ends an operation that returned an error. Nothing but the
	// validator's running total may have changed.
	StateFailed
)

var stateNames = [...]string{
	StateIdle:             "idle",
	StateValidating:       "validating",
	StateEncoding:         "encoding",
	StateAwaitingResponse: "awaiting_response",
	StateDecoding:         "decoding",
	StateUpdated:          "updated",
	StateFailed:           "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether s ends an operation.
func (s State) Terminal() bool {
	return s == StateUpdated || s == StateFailed
}

// StateHook observes state transitions.
type StateHook func(op Op, s State)

// Package client is the transfer orchestrator of the file-sharing client.
//
// # Overview
//
// Client sequences every remote operation as validate → encode → transmit →
// decode → update state:
//
//   - Upload: validation, prefixed name, multipart POST, FileId, then a
//     metadata query whose answer becomes the tracked display text.
//   - FetchMetadata: HEAD {endpoint}{id}.
//   - Download: GET {endpoint}{id}; the tracker is left untouched.
//   - Delete: DELETE {endpoint}{id}; the record is dropped on success.
//
// It is the only component that talks to the transport (transport.Doer).
//
// # Notifications
//
// Listeners registered with Subscribe receive an ordered snapshot of tracked
// files after every change. They run synchronously while the Client is
// locked and must not call back into it. ChanListener forwards snapshots to
// a channel without blocking.
//
// # State machine
//
// Each operation walks Idle → Validating (upload only) → Encoding →
// AwaitingResponse → Decoding and ends in Updated or Failed. There is no
// retry: a failure is terminal for that call. WithStateHook observes the
// transitions.
//
// # Concurrency
//
// One operation is in flight per Client at a time; concurrent calls queue on
// an internal mutex. The validator's running total and the tracker are owned
// by the Client.
//
// # Errors
//
// Validation failures are *validation.Error, non-success statuses are
// *protocol.StatusError, malformed responses are *protocol.ProtocolError.
// Transport errors are wrapped and returned. Nothing is retried or
// swallowed. Lookups report absence with a boolean, not an error.
package client

package session

import "errors"

// ErrStorageUnavailable is returned by Start when the session directory or
// log file cannot be created. Fatal to starting a session; no partial state
// is left behind.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// ErrWriteFailed is returned by Record when a single append failed after the
// one reopen-and-retry. The event is dropped; the session stays open.
var ErrWriteFailed = errors.New("event write failed")

// ErrSnapshotFailed is returned by Finalize when the snapshot callback
// failed. Non-fatal: the session log itself is unaffected.
var ErrSnapshotFailed = errors.New("snapshot failed")

// ErrAlreadyStarted is returned by Start on a recorder that has already
// opened (or closed) its log. A brand-new Recorder is required per session.
var ErrAlreadyStarted = errors.New("session already started")

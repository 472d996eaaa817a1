package voice

import "context"

// Track is one live capture resource. Every acquired track must be stopped on
// every recorder exit path.
type Track interface {
	Stop()
}

// Stream is an open microphone capture producing a single encoded audio blob.
type Stream interface {
	Tracks() []Track
	// Data returns the audio encoded so far; called once when the recording
	// is finalized.
	Data() []byte
	// MIMEType reports the encoding of Data, e.g. "audio/webm".
	MIMEType() string
}

// Device abstracts the platform capture API: a permission prompt and stream
// acquisition.
type Device interface {
	// RequestPermission prompts the user. It returns false when the user
	// denies access; an error means the prompt itself failed.
	RequestPermission(ctx context.Context) (bool, error)
	Open(ctx context.Context) (Stream, error)
}

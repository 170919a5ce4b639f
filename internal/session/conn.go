package session

// Conn is the transport-side handle for one connected client. The session
// layer never dials or accepts; it only sends through handles it is given
// and closes them when a finished room is torn down.
type Conn interface {
	// ID returns a stable identifier for the lifetime of the connection.
	ID() string

	// Send delivers one outbound message to the client.
	Send(message any) error

	// IsOpen reports whether the underlying transport is still usable.
	// Sending to a closed handle is skipped, never treated as an error.
	IsOpen() bool

	// Close terminates the transport with a normal closure.
	Close() error
}

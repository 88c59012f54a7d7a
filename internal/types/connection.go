package types

// ConnectionState describes the lifecycle of one live feed session.
//
// Transitions are monotonic per session:
// connecting -> {connected, error}; connected -> disconnected; any state may
// transition to disconnected on explicit teardown. The error state is sticky
// until a reconnect is requested from outside.
type ConnectionState string

const (
	ConnectionStateDisconnected ConnectionState = "disconnected"
	ConnectionStateConnecting   ConnectionState = "connecting"
	ConnectionStateConnected    ConnectionState = "connected"
	ConnectionStateError        ConnectionState = "error"
)

// IsTerminal reports whether the state ends the current connection attempt.
func (s ConnectionState) IsTerminal() bool {
	return s == ConnectionStateDisconnected || s == ConnectionStateError
}

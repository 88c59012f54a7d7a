package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation and configuration errors (100-199)
	ErrCodeInvalidParameter       ErrorCode = 100
	ErrCodeInvalidConfiguration   ErrorCode = 101
	ErrCodeEndpointNotConfigured  ErrorCode = 102
	ErrCodeInvalidTimeframe       ErrorCode = 103
	ErrCodeMissingParameter       ErrorCode = 104

	// Connection errors (200-299)
	ErrCodeDialFailed       ErrorCode = 200
	ErrCodeConnectTimeout   ErrorCode = 201
	ErrCodeTransportClosed  ErrorCode = 202
	ErrCodeNotConnected     ErrorCode = 203
	ErrCodeAlreadyConnected ErrorCode = 204
	ErrCodeSubscribeFailed  ErrorCode = 205

	// Frame errors (300-399)
	ErrCodeFrameDecodeFailed ErrorCode = 300
	ErrCodeServerError       ErrorCode = 302

	// Chart synchronization errors (400-499)
	ErrCodeSeriesNotLoaded  ErrorCode = 400
	ErrCodeNonMonotonicTime ErrorCode = 401
	ErrCodePaneNotCreated   ErrorCode = 403
	ErrCodeLineRemoveFailed ErrorCode = 404

	// History provider errors (500-599)
	ErrCodeHistoryFetchFailed ErrorCode = 500
	ErrCodeHistoryParseFailed ErrorCode = 501
	ErrCodeInvalidProvider    ErrorCode = 502
)

package stream

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// DefaultGraceTimeout is how long a connection attempt may stay unresolved
// before it is declared failed and polling fallback is advised.
const DefaultGraceTimeout = 5 * time.Second

// Config configures the live feed clients.
//
// EndpointURL and StreamURL may be empty: a missing endpoint is surfaced as an
// immediate error state on connect, before any transport attempt, so the
// embedding application can fall back to polling.
type Config struct {
	// EndpointURL is the websocket endpoint of the live feed.
	EndpointURL string `json:"endpointUrl" jsonschema:"title=Endpoint URL,description=WebSocket endpoint of the live feed" validate:"omitempty,uri"`
	// StreamURL is the base URL of the unidirectional server-push stream.
	StreamURL string `json:"streamUrl" jsonschema:"title=Stream URL,description=Server-push (SSE) endpoint of the live feed" validate:"omitempty,uri"`
	// APIKey is appended as a query parameter to the server-push stream.
	APIKey string `json:"apiKey,omitempty" jsonschema:"title=API Key,description=Credential appended to the server-push stream URL" keychain:"true"`
	// GraceTimeout bounds how long a connection attempt may remain in the
	// connecting state. Zero means DefaultGraceTimeout.
	GraceTimeout time.Duration `json:"graceTimeout,omitempty" jsonschema:"title=Grace Timeout,description=Connection grace period in nanoseconds"`
}

// Validate validates the config fields.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// graceTimeout returns the configured grace period, defaulted.
func (c *Config) graceTimeout() time.Duration {
	if c.GraceTimeout <= 0 {
		return DefaultGraceTimeout
	}

	return c.GraceTimeout
}

// ParseConfig parses JSON into a Config.
func ParseConfig(jsonConfig string) (*Config, error) {
	var config Config
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ToJSONSchema converts a struct to a JSON schema
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// GetConfigSchema returns the JSON schema for the feed configuration.
func GetConfigSchema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return ToJSONSchema(Config{})
}

// GetKeychainFields returns the JSON names of fields tagged as credentials.
func GetKeychainFields[T any](t T) []string {
	var fields []string

	structType := reflect.TypeOf(t)
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Tag.Get("keychain") != "true" {
			continue
		}

		name := field.Tag.Get("json")
		if idx := len(name); idx > 0 {
			// strip ",omitempty" and friends
			for j := 0; j < len(name); j++ {
				if name[j] == ',' {
					name = name[:j]

					break
				}
			}
		}

		if name == "" {
			name = field.Name
		}

		fields = append(fields, name)
	}

	return fields
}

// SubscriptionRequest is the outbound subscription frame, sent once on open
// and again on each subscription change.
type SubscriptionRequest struct {
	Symbol    string `json:"symbol" validate:"required"`
	Timeframe string `json:"timeframe,omitempty"`
}

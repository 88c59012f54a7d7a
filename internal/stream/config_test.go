package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig(`{
		"endpointUrl": "ws://localhost:8000/ws/market",
		"streamUrl": "http://localhost:8000/stream",
		"apiKey": "abc123",
		"graceTimeout": 5000000000
	}`)
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8000/ws/market", config.EndpointURL)
	assert.Equal(t, "abc123", config.APIKey)
	assert.Equal(t, 5*time.Second, config.GraceTimeout)
}

func TestParseConfigRejectsMalformedJSON(t *testing.T) {
	_, err := ParseConfig(`{"endpointUrl": `)
	require.Error(t, err)
}

func TestParseConfigRejectsBadURL(t *testing.T) {
	_, err := ParseConfig(`{"endpointUrl": "not a url at all"}`)
	require.Error(t, err)
}

func TestConfigAllowsEmptyEndpoints(t *testing.T) {
	// Missing endpoints are a connect-time error, not a config error.
	config, err := ParseConfig(`{}`)
	require.NoError(t, err)
	assert.Empty(t, config.EndpointURL)
	assert.Equal(t, DefaultGraceTimeout, config.graceTimeout())
}

func TestGetConfigSchema(t *testing.T) {
	schema, err := GetConfigSchema()
	require.NoError(t, err)
	assert.Contains(t, schema, "endpointUrl")
	assert.Contains(t, schema, "apiKey")
}

func TestGetKeychainFields(t *testing.T) {
	//nolint:exhaustruct // field introspection only
	fields := GetKeychainFields(Config{})
	assert.Equal(t, []string{"apiKey"}, fields)
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_FirstCallWins(t *testing.T) {
	t.Cleanup(Reset)
	var first, second bytes.Buffer

	Init(Options{Level: "debug", Output: &first, Service: "senbank"})
	Init(Options{Level: "error", Output: &second})

	l := Component("auth")
	l.Info().Msg("hello")

	assert.Zero(t, second.Len())
	var line map[string]any
	require.NoError(t, json.Unmarshal(first.Bytes(), &line))
	assert.Equal(t, "senbank", line["service"])
	assert.Equal(t, "auth", line["component"])
	assert.Equal(t, "hello", line["message"])
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	assert.Panics(t, func() { Get() })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("TRACE"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/pkg/logger"
)

func TestNew_JSONWithServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "WARN", Output: &buf})

	log.Component("payouts").Info().Msg("no se escribe")
	log.Component("payouts").Warn().Str("supplier_id", "sup-1").Msg("aviso fallido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "warenwelt-api", entry["service"])
	assert.Equal(t, "payouts", entry["component"])
	assert.Equal(t, "sup-1", entry["supplier_id"])
}

func TestComponent_NilLogger(t *testing.T) {
	var log *logger.Logger
	assert.NotPanics(t, func() { log.Component("x").Error().Msg("descartado") })
}

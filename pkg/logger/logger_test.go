package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/pkg/logger"
)

func TestNew_JSONConServicioYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "wms-api", Output: &buf})

	l.Info().Msg("descartado")
	l.Warn().Str("product_id", "p1").Msg("stock bajo")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev), "solo debe haber un evento")
	assert.Equal(t, "warn", ev["level"])
	assert.Equal(t, "wms-api", ev["service"])
	assert.Equal(t, "p1", ev["product_id"])
}

func TestNew_RedirigeLoggerGlobal(t *testing.T) {
	var buf bytes.Buffer
	logger.New(logger.Config{Env: "production", Level: "nivel-raro", Output: &buf})

	log.Info().Msg("desde el global")
	assert.Contains(t, buf.String(), "desde el global", "un nivel desconocido cae a info")
}

package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONCarriesServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json"}, &buf)
	logger.Info("boot")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shipline", entry["service"])
	assert.Equal(t, "boot", entry["msg"])
	assert.Contains(t, entry, "source")
}

func TestNewLoggerDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "text"}, &buf)
	logger.Info("boot")

	assert.Contains(t, buf.String(), "service=shipline")
	assert.Contains(t, buf.String(), "msg=boot")
}

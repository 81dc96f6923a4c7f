package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackbox-log/decoder/internal/config"
	"github.com/blackbox-log/decoder/internal/sink"
)

func TestSplitFilter(t *testing.T) {
	assert.Equal(t, []string{"vbat", "motor"}, splitFilter("vbat,motor"))
	assert.Nil(t, splitFilter(""))
	assert.Equal(t, []string{"vbat"}, splitFilter("vbat,,"))
}

func TestOpenSinkDefaultsToStdout(t *testing.T) {
	s, err := openSink("", nil)
	require.NoError(t, err)
	assert.IsType(t, stdoutSink{}, s)

	s, err = openSink("stdout", nil)
	require.NoError(t, err)
	assert.IsType(t, stdoutSink{}, s)
}

func TestOpenSinkRejectsClickhouseWithoutConfig(t *testing.T) {
	_, err := openSink("clickhouse", nil)
	assert.Error(t, err)
}

func TestOpenSinkRejectsInfluxWithoutConfig(t *testing.T) {
	_, err := openSink("influx", nil)
	assert.Error(t, err)
}

func TestOpenSinkRejectsUnknownMode(t *testing.T) {
	_, err := openSink("carrier-pigeon", nil)
	assert.Error(t, err)
}

func TestOpenSinkClickhouseRequiresConfigNotNilOnly(t *testing.T) {
	cfg := &config.SinkConfig{}
	cfg.ClickHouse.DSN = "tcp://127.0.0.1:19999"
	cfg.ClickHouse.Table = "frames"
	s, err := openSink("clickhouse", cfg)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestStdoutSinkWritesOneJSONLinePerRow(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	row := sink.Row{Kind: "main", Fields: map[string]float64{"vbat": 126}}
	require.NoError(t, stdoutSink{}.Write(row))
	w.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)

	var got sink.Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "main", got.Kind)
	assert.Equal(t, float64(126), got.Fields["vbat"])
}

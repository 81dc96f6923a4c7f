package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchOptFindsAndMisses(t *testing.T) {
	opt := SearchOpt("run-filter", RunOpts)
	require.NotNil(t, opt)
	assert.Equal(t, "run-filter", opt.Name)

	assert.Nil(t, SearchOpt("no-such-option", RunOpts))
}

func TestOptStr2OptInt(t *testing.T) {
	var v int
	opt := &Opt{Name: "x", Format: 0, VarInt: &v}
	require.True(t, opt.Str2Opt("7"))
	assert.Equal(t, 7, v)
	assert.False(t, opt.Str2Opt("not-a-number"))
}

func TestOptStr2OptFloat(t *testing.T) {
	var v float64
	opt := &Opt{Name: "x", Format: 1, VarFloat: &v}
	require.True(t, opt.Str2Opt("3.5"))
	assert.InDelta(t, 3.5, v, 1e-9)
}

func TestOptStr2OptString(t *testing.T) {
	var v string
	opt := &Opt{Name: "x", Format: 2, VarString: &v}
	require.True(t, opt.Str2Opt("hello"))
	assert.Equal(t, "hello", v)
}

func TestOptStr2OptEnum(t *testing.T) {
	var v int
	opt := &Opt{Name: "run-tracelevel", Format: 3, VarInt: &v, Comment: traceOpt}
	require.True(t, opt.Str2Opt("debug"))
	assert.Equal(t, 2, v)
	assert.False(t, opt.Str2Opt("not-a-level"))
}

func TestOptOpt2StrEnumLabel(t *testing.T) {
	v := 2
	opt := &Opt{Name: "run-tracelevel", Format: 3, VarInt: &v, Comment: traceOpt}
	assert.Equal(t, "debug", opt.Opt2Str())
}

func TestOptOpt2Buf(t *testing.T) {
	v := "betaflight"
	opt := &Opt{Name: "run-firmware", Format: 2, VarString: &v, Comment: "betaflight|inav"}
	buf := opt.Opt2Buf()
	assert.Contains(t, buf, "run-firmware")
	assert.Contains(t, buf, "betaflight")
	assert.Contains(t, buf, "# (betaflight|inav)")
}

func TestLoadOptsAppliesKnownSkipsUnknown(t *testing.T) {
	saved := defaultFilter
	defer func() { defaultFilter = saved }()

	dir := t.TempDir()
	path := filepath.Join(dir, "opts.conf")
	contents := "run-filter = vbat,motor # trailing comment\nunknown-option = 1\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	require.NoError(t, LoadOpts(path, RunOpts))
	assert.Equal(t, []string{"vbat", "motor"}, DefaultFilter())
}

func TestLoadOptsMissingFile(t *testing.T) {
	err := LoadOpts(filepath.Join(t.TempDir(), "missing.conf"), RunOpts)
	assert.Error(t, err)
}

func TestSaveOptsWritesReadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.conf")
	require.NoError(t, SaveOpts(path, "decoder run options", RunOpts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "decoder run options")
	assert.Contains(t, string(data), "run-filter")
}

func TestDefaultFilterEmpty(t *testing.T) {
	saved := defaultFilter
	defer func() { defaultFilter = saved }()

	defaultFilter = ""
	assert.Nil(t, DefaultFilter())
}

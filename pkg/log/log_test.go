package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogStdout(t *testing.T) {
	conf := SetDefaults()
	logger, err := NewLog(conf)
	require.NoError(t, err)
	require.NotNil(t, logger)

	Infof("stdout logger ready: %s", conf.Level)
}

func TestValidateFileOutput(t *testing.T) {
	conf := &Conf{Output: "file"}
	err := conf.Validate()
	assert.Error(t, err)

	conf.Path = t.TempDir()
	require.NoError(t, conf.Validate())
	assert.Equal(t, 100, conf.RotateSize)
	assert.Equal(t, 10, conf.RotateNum)
	assert.Equal(t, 7, conf.KeepDays)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, parseLevel("debug").String(), "debug")
	assert.Equal(t, parseLevel("ERROR").String(), "error")
	assert.Equal(t, parseLevel("bogus").String(), "info")
}

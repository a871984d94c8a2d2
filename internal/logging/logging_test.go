package logging

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCombinedWriter_Write(t *testing.T) {
	sb1 := &strings.Builder{}
	sb1.WriteString("already-here")
	sb2 := &strings.Builder{}

	cw := NewCombinedWriter(sb1, sb2)
	require.Len(t, cw.Writers, 2)

	n, err := cw.Write([]byte("set logged"))
	require.NoError(t, err)
	assert.Equal(t, len("set logged")*2, n)
	assert.Equal(t, "already-hereset logged", sb1.String())
	assert.Equal(t, "set logged", sb2.String())
}

func TestCombinedWriter_Write_PartialFailure(t *testing.T) {
	sb := &strings.Builder{}
	cw := NewCombinedWriter(failingWriter{}, failingWriter{}, sb)

	n, err := cw.Write([]byte("msg"))

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, 3, n)
	assert.Equal(t, "msg", sb.String())
}

func TestGetLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"ERROR":   logrus.ErrorLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"trace":   logrus.TraceLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, GetLevel(in), in)
	}
}

func TestSetup_FileOutput(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)

	name := filepath.Join(t.TempDir(), "fitlog")
	Setup(LoggerSetupParams{
		LogFileName: name,
		LogToStdout: true,
		LogLevel:    "debug",
	})

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	_, combined := logrus.StandardLogger().Out.(*CombinedWriter)
	assert.True(t, combined)
}

func TestSentryHook_Levels(t *testing.T) {
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())
}

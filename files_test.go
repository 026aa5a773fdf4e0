package britetopo

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()

	valid, err := CheckReadableFiles([]string{smallBrite, ""})
	assert.True(t, valid)
	assert.NoError(t, err)

	valid, err = CheckReadableFiles([]string{filepath.Join(dir, "absent.brite")})
	assert.False(t, valid)
	assert.Error(t, err)

	valid, err = CheckOutputFiles([]string{filepath.Join(dir, "new.txt"), "local.txt"})
	assert.True(t, valid)
	assert.NoError(t, err)

	valid, err = CheckOutputFiles([]string{filepath.Join(dir, "nodir", "new.txt")})
	assert.False(t, valid)
	assert.Error(t, err)
}

func TestCheckDirectories(t *testing.T) {
	valid, err := CheckDirectories([]string{t.TempDir(), ""})
	assert.True(t, valid)
	assert.NoError(t, err)

	valid, err = CheckDirectories([]string{smallBrite, filepath.Join(t.TempDir(), "absent")})
	assert.False(t, valid)
	assert.ErrorContains(t, err, "not a directory")
	assert.ErrorContains(t, err, "not reachable")
}

func TestReportErrs(t *testing.T) {
	assert.NoError(t, ReportErrs(nil))
	assert.NoError(t, ReportErrs([]error{nil, nil}))
	assert.EqualError(t, ReportErrs([]error{errors.New("a"), nil, errors.New("b")}), "a,b")
}

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, &FormatError{File: "f", Line: 3, Msg: "bad"}, "format error in f line 3: bad")
	assert.EqualError(t, &FormatError{Msg: "bad"}, "format error in <input>: bad")
	assert.EqualError(t, &EmptyCandidateError{What: "switch nodes", File: "t"}, "no switch nodes found in t")
	assert.EqualError(t, &ClusterSizeError{AS: 1, Points: 2, K: 3}, "AS 1 has 2 nodes, cannot form 3 regions")
	assert.Contains(t, (&InsufficientCandidatesError{AS: 2, PerAS: 1}).Error(), "AS 2")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = NewLogger("no-such-level", &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/fedwatch-notifier/internal/types"
)

func readLines(t *testing.T, path string) []types.Observation {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []types.Observation
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var obs types.Observation
		require.NoError(t, json.Unmarshal(sc.Bytes(), &obs))
		out = append(out, obs)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestFileStorage_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")
	s, err := NewFileStorage(dir, time.Hour)
	require.NoError(t, err)

	v := 32.5
	require.NoError(t, s.Write(&types.Observation{RunID: "r1", Outcome: types.OutcomeObserved, Value: &v}))
	require.NoError(t, s.Write(&types.Observation{RunID: "r1", Outcome: types.OutcomeNotFound}))
	assert.Equal(t, int64(2), s.RecordCount())

	path := s.CurrentPath()
	assert.Equal(t, dir, filepath.Dir(path))
	require.NoError(t, s.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	require.NotNil(t, lines[0].Value)
	assert.Equal(t, 32.5, *lines[0].Value)
	assert.Equal(t, types.OutcomeNotFound, lines[1].Outcome)
	assert.Nil(t, lines[1].Value)
}

func TestFileStorage_Rotation(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir, time.Minute)
	require.NoError(t, err)
	defer s.Close()

	first := s.CurrentPath()
	clock := s.lastRotation
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Write(&types.Observation{Outcome: types.OutcomeObserved}))
	assert.Equal(t, first, s.CurrentPath(), "no rotation inside the interval")

	clock = clock.Add(2 * time.Minute)
	require.NoError(t, s.Write(&types.Observation{Outcome: types.OutcomeObserved}))

	want := "observations_" + clock.UTC().Format("2006-01-02_15-04-05") + ".jsonl"
	assert.NotEqual(t, first, s.CurrentPath())
	assert.Equal(t, want, filepath.Base(s.CurrentPath()))
	assert.Equal(t, int64(1), s.RecordCount())
}

func TestFileStorage_WriteAfterClose(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Error(t, s.Write(&types.Observation{}))
}

func TestNew(t *testing.T) {
	s, err := New("none", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &NullStorage{}, s)
	assert.NoError(t, s.Write(&types.Observation{}))
	assert.NoError(t, s.Close())

	s, err = New("file", t.TempDir(), time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &FileStorage{}, s)
	assert.NoError(t, s.Close())

	_, err = New("tape", "", 0)
	assert.Error(t, err)
}

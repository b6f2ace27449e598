package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func TestCSVTableCreatesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	log := newTestLogger(t)

	table, err := newCSVTable(dir, "things.csv", []string{"id", "name"}, log)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "things.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n", string(data))

	require.NoError(t, table.appendRow([]string{"1", "first"}))

	// Reopening must not rewrite the header or drop the existing row.
	_, err = newCSVTable(dir, "things.csv", []string{"id", "name"}, log)
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "things.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,first\n", string(data))
}

func TestCSVTableReadAllToleratesDamage(t *testing.T) {
	dir := t.TempDir()
	log := newTestLogger(t)

	t.Run("missing file reads empty", func(t *testing.T) {
		table := &csvTable{path: filepath.Join(dir, "absent.csv"), header: []string{"id"}, logger: log}
		assert.Empty(t, table.readAll())
	})

	t.Run("empty file reads empty", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		table := &csvTable{path: path, header: []string{"id"}, logger: log}
		assert.Empty(t, table.readAll())
	})

	t.Run("short and long rows are padded to the header", func(t *testing.T) {
		path := filepath.Join(dir, "ragged.csv")
		content := "id,name,extra\n1,one\n2,two,more,surplus\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		table := &csvTable{path: path, header: []string{"id", "name", "extra"}, logger: log}

		rows := table.readAll()
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"1", "one", ""}, rows[0])
		assert.Equal(t, []string{"2", "two", "more"}, rows[1])
	})
}

func TestRawCSVLineQuoting(t *testing.T) {
	assert.Equal(t, "a,b\n", rawCSVLine([]string{"a", "b"}))
	assert.Equal(t, "\"a,b\",c\n", rawCSVLine([]string{"a,b", "c"}))
	assert.Equal(t, "\"say \"\"hi\"\"\"\n", rawCSVLine([]string{`say "hi"`}))
	assert.Equal(t, "\"two\nlines\"\n", rawCSVLine([]string{"two\nlines"}))
}

func TestIDGeneratorBumpsWithinSameMillisecond(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ids := newIDGenerator(clock)

	first := ids.Next()
	second := ids.Next()
	third := ids.Next()

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, third)

	// After the clock moves past the bumped range, ids return to wall time.
	clock.Advance(time.Second)
	assert.Equal(t, "1748779201000", ids.Next())
}

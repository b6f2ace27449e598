package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/pkg/logger"
)

// csvTable is one flat CSV file with a fixed header. It does plain file I/O
// and leaves locking to the repository that owns it: repositories combine
// reads and appends into compound operations (dedup checks, rewrites) and
// hold their own mutex across the whole operation.
type csvTable struct {
	path   string
	header []string
	logger *logger.Logger
}

func newCSVTable(dataDir, name string, header []string, log *logger.Logger) (*csvTable, error) {
	t := &csvTable{
		path:   filepath.Join(dataDir, name),
		header: header,
		logger: log,
	}
	if err := t.ensure(); err != nil {
		return nil, err
	}
	return t, nil
}

// ensure creates the backing file with its header on first use. The header
// is fixed at creation time and never altered afterwards.
func (t *csvTable) ensure() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", t.path, err)
	}

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", t.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", t.path, err)
	}
	w.Flush()
	return w.Error()
}

// readAll returns every data row, padded or truncated to the header width.
// A missing, empty or damaged file yields no rows, never an error, so a
// corrupt table reads as an empty one. Individual unreadable lines are
// skipped with a warning.
func (t *csvTable) readAll() [][]string {
	f, err := os.Open(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.logger.Warn("failed to open table, treating as empty",
				logger.StringField("path", t.path), logger.ErrorField(err))
		}
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.logger.Warn("skipping unreadable row",
				logger.StringField("path", t.path), logger.ErrorField(err))
			continue
		}
		if first {
			first = false
			continue
		}
		rows = append(rows, padRow(record, len(t.header)))
	}
	return rows
}

// appendRow adds one row via the structured CSV writer, falling back to a
// raw line append when that fails so a damaged file never blocks new
// inserts. Only failure of both paths surfaces as an error.
func (t *csvTable) appendRow(row []string) error {
	if err := t.appendStructured(row); err == nil {
		return nil
	} else {
		t.logger.Warn("structured append failed, retrying with raw append",
			logger.StringField("path", t.path), logger.ErrorField(err))
	}

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s for raw append: %w", t.path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(rawCSVLine(row)); err != nil {
		return fmt.Errorf("raw append to %s failed: %w", t.path, err)
	}
	return nil
}

func (t *csvTable) appendStructured(row []string) error {
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// rewrite replaces the whole table atomically: write header plus rows to a
// temp file in the same directory, then rename over the original.
func (t *csvTable) rewrite(rows [][]string) error {
	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp table: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(t.header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(row)
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp table: %w", writeErr)
	}

	if err := os.Rename(tmpPath, t.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", t.path, err)
	}
	return nil
}

func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// rawCSVLine escapes fields by hand for the fallback append path.
func rawCSVLine(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.ContainsAny(f, ",\"\n\r") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		} else {
			b.WriteString(f)
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// idGenerator hands out millisecond epoch ids, bumping by one when two
// inserts land inside the same millisecond.
type idGenerator struct {
	mu    sync.Mutex
	clock clockwork.Clock
	last  int64
}

func newIDGenerator(clock clockwork.Clock) *idGenerator {
	return &idGenerator{clock: clock}
}

func (g *idGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return strconv.FormatInt(now, 10)
}

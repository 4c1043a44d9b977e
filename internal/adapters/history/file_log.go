package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

const (
	FileName          = "device_history.txt"
	DefaultMaxEntries = 100

	// maxLineLen is well above the longest encodable sample; longer lines are
	// corrupt and skipped without parsing.
	maxLineLen = 256
)

// FileLog stores one sample per line and keeps at most maxEntries of them
// (plus up to slack lines between rewrites).
type FileLog struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	slack      int

	// count is the number of decodable lines on disk; -1 until scanned.
	count int
	// torn is set when the file does not end with a newline.
	torn bool
}

func NewFileLog(dir string, maxEntries, slack int) (*FileLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if slack < 0 {
		slack = 0
	}
	return &FileLog{
		path:       filepath.Join(dir, FileName),
		maxEntries: maxEntries,
		slack:      slack,
		count:      -1,
	}, nil
}

func (l *FileLog) Path() string { return l.path }

func (l *FileLog) Append(s domain.Sample) error {
	if err := s.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count < 0 {
		if err := l.scanLocked(); err != nil {
			return err
		}
	}

	line := s.Line() + "\n"
	if l.torn {
		line = "\n" + line
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		// unknown how much landed; rescan on the next call
		l.count = -1
		return fmt.Errorf("history append: %w", err)
	}
	if err := f.Close(); err != nil {
		l.count = -1
		return fmt.Errorf("history append close: %w", err)
	}
	l.torn = false
	l.count++

	if l.count > l.maxEntries+l.slack {
		return l.trimLocked()
	}
	return nil
}

func (l *FileLog) ReadAll() ([]domain.Sample, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Sample{}, nil
		}
		return nil, fmt.Errorf("history read: %w", err)
	}

	_, out := validRecords(data)
	if out == nil {
		out = []domain.Sample{}
	}
	if len(out) > l.maxEntries {
		out = out[len(out)-l.maxEntries:]
	}
	return out, nil
}

func (l *FileLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.count = -1
		return err
	}
	l.count = 0
	l.torn = false
	return nil
}

// Stats reports the records ReadAll would return and the file size on disk.
func (l *FileLog) Stats() ports.HistoryStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count < 0 {
		_ = l.scanLocked()
	}
	var size int64
	if st, err := os.Stat(l.path); err == nil {
		size = st.Size()
	}
	entries := l.count
	if entries < 0 {
		entries = 0
	}
	if entries > l.maxEntries {
		entries = l.maxEntries
	}
	return ports.HistoryStats{Entries: entries, SizeBytes: size}
}

func (l *FileLog) scanLocked() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.count = 0
			l.torn = false
			return nil
		}
		return err
	}
	lines, _ := validRecords(data)
	l.count = len(lines)
	l.torn = len(data) > 0 && data[len(data)-1] != '\n'
	return nil
}

// trimLocked rewrites the file with the most recent maxEntries valid lines
// through a temp file and rename so readers never observe a half-written log.
// Corrupt lines are dropped by the rewrite.
func (l *FileLog) trimLocked() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		l.count = -1
		return err
	}
	lines, _ := validRecords(data)
	if len(lines) > l.maxEntries {
		lines = lines[len(lines)-l.maxEntries:]
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), FileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			cleanup()
			return fmt.Errorf("history trim: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("history trim flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("history trim sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("history trim rename: %w", err)
	}

	l.count = len(lines)
	l.torn = false
	return nil
}

// validRecords walks data one '\n'-terminated line at a time and keeps the
// lines that decode, in file order. Lines of any length are tolerated.
func validRecords(data []byte) ([]string, []domain.Sample) {
	var (
		lines   []string
		samples []domain.Sample
	)
	rest := data
	for len(rest) > 0 {
		var line []byte
		if i := bytes.IndexByte(rest, '\n'); i < 0 {
			line, rest = rest, nil
		} else {
			line, rest = rest[:i], rest[i+1:]
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 || len(line) > maxLineLen {
			continue
		}
		s, err := domain.ParseSampleLine(string(line))
		if err != nil {
			continue
		}
		lines = append(lines, string(line))
		samples = append(samples, s)
	}
	return lines, samples
}

var _ ports.HistoryLog = (*FileLog)(nil)

package tailsource

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrFileNotFound means the path does not exist when opening.
	ErrFileNotFound = errors.New("log file not found")
	// ErrFileUnreadable means the path exists but cannot be read.
	ErrFileUnreadable = errors.New("log file unreadable")
	// ErrTransientRead means a poll failed because the file shrank, vanished
	// or could not be read this time. The cursor is left unchanged.
	ErrTransientRead = errors.New("transient read error")
)

// Line is one complete line with its physical 1-based line number.
type Line struct {
	Number int
	Text   string
}

// Batch is a group of lines handed from the poller to the consumer.
// Gen ties it to the attachment that produced it.
type Batch struct {
	Gen    uint64
	Lines  []Line
	Offset int64
}

// Snapshot is the result of Load: the retained lines and where to resume.
type Snapshot struct {
	Lines    []Line
	Offset   int64
	NextLine int
}

// Source tracks a read cursor into one file. A trailing line without a
// terminator is held back until it is completed.
type Source struct {
	path     string
	offset   int64
	nextLine int
}

// Open returns a cursor positioned after the last complete line in the file.
func Open(path string) (*Source, error) {
	snap, err := Load(path, -1)
	if err != nil {
		return nil, err
	}
	return OpenAt(path, snap.Offset, snap.NextLine), nil
}

// OpenAt returns a cursor at a known offset, numbering the next line nextLine.
func OpenAt(path string, offset int64, nextLine int) *Source {
	if nextLine < 1 {
		nextLine = 1
	}
	return &Source{path: path, offset: offset, nextLine: nextLine}
}

func (s *Source) Path() string { return s.path }

// Offset is the byte position just past the last consumed line.
func (s *Source) Offset() int64 { return s.offset }

// Load reads the complete lines currently in the file. maxLines > 0 keeps
// only the last maxLines, 0 keeps all of them and a negative value keeps none
// (only the resume position is computed).
func Load(path string, maxLines int) (Snapshot, error) {
	file, err := openFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer file.Close()

	var ring []Line
	if maxLines > 0 {
		ring = make([]Line, maxLines)
	}
	var all []Line

	reader := bufio.NewReaderSize(file, 64*1024)
	var offset int64
	count := 0
	idx := 0
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Snapshot{}, fmt.Errorf("%w: read %s: %w", ErrFileUnreadable, path, err)
		}
		offset += int64(len(raw))
		count++
		line := Line{Number: count, Text: trimEOL(raw)}
		switch {
		case maxLines > 0:
			ring[idx] = line
			idx = (idx + 1) % maxLines
		case maxLines == 0:
			all = append(all, line)
		}
	}

	snap := Snapshot{Offset: offset, NextLine: count + 1}
	switch {
	case maxLines == 0:
		snap.Lines = all
	case maxLines > 0:
		kept := min(count, maxLines)
		snap.Lines = make([]Line, kept)
		if count >= maxLines {
			for i := 0; i < kept; i++ {
				snap.Lines[i] = ring[(idx+i)%maxLines]
			}
		} else {
			copy(snap.Lines, ring[:kept])
		}
	}
	return snap, nil
}

// Poll returns the complete lines appended since the previous successful
// poll. Calling it again without file growth returns nothing.
func (s *Source) Poll() ([]Line, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s vanished", ErrTransientRead, s.path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", ErrTransientRead, s.path, err)
	}
	size := info.Size()
	if size < s.offset {
		return nil, fmt.Errorf("%w: %s shrank from %d to %d bytes", ErrTransientRead, s.path, s.offset, size)
	}
	if size == s.offset {
		return nil, nil
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrTransientRead, s.path, err)
	}
	defer file.Close()

	buf := make([]byte, size-s.offset)
	n, err := file.ReadAt(buf, s.offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTransientRead, s.path, err)
	}
	buf = buf[:n]

	end := bytes.LastIndexByte(buf, '\n')
	if end < 0 {
		return nil, nil
	}
	complete := buf[:end+1]

	lines := make([]Line, 0, bytes.Count(complete, []byte{'\n'}))
	for len(complete) > 0 {
		i := bytes.IndexByte(complete, '\n')
		lines = append(lines, Line{Number: s.nextLine, Text: trimEOL(string(complete[:i]))})
		s.nextLine++
		complete = complete[i+1:]
	}
	s.offset += int64(end + 1)
	return lines, nil
}

func openFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileUnreadable, path)
	}
	return file, nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

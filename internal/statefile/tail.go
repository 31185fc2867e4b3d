package statefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/clawd-ops/missioncontrol/internal/log"
)

// tailChunkSize is how much of the file is read per step when scanning
// backwards for line breaks.
var tailChunkSize = 64 * 1024

// errShrunk means the file got shorter while it was being read.
var errShrunk = errors.New("file truncated during read")

// Tail returns up to limit records parsed from the last limit non-blank
// lines of the JSONL file name, oldest first.
//
// Lines that fail to parse are dropped, so fewer than limit records may come
// back even when enough lines exist. A missing file, or one truncated while
// being read, yields no records and no error. Only unexpected I/O failures
// return a *ReadError.
func Tail[T any](r *Reader, name string, limit int) ([]T, error) {
	if limit < 1 {
		return nil, nil
	}
	path, ok := r.resolver.Resolve(name)
	if !ok {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		readErrors.WithLabelValues(metricLabel(name)).Inc()
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		readErrors.WithLabelValues(metricLabel(name)).Inc()
		return nil, &ReadError{Path: path, Err: err}
	}

	lines, err := lastLines(f, info.Size(), limit)
	if err != nil {
		if errors.Is(err, errShrunk) {
			return nil, nil
		}
		readErrors.WithLabelValues(metricLabel(name)).Inc()
		return nil, &ReadError{Path: path, Err: err}
	}

	records := make([]T, 0, len(lines))
	for i, line := range lines {
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			malformedRecords.WithLabelValues(metricLabel(name)).Inc()
			log.Debug().Str("file", name).Int("line", i).Err(err).Msg("skipping malformed record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// lastLines scans backwards from size and returns the last limit non-blank
// lines in file order, each with surrounding whitespace trimmed.
func lastLines(r io.ReaderAt, size int64, limit int) ([][]byte, error) {
	var (
		rev   [][]byte
		carry []byte
		off   = size
	)
	for off > 0 && len(rev) < limit {
		n := int64(tailChunkSize)
		if n > off {
			n = off
		}
		off -= n

		buf := make([]byte, n, n+int64(len(carry)))
		read, err := r.ReadAt(buf, off)
		if read < len(buf) {
			if err == nil || errors.Is(err, io.EOF) {
				return nil, errShrunk
			}
			return nil, err
		}
		buf = append(buf, carry...)

		for len(rev) < limit {
			i := bytes.LastIndexByte(buf, '\n')
			if i < 0 {
				break
			}
			if line := bytes.TrimSpace(buf[i+1:]); len(line) > 0 {
				rev = append(rev, line)
			}
			buf = buf[:i]
		}
		carry = buf
	}
	if off == 0 && len(rev) < limit {
		if line := bytes.TrimSpace(carry); len(line) > 0 {
			rev = append(rev, line)
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev, nil
}

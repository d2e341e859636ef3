package ingest

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"
)

// Open opens a fills log for reading, transparently decompressing .gz and
// .xz files. Archived session logs usually arrive compressed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &wrappedReader{r: zr, close: func() error {
			if err := zr.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}}, nil

	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &wrappedReader{r: xr, close: f.Close}, nil

	default:
		return f, nil
	}
}

type wrappedReader struct {
	r     io.Reader
	close func() error
}

func (w *wrappedReader) Read(p []byte) (int, error) { return w.r.Read(p) }
func (w *wrappedReader) Close() error               { return w.close() }

// ReadEvents parses fill events out of a JSONL stream. Malformed lines and
// non-fill records are skipped, never fatal: a session log with a few
// garbled lines is still worth attributing.
func ReadEvents(r io.Reader, log zerolog.Logger) ([]Event, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		events  []Event
		lineNum int
		bad     int
	)

	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			bad++
			log.Warn().Int("line", lineNum).Err(err).Msg("skipping malformed log line")
			continue
		}
		if ev.Type != eventTypeFill {
			continue
		}
		if ev.Stream == "" || ev.Qty <= 0 {
			bad++
			log.Warn().Int("line", lineNum).Msg("skipping fill with missing stream or quantity")
			continue
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if bad > 0 {
		log.Warn().Int("lines", bad).Msg("skipped unusable log lines")
	}
	return events, nil
}

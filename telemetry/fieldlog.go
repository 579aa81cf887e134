package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/sensefield/sense"
)

// FieldCell is one written cell of a logged field, in source-relative coordinates.
type FieldCell struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Intensity float32 `json:"i"`
	Direction string  `json:"d,omitempty"`
	Flags     uint8   `json:"f,omitempty"`
}

// FieldRecord is one computed field, written as a single JSON line.
type FieldRecord struct {
	Tick     int32       `json:"tick"`
	SourceID string      `json:"source"`
	Kind     string      `json:"kind"`
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Level    int         `json:"level"`
	Radius   int         `json:"radius"`
	Cells    []FieldCell `json:"cells"`
}

// NewFieldRecord captures the written cells of data.
func NewFieldRecord(tick int32, id string, kind sense.Kind, origin sense.Point, level int, data *sense.SourceData) FieldRecord {
	rec := FieldRecord{
		Tick:     tick,
		SourceID: id,
		Kind:     kind.String(),
		X:        origin.X,
		Y:        origin.Y,
		Level:    level,
	}
	if data == nil {
		return rec
	}
	rec.Radius = data.Radius()
	rec.Cells = make([]FieldCell, 0, data.Len())
	data.Each(func(p sense.Point, c sense.Cell) {
		fc := FieldCell{X: p.X, Y: p.Y, Intensity: c.Intensity, Flags: uint8(c.Flags)}
		if c.Direction != sense.None {
			fc.Direction = c.Direction.String()
		}
		rec.Cells = append(rec.Cells, fc)
	})
	return rec
}

// FieldLog appends FieldRecords to a zstd-compressed JSONL file.
type FieldLog struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	n   int
}

// NewFieldLog creates (or truncates) the log at path.
func NewFieldLog(path string) (*FieldLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating field log dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating field log: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	return &FieldLog{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Path returns the log file path.
func (l *FieldLog) Path() string {
	return l.path
}

// Records returns the number of records written.
func (l *FieldLog) Records() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// Write appends one record.
func (l *FieldLog) Write(rec FieldRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return fmt.Errorf("field log %s is closed", l.path)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	l.n++
	return nil
}

// Close flushes buffered records and closes the file.
func (l *FieldLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	if l.w != nil {
		firstErr = l.w.Flush()
		l.w = nil
	}
	if l.enc != nil {
		if err := l.enc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.enc = nil
	}
	if l.f != nil {
		if err := l.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.f = nil
	}
	return firstErr
}

// ReadFieldLog decodes every record in a log written by FieldLog.
func ReadFieldLog(path string) ([]FieldRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening field log: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	var records []FieldRecord
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		var rec FieldRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading field log: %w", err)
	}
	return records, nil
}

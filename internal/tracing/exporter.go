package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/sjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var errExporterClosed = errors.New("file exporter is shut down")

// FileExporter appends one JSON object per span to a file.
//
// A line looks like:
//
//	{"trace_id":"..","span_id":"..","name":"formatting.apply","start":"..","duration_ms":0.42,
//	 "status":"OK","attributes":{"tincture.apply.updated":3},"events":[{"name":"..","time":".."}]}
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileExporter opens path for appending, creating it and its directory.
func NewFileExporter(path string) (*FileExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- configured trace path
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	return &FileExporter{file: f}, nil
}

// ExportSpans writes the spans as JSON lines.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	var out []byte
	for _, span := range spans {
		line, err := encodeSpan(span)
		if err != nil {
			return fmt.Errorf("encoding span %s: %w", span.Name(), err)
		}
		out = append(append(out, line...), '\n')
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return errExporterClosed
	}
	_, err := e.file.Write(out)
	return err
}

// Shutdown closes the file. Later exports fail.
func (e *FileExporter) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// record builds one JSON object; the first failed write sticks.
type record struct {
	buf []byte
	err error
}

func newRecord() *record { return &record{buf: []byte(`{}`)} }

func (r *record) set(path string, value any) {
	if r.err == nil {
		r.buf, r.err = sjson.SetBytes(r.buf, path, value)
	}
}

func (r *record) setRaw(path string, raw []byte) {
	if r.err == nil {
		r.buf, r.err = sjson.SetRawBytes(r.buf, path, raw)
	}
}

func (r *record) setAttributes(path string, kvs []attribute.KeyValue) {
	for _, kv := range kvs {
		r.set(path+"."+attrPath(string(kv.Key)), kv.Value.AsInterface())
	}
}

func encodeSpan(span sdktrace.ReadOnlySpan) ([]byte, error) {
	sc := span.SpanContext()
	r := newRecord()
	r.set("trace_id", sc.TraceID().String())
	r.set("span_id", sc.SpanID().String())
	if span.Parent().IsValid() {
		r.set("parent_span_id", span.Parent().SpanID().String())
	}
	r.set("name", span.Name())
	r.set("start", span.StartTime().Format(time.RFC3339Nano))
	r.set("duration_ms", float64(span.EndTime().Sub(span.StartTime()).Microseconds())/1000)
	r.set("status", statusName(span.Status().Code))
	if desc := span.Status().Description; desc != "" {
		r.set("error", desc)
	}
	r.setAttributes("attributes", span.Attributes())

	if len(span.Events()) > 0 {
		r.setRaw("events", []byte(`[]`))
	}
	for _, evt := range span.Events() {
		ev := newRecord()
		ev.set("name", evt.Name)
		ev.set("time", evt.Time.Format(time.RFC3339Nano))
		ev.setAttributes("attributes", evt.Attributes)
		if ev.err != nil {
			return nil, ev.err
		}
		r.setRaw("events.-1", ev.buf)
	}
	return r.buf, r.err
}

func statusName(c codes.Code) string {
	switch c {
	case codes.Ok:
		return "OK"
	case codes.Error:
		return "ERROR"
	default:
		return "UNSET"
	}
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`)

// attrPath escapes an attribute key for use as one sjson/gjson path segment.
func attrPath(key string) string {
	return pathEscaper.Replace(key)
}

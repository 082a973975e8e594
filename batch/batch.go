// Package batch encodes many rows in parallel while keeping their order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/gravitational/trace"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/recjson"
)

// Policy selects what happens when a row fails to encode.
type Policy int

const (
	// Abort stops the batch at the first failing row.
	Abort Policy = iota
	// Skip reports the failure through Options.OnError and moves on; the
	// row produces no output.
	Skip
)

func (p Policy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy reads "abort" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "abort", "":
		return Abort, nil
	case "skip":
		return Skip, nil
	default:
		return Abort, trace.BadParameter("unknown error policy %q (want abort or skip)", s)
	}
}

// DefaultChunkSize is the number of rows Stream encodes per round.
const DefaultChunkSize = 1024

// Options configures an Encoder.
type Options struct {
	// Workers bounds concurrent encodes. Zero or less uses GOMAXPROCS.
	Workers int
	Policy  Policy
	// OnError receives rows skipped under the Skip policy. Calls are
	// serialized.
	OnError func(*RowError)
	// ChunkSize is the number of rows Stream reads before encoding them.
	ChunkSize int
	// Encode is passed to every recjson.EncodeBytes call.
	Encode recjson.EncodeOpt
}

// RowError is the failure of one row.
type RowError struct {
	Index int // 0-based position in the input
	Err   error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Index, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Stats counts the outcome of Stream.
type Stats struct {
	Rows    int // rows read
	Encoded int // rows that produced output
	Absent  int // empty rows
	Skipped int // failed rows under Skip
}

// Encoder encodes rows of one schema.
type Encoder struct {
	schema *recjson.Schema
	opt    Options
	mu     sync.Mutex
}

// New returns an Encoder for s.
func New(s *recjson.Schema, opts ...Options) *Encoder {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	if opt.ChunkSize <= 0 {
		opt.ChunkSize = DefaultChunkSize
	}
	return &Encoder{schema: s, opt: opt}
}

// EncodeAll encodes rows and returns their JSON in input order. Entries are
// nil for absent rows and for rows skipped under the Skip policy. Under
// Abort the first failure is returned as a *RowError.
func (e *Encoder) EncodeAll(ctx context.Context, rows []recjson.Record) ([][]byte, error) {
	out := make([][]byte, len(rows))
	if err := e.encodeInto(ctx, 0, rows, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Encoder) encodeInto(ctx context.Context, base int, rows []recjson.Record, out [][]byte) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opt.Workers)
	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := recjson.EncodeBytes(e.schema, rows[i], e.opt.Encode)
			if err != nil {
				re := &RowError{Index: base + i, Err: err}
				if e.opt.Policy == Skip {
					e.report(re)
					return nil
				}
				return re
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Encoder) report(re *RowError) {
	if e.opt.OnError == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opt.OnError(re)
}

// Stream reads rows from next until it returns io.EOF, encodes them in
// chunks, and passes each produced document to emit in input order.
// Absent and skipped rows are not emitted. Under Abort every row ahead of
// the earliest failing row is emitted before the *RowError is returned.
func (e *Encoder) Stream(ctx context.Context, next func() (recjson.Record, error), emit func(index int, doc []byte) error) (Stats, error) {
	var st Stats
	rows := make([]recjson.Record, 0, e.opt.ChunkSize)
	out := make([][]byte, e.opt.ChunkSize)
	for done := false; !done; {
		rows = rows[:0]
		for len(rows) < e.opt.ChunkSize {
			r, err := next()
			if err == io.EOF {
				done = true
				break
			}
			if err != nil {
				return st, trace.Wrap(err)
			}
			rows = append(rows, r)
		}
		if len(rows) == 0 {
			break
		}

		chunk := out[:len(rows)]
		clear(chunk)
		encErr := e.encodeInto(ctx, st.Rows, rows, chunk)
		n := len(rows)
		if encErr != nil {
			var re *RowError
			if !errors.As(encErr, &re) {
				return st, encErr
			}
			// rows ahead of the failure are still emitted
			n, encErr = e.settlePrefix(rows, chunk, st.Rows, re)
		}
		for i, doc := range chunk[:n] {
			switch {
			case doc != nil:
				st.Encoded++
				if err := emit(st.Rows+i, doc); err != nil {
					return st, trace.Wrap(err)
				}
			case len(rows[i]) == 0:
				st.Absent++
			default:
				st.Skipped++
			}
		}
		st.Rows += n
		if encErr != nil {
			return st, encErr
		}
	}
	return st, nil
}

// settlePrefix encodes the rows of a chunk that precede re and were left
// unencoded by cancellation. It returns the number of rows ahead of the
// earliest failure in input order, and that failure.
func (e *Encoder) settlePrefix(rows []recjson.Record, chunk [][]byte, base int, re *RowError) (int, error) {
	fail := re.Index - base
	for i := 0; i < fail; i++ {
		if chunk[i] != nil || len(rows[i]) == 0 {
			continue
		}
		b, err := recjson.EncodeBytes(e.schema, rows[i], e.opt.Encode)
		if err != nil {
			return i, &RowError{Index: base + i, Err: err}
		}
		chunk[i] = b
	}
	return fail, re
}

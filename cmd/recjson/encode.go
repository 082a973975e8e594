package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/batch"
	"github.com/reoring/recjson/rowtext"
)

type encodeCmd struct {
	schema    schemaFlags
	workers   int
	onError   string
	delimiter string
	output    string
	files     []string
	log       *logrus.Logger
}

func (c *encodeCmd) run(ctx context.Context, s streams, opt recjson.EncodeOpt) error {
	full, out, positions, err := c.schema.load()
	if err != nil {
		return trace.Wrap(err)
	}
	policy, err := batch.ParsePolicy(c.onError)
	if err != nil {
		return trace.Wrap(err)
	}

	w, closeOut, err := c.openOutput(s.out)
	if err != nil {
		return trace.Wrap(err)
	}
	bw := bufio.NewWriter(w)

	src := &rowSource{
		files:     c.files,
		stdin:     s.in,
		schema:    full,
		positions: positions,
		opt: rowtext.Options{
			Delimiter: unescapeDelimiter(c.delimiter),
			OnWarning: func(wn rowtext.Warning) {
				c.log.WithFields(logrus.Fields{
					"line": wn.Line,
					"path": wn.Issue.Path,
					"code": wn.Issue.Code,
				}).Warn(wn.Issue.Message)
			},
		},
	}
	defer src.close()

	enc := batch.New(out, batch.Options{
		Workers: c.workers,
		Policy:  policy,
		Encode:  opt,
		OnError: func(re *batch.RowError) {
			fields := logrus.Fields{"row": re.Index + 1}
			if iss, ok := recjson.AsIssues(re.Err); ok {
				fields["path"] = iss[0].Path
				fields["code"] = iss[0].Code
			}
			c.log.WithFields(fields).Warn("skipping row")
		},
	})
	st, err := enc.Stream(ctx, src.next, func(_ int, doc []byte) error {
		if _, err := bw.Write(doc); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	flushErr := bw.Flush()
	closeErr := closeOut()
	if err != nil {
		return trace.Wrap(err)
	}
	if err := trace.NewAggregate(flushErr, closeErr); err != nil {
		return trace.Wrap(err, "writing output")
	}

	c.log.WithFields(logrus.Fields{
		"rows":    st.Rows,
		"encoded": st.Encoded,
		"absent":  st.Absent,
		"skipped": st.Skipped,
	}).Info("done")
	return nil
}

func (c *encodeCmd) openOutput(stdout io.Writer) (io.Writer, func() error, error) {
	if c.output == "" || c.output == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(c.output)
	if err != nil {
		return nil, nil, trace.ConvertSystemError(err)
	}
	return f, f.Close, nil
}

// rowSource reads rows from each input file in turn.
type rowSource struct {
	files     []string
	stdin     io.Reader
	schema    *recjson.Schema
	positions []int
	opt       rowtext.Options

	cur    *rowtext.Reader
	closer io.Closer
	name   string
}

func (r *rowSource) next() (recjson.Record, error) {
	for {
		if r.cur == nil {
			if len(r.files) == 0 {
				return nil, io.EOF
			}
			if err := r.open(r.files[0]); err != nil {
				return nil, trace.Wrap(err)
			}
			r.files = r.files[1:]
		}
		rec, err := r.cur.Next()
		if err == io.EOF {
			r.close()
			continue
		}
		if err != nil {
			return nil, trace.Wrap(err, "reading %s", r.name)
		}
		return project(rec, r.positions), nil
	}
}

func (r *rowSource) open(name string) error {
	var in io.Reader
	if name == "-" {
		in = r.stdin
	} else {
		rc, err := rowtext.Open(name)
		if err != nil {
			return trace.Wrap(err)
		}
		in, r.closer = rc, rc
	}
	rd, err := rowtext.NewReader(in, r.schema, r.opt)
	if err != nil {
		if r.closer != nil {
			r.closer.Close()
			r.closer = nil
		}
		return trace.Wrap(err)
	}
	r.cur, r.name = rd, name
	return nil
}

func (r *rowSource) close() {
	if r.closer != nil {
		r.closer.Close()
	}
	r.cur, r.closer = nil, nil
}

// project reorders rec to the --fields selection. Absent rows stay absent.
func project(rec recjson.Record, positions []int) recjson.Record {
	if positions == nil || len(rec) == 0 {
		return rec
	}
	out := make(recjson.Record, len(positions))
	for i, p := range positions {
		out[i] = rec[p]
	}
	return out
}

package rowtext

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/gravitational/trace"
	"github.com/klauspost/compress/gzip"

	"github.com/reoring/recjson"
)

// maxLineSize bounds a single row.
const maxLineSize = 64 << 20

// Reader reads rows line by line.
type Reader struct {
	p  *Parser
	sc *bufio.Scanner
}

// NewReader returns a Reader parsing rows of r with s.
func NewReader(r io.Reader, s *recjson.Schema, opts ...Options) (*Reader, error) {
	p, err := NewParser(s, opts...)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{p: p, sc: sc}, nil
}

// Next returns the next row, or io.EOF after the last one.
func (r *Reader) Next() (recjson.Record, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, trace.Wrap(err, "reading line %d", r.p.line+1)
		}
		return nil, io.EOF
	}
	r.p.line++
	return r.p.ParseLine(strings.TrimSuffix(r.sc.Text(), "\r")), nil
}

// Line returns the 1-based number of the row last returned by Next.
func (r *Reader) Line() int { return r.p.line }

// ReadAll reads every remaining row.
func (r *Reader) ReadAll() ([]recjson.Record, error) {
	var out []recjson.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Open opens path for reading rows. "-" is stdin and files ending in ".gz"
// are decompressed.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, trace.BadParameter("rowtext: %s is not gzip data: %v", path, err)
	}
	return &gzipFile{Reader: zr, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	return trace.NewAggregate(g.Reader.Close(), g.f.Close())
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	gojson "github.com/goccy/go-json"
	"github.com/gravitational/trace"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/numfmt"
	"github.com/reoring/recjson/schemadef"
)

var Version = "0.0.0-dev"

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// schemaFlags are shared by every command that needs a schema.
type schemaFlags struct {
	decl   string
	file   string
	fields string
}

func (f *schemaFlags) register(cmd *kingpin.CmdClause) {
	cmd.Flag("schema", "Schema declaration, e.g. 'B: bag{T: tuple(v:int)}'").Short('s').StringVar(&f.decl)
	cmd.Flag("schema-file", "Schema file (.yaml, .yml, .json or declaration text)").ExistingFileVar(&f.file)
	cmd.Flag("fields", "Comma-separated top-level fields to keep, in output order").StringVar(&f.fields)
}

// load returns the full schema and, when --fields is set, the projection
// applied to each row.
func (f *schemaFlags) load() (full *recjson.Schema, out *recjson.Schema, positions []int, err error) {
	switch {
	case f.decl != "" && f.file != "":
		return nil, nil, nil, trace.BadParameter("--schema and --schema-file are mutually exclusive")
	case f.decl != "":
		full, err = schemadef.Parse(f.decl)
	case f.file != "":
		full, err = schemadef.Load(f.file)
	default:
		return nil, nil, nil, trace.BadParameter("one of --schema or --schema-file is required")
	}
	if err != nil {
		return nil, nil, nil, trace.Wrap(err)
	}
	names := splitCSV(f.fields)
	if len(names) == 0 {
		return full, full, nil, nil
	}
	out, positions, missing := full.Project(names...)
	if len(missing) > 0 {
		return nil, nil, nil, trace.BadParameter("unknown fields %v in --fields (schema is %s)", missing, full)
	}
	return full, out, positions, nil
}

func run(ctx context.Context, args []string, s streams, environ map[string]string) error {
	cfg, err := loadConfig(environ)
	if err != nil {
		return trace.Wrap(err)
	}

	app := kingpin.New("recjson", "Encode record rows as JSON documents")
	app.Version(Version)
	app.HelpFlag.Short('h')
	app.UsageWriter(s.err)
	app.ErrorWriter(s.err)
	logLevel := app.Flag("log-level", "Log level (env "+envPrefix+"LOG_LEVEL)").Default(cfg.LogLevel).String()
	maxDepth := app.Flag("max-depth", "Maximum JSON nesting; 0 uses the default, negative disables the check (env "+envPrefix+"MAX_DEPTH)").
		Default(strconv.Itoa(cfg.MaxDepth)).Int()

	enc := &encodeCmd{}
	encCmd := app.Command("encode", "Encode rows read from files or stdin, one JSON document per line")
	enc.schema.register(encCmd)
	encCmd.Flag("workers", "Concurrent encoders; 0 uses all CPUs (env "+envPrefix+"WORKERS)").
		Default(strconv.Itoa(cfg.Workers)).IntVar(&enc.workers)
	encCmd.Flag("on-error", "What to do with rows that fail to encode (env "+envPrefix+"ON_ERROR)").
		Default(cfg.OnError).EnumVar(&enc.onError, "abort", "skip")
	encCmd.Flag("delimiter", "Field delimiter of input rows (env "+envPrefix+"DELIMITER)").
		Default(cfg.Delimiter).StringVar(&enc.delimiter)
	encCmd.Flag("output", "Output file ('-' for stdout)").Short('o').Default("-").StringVar(&enc.output)
	encCmd.Arg("files", "Input files ('-' for stdin, .gz is decompressed)").Default("-").StringsVar(&enc.files)

	js := &schemaFlags{}
	jsCmd := app.Command("jsonschema", "Print the JSON Schema of the documents encode produces")
	js.register(jsCmd)

	show := &schemaFlags{}
	var showFormat string
	showCmd := app.Command("schema", "Print a schema normalized to one syntax")
	show.register(showCmd)
	showCmd.Flag("format", "Output syntax").Default(string(schemadef.FormatDecl)).
		EnumVar(&showFormat, string(schemadef.FormatDecl), string(schemadef.FormatYAML), string(schemadef.FormatJSON))

	var padValues []string
	padCmd := app.Command("padzero", "Print integers padded to two digits")
	padCmd.Arg("values", "Integers").Required().StringsVar(&padValues)

	cmd, err := app.Parse(args)
	if err != nil {
		return trace.Wrap(err, "failed to parse command line arguments")
	}

	log, err := newLogger(*logLevel, s.err)
	if err != nil {
		return trace.Wrap(err)
	}
	opt := recjson.EncodeOpt{MaxDepth: *maxDepth}

	switch cmd {
	case encCmd.FullCommand():
		enc.log = log
		return trace.Wrap(enc.run(ctx, s, opt))
	case jsCmd.FullCommand():
		return trace.Wrap(printJSONSchema(js, s.out))
	case showCmd.FullCommand():
		return trace.Wrap(printSchema(show, schemadef.Format(showFormat), s.out))
	case padCmd.FullCommand():
		return trace.Wrap(printPadded(padValues, s.out))
	default:
		return trace.NotImplemented("unimplemented command %q", cmd)
	}
}

func printJSONSchema(f *schemaFlags, w io.Writer) error {
	_, s, _, err := f.load()
	if err != nil {
		return trace.Wrap(err)
	}
	doc, err := s.JSONSchema()
	if err != nil {
		return trace.Wrap(err)
	}
	b, err := gojson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return trace.Wrap(err)
}

func printSchema(f *schemaFlags, format schemadef.Format, w io.Writer) error {
	_, s, _, err := f.load()
	if err != nil {
		return trace.Wrap(err)
	}
	var b []byte
	switch format {
	case schemadef.FormatYAML:
		b, err = schemadef.MarshalYAML("", s)
	case schemadef.FormatJSON:
		b, err = schemadef.MarshalJSON("", s)
		b = append(b, '\n')
	default:
		b = []byte(s.String() + "\n")
	}
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = w.Write(b)
	return trace.Wrap(err)
}

func printPadded(values []string, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return trace.BadParameter("padzero: %q is not an integer", v)
		}
		fmt.Fprintln(bw, numfmt.PadZero(n))
	}
	return trace.Wrap(bw.Flush())
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	if err := run(context.Background(), os.Args[1:], streams{os.Stdin, os.Stdout, os.Stderr}, nil); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

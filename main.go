package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ardanlabs/vkwrap/config"
	"github.com/ardanlabs/vkwrap/generator"
	"github.com/ardanlabs/vkwrap/logging"
	"github.com/ardanlabs/vkwrap/parser"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "vkwrap: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vkwrap",
		Usage: "generate C++ wrappers for the structs and enums of a Vulkan header",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"VKWRAP_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored log output",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			c.Context = logging.Setup(c.Context, c.App.ErrWriter, level, !c.Bool("no-color"))
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "translate one or more headers",
		ArgsUsage: "HEADER [HEADER...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the declarations to `FILE` instead of stdout",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "write one <header>.hpp per input into `DIR`",
			},
			&cli.BoolFlag{
				Name:  "preamble",
				Usage: "prepend the generated-file banner and includes",
			},
			&cli.BoolFlag{
				Name:  "dump-model",
				Usage: "pretty-print the parsed declarations to stderr",
			},
			&cli.StringFlag{
				Name:   "tables",
				Usage:  "replace the built-in tables with a YAML `FILE`",
				Hidden: true,
			},
		},
		Action: runGenerate,
	}
}

type options struct {
	tables    *config.Tables
	preamble  bool
	dumpModel bool
	color     bool
	outDir    string
}

func runGenerate(c *cli.Context) error {
	ctx := c.Context
	headers := c.Args().Slice()
	if len(headers) == 0 {
		return errors.New("at least one header is required")
	}
	output := c.String("output")
	if output != "" && c.String("out-dir") != "" {
		return errors.New("--output and --out-dir are mutually exclusive")
	}

	opts := options{
		preamble:  c.Bool("preamble"),
		dumpModel: c.Bool("dump-model"),
		color:     !c.Bool("no-color"),
		outDir:    c.String("out-dir"),
	}

	var err error
	if path := c.String("tables"); path != "" {
		opts.tables, err = config.LoadFile(path)
	} else {
		opts.tables, err = config.Default()
	}
	if err != nil {
		return err
	}

	if opts.outDir != "" {
		seen := make(map[string]string, len(headers))
		for _, h := range headers {
			if prev, ok := seen[hppName(h)]; ok {
				return errors.Errorf("%s and %s would both write %s", prev, h, hppName(h))
			}
			seen[hppName(h)] = h
		}
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			return errors.Errorf("creating output directory: %w", err)
		}
	}

	gen := generator.New(opts.tables)
	outputs := make([]string, len(headers))
	failures := make([]error, len(headers))

	var dumpMu sync.Mutex
	dump := func(unit *parser.Unit) {
		dumpMu.Lock()
		defer dumpMu.Unlock()
		printer := pp.New()
		printer.SetColoringEnabled(opts.color)
		printer.Fprintln(c.App.ErrWriter, unit)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, header := range headers {
		i, header := i, header
		g.Go(func() error {
			out, err := translate(ctx, gen, header, opts, dump)
			if err != nil {
				failures[i] = err
				return nil
			}
			if opts.outDir != "" {
				failures[i] = writeFile(ctx, filepath.Join(opts.outDir, hppName(header)), out)
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	g.Wait()

	var merr *multierror.Error
	for _, err := range failures {
		if err != nil {
			slogctx.Error(ctx, "translation failed", "error", err)
			merr = multierror.Append(merr, err)
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return err
	}

	if opts.outDir != "" {
		return nil
	}
	joined := strings.Join(outputs, "\n")
	if output != "" {
		return writeFile(ctx, output, joined)
	}
	if _, err := io.WriteString(c.App.Writer, joined); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	return nil
}

func translate(ctx context.Context, gen *generator.Generator, path string, opts options, dump func(*parser.Unit)) (string, error) {
	ctx = slogctx.Append(ctx, "header", filepath.Base(path))

	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading header %s: %w", path, err)
	}
	slogctx.Debug(ctx, "parsing header", "size", humanize.Bytes(uint64(len(src))))

	unit, err := parser.Parse(ctx, src)
	if err != nil {
		return "", errors.Errorf("parsing %s: %w", path, err)
	}
	if opts.dumpModel {
		dump(unit)
	}

	res, err := gen.Generate(ctx, unit)
	if err != nil {
		return "", errors.Errorf("generating %s: %w", path, err)
	}
	logging.LogReport(ctx, res.Report)

	out := res.Output
	if opts.preamble {
		preamble, err := generator.RenderPreamble(filepath.Base(path), opts.tables)
		if err != nil {
			return "", err
		}
		out = preamble + out
	}

	slogctx.Info(ctx, "generated wrappers",
		"enums", res.Enums,
		"structs", res.Structs,
		"size", humanize.Bytes(uint64(len(out))),
	)
	return out, nil
}

func hppName(header string) string {
	base := filepath.Base(header)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".hpp"
}

func writeFile(ctx context.Context, path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	slogctx.Info(ctx, "wrote file", "path", path, "size", humanize.Bytes(uint64(len(content))))
	return nil
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/kr/pretty"
	"github.com/siadat/tcldoc/config"
	"github.com/siadat/tcldoc/docs"
	"github.com/siadat/tcldoc/fumt"
	"github.com/siadat/tcldoc/render"
	"github.com/siadat/tcldoc/syntax/ast"
	"github.com/siadat/tcldoc/syntax/parser"
	"github.com/siadat/tcldoc/watch"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

type env struct {
	cfg    *config.Config
	logger *slog.Logger
	debug  bool
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var e = &env{stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "tcldoc",
		Usage:     "generate documentation from Tcl sources",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name: "debug",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML config file",
			},
		},
		Before: func(cmdCtx *cli.Context) error {
			return e.setup(cmdCtx.String("config"), cmdCtx.Bool("debug"))
		},
		Commands: []*cli.Command{
			{
				Name:  "parse",
				Usage: "print the commands of a Tcl file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "path to Tcl file to be parsed",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "print Go values instead of YAML",
					},
				},
				Action: func(cmdCtx *cli.Context) error {
					return e.parse(cmdCtx.String("file"), cmdCtx.Bool("pretty"))
				},
			},
			{
				Name:      "doc",
				Usage:     "generate documentation for files and directories",
				ArgsUsage: "PATH...",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output file, stdout when empty",
					},
					keepGoingFlag(),
				},
				Action: func(cmdCtx *cli.Context) error {
					var opts, err = e.docOptions(cmdCtx)
					if err != nil {
						return err
					}
					return e.generate(opts)
				},
			},
			{
				Name:  "fmt",
				Usage: "format a Tcl file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "path to Tcl file to be formatted",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "write",
						Aliases: []string{"w"},
						Usage:   "write the result back to the file",
					},
				},
				Action: func(cmdCtx *cli.Context) error {
					return e.format(cmdCtx.String("file"), cmdCtx.Bool("write"))
				},
			},
			{
				Name:      "watch",
				Usage:     "regenerate documentation when sources change",
				ArgsUsage: "PATH...",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "output file",
						Required: true,
					},
					keepGoingFlag(),
				},
				Action: func(cmdCtx *cli.Context) error {
					var opts, err = e.docOptions(cmdCtx)
					if err != nil {
						return err
					}
					return e.watch(cmdCtx, opts)
				},
			},
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "output format: " + strings.Join(render.Formats, ", "),
	}
}

func keepGoingFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "keep-going",
		Aliases: []string{"k"},
		Usage:   "skip files that fail to parse",
	}
}

func (e *env) setup(configPath string, debug bool) error {
	var cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	var level, levelErr = cfg.Log.SlogLevel()
	if levelErr != nil {
		return levelErr
	}
	if debug {
		level = slog.LevelDebug
	}

	e.cfg = cfg
	e.debug = debug
	e.logger = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	return nil
}

type yamlCommand struct {
	Line     int      `yaml:"line"`
	Column   int      `yaml:"column"`
	Words    []string `yaml:"words"`
	Comments []string `yaml:"comments,omitempty"`
}

func (e *env) parse(file string, prettyPrint bool) error {
	var byts, readErr = os.ReadFile(file)
	if readErr != nil {
		return readErr
	}

	var p = parser.NewParser(byts, 1)
	p.SetName(file)
	p.SetLogger(e.logger)
	p.SetDebug(e.debug)
	if err := p.Parse(); err != nil {
		return err
	}

	if prettyPrint {
		_, err := fmt.Fprintf(e.stdout, "%# v\n", pretty.Formatter(p.Commands()))
		return err
	}

	var commands = []yamlCommand{}
	for _, cmd := range p.Commands() {
		var yc = yamlCommand{Line: cmd.Position.Line, Column: cmd.Position.Column}
		for _, w := range cmd.Words {
			yc.Words = append(yc.Words, w.String())
		}
		yc.Comments = strippedComments(cmd.Comments)
		commands = append(commands, yc)
	}
	var enc = yaml.NewEncoder(e.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{
		"commands":          commands,
		"trailing_comments": strippedComments(p.TrailingComments()),
	}); err != nil {
		return err
	}
	return enc.Close()
}

func strippedComments(comments []ast.Comment) []string {
	var ret = []string{}
	for _, c := range comments {
		ret = append(ret, c.Stripped())
	}
	return ret
}

type docOptions struct {
	paths     []string
	format    string
	out       string
	keepGoing bool
}

func (e *env) docOptions(cmdCtx *cli.Context) (docOptions, error) {
	var opts = docOptions{
		paths:     cmdCtx.Args().Slice(),
		format:    e.cfg.Output.Format,
		out:       e.cfg.Output.File,
		keepGoing: e.cfg.Parse.KeepGoing || cmdCtx.Bool("keep-going"),
	}
	if cmdCtx.IsSet("format") {
		opts.format = cmdCtx.String("format")
	}
	if cmdCtx.IsSet("out") {
		opts.out = cmdCtx.String("out")
	}
	if len(opts.paths) == 0 {
		return opts, fmt.Errorf("no input paths")
	}
	if !render.Supported(opts.format) {
		return opts, fmt.Errorf("unknown format %q, expected one of %s", opts.format, strings.Join(render.Formats, ", "))
	}
	return opts, nil
}

// collectFiles expands directories into the files with a configured
// extension. Files named explicitly are always kept.
func (e *env) collectFiles(paths []string) ([]string, error) {
	var seen = make(map[string]struct{})
	var files []string
	var add = func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, root := range paths {
		var info, err = os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var dirFiles []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if e.cfg.Parse.HasExtension(path) {
				dirFiles = append(dirFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(dirFiles)
		for _, f := range dirFiles {
			add(f)
		}
	}
	return files, nil
}

func (e *env) generate(opts docOptions) error {
	var files, err = e.collectFiles(opts.paths)
	if err != nil {
		return err
	}

	var reg = docs.NewRegistry()
	var processor = docs.NewProcessor(reg)
	processor.SetLogger(e.logger)
	processor.SetDebug(e.debug)

	var skipped int
	for _, file := range files {
		var byts, readErr = os.ReadFile(file)
		if readErr != nil {
			return readErr
		}
		if err := processor.ProcessFile(file, byts); err != nil {
			if !opts.keepGoing {
				return err
			}
			skipped += 1
			e.logger.Warn("skipping file", "file", file, "err", err)
		}
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, opts.format, reg); err != nil {
		return err
	}
	if opts.out == "" {
		_, err = e.stdout.Write(buf.Bytes())
	} else {
		err = os.WriteFile(opts.out, buf.Bytes(), 0o644)
	}
	if err != nil {
		return err
	}

	e.logger.Info("generated documentation", "files", len(files), "skipped", skipped, "procedures", len(reg.Procedures()), "out", opts.out)
	return nil
}

func (e *env) format(file string, write bool) error {
	var byts, readErr = os.ReadFile(file)
	if readErr != nil {
		return readErr
	}

	var formater = fumt.NewFormater()
	formater.SetDebug(e.debug)
	var buf bytes.Buffer
	if err := formater.Format(bytes.NewReader(byts), &buf); err != nil {
		return err
	}

	if write {
		if bytes.Equal(byts, buf.Bytes()) {
			return nil
		}
		return os.WriteFile(file, buf.Bytes(), 0o644)
	}
	_, err := e.stdout.Write(buf.Bytes())
	return err
}

func (e *env) watch(cmdCtx *cli.Context, opts docOptions) error {
	if err := e.generate(opts); err != nil {
		e.logger.Error("generating documentation", "err", err)
	}

	var w, err = watch.NewWatcher(opts.paths, e.cfg.Parse.Extensions, e.cfg.Watch.Debounce.Duration)
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetLogger(e.logger)

	var ctx, stop = signal.NotifyContext(cmdCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.logger.Info("watching for changes", "paths", opts.paths)
	return w.Run(ctx, func(changed []string) {
		e.logger.Info("sources changed", "files", changed)
		if err := e.generate(opts); err != nil {
			e.logger.Error("generating documentation", "err", err)
		}
	})
}

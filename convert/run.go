// Package convert implements "convert" command: finds stylesheets, runs
// transformation on each of them and writes results.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pxtovw/css"
	"pxtovw/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	if cmd.NArg() == 0 {
		return errors.New("no input source has been specified")
	}

	dst := cmd.String("out")
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}

	pattern := env.Cfg.Processing.Pattern
	if p := cmd.String("pattern"); len(p) > 0 {
		pattern = p
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid pattern: %s", pattern)
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	if err := env.PrepareTransformer(); err != nil {
		return fmt.Errorf("unable to prepare transformation: %w", err)
	}

	log.Info("Processing starting", zap.Strings("sources", cmd.Args().Slice()), zap.String("destination", dst), zap.String("pattern", pattern))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	var sheets []stylesheet
	for _, src := range cmd.Args().Slice() {
		found, err := discover(ctx, src, pattern, log)
		if err != nil {
			return err
		}
		sheets = append(sheets, found...)
	}
	if len(sheets) == 0 {
		log.Warn("Nothing to process")
		return nil
	}
	return process(ctx, sheets, dst, log)
}

// process transforms stylesheets concurrently. Failure of a single stylesheet
// does not stop others, all failures are reported together.
func process(ctx context.Context, sheets []stylesheet, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	workers := env.Cfg.Processing.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu     sync.Mutex
		failed error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, s := range sheets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := processStylesheet(gctx, s, dst, log); err != nil {
				log.Error("Unable to process stylesheet", zap.String("file", s.name), zap.Error(err))
				mu.Lock()
				failed = multierr.Append(failed, fmt.Errorf("%s: %w", s.name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return failed
}

// processStylesheet parses, transforms and writes out a single stylesheet.
func processStylesheet(ctx context.Context, s stylesheet, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	outputName, err := buildOutputPath(s, dst, env)
	if err != nil {
		return err
	}

	log.Debug("Conversion starting", zap.String("from", s.name))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		}
	}(time.Now())

	data, err := s.read()
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}

	root, err := css.NewParser(env.Log).Parse(data, s.path)
	if err != nil {
		return err
	}
	result := css.NewResult(root)
	stats := env.Transformer.Process(result)

	for _, w := range result.Warnings {
		log.Warn("Conversion warning", zap.String("file", s.name), zap.String("plugin", w.Plugin), zap.String("text", w.Text))
	}
	if env.Debug {
		log.Debug("Resulting stylesheet tree", zap.String("file", s.name), zap.String("tree", root.Dump()))
	}

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Debug("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := writeFile(outputName, result); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	log.Info("Stylesheet converted", zap.String("from", s.name), zap.String("to", outputName),
		zap.Int("converted", stats.Converted+stats.Inserted), zap.Int("media", stats.MediaBlocks), zap.Int("warnings", len(result.Warnings)))
	return nil
}

// writeFile replaces target atomically through temporary file in the same
// directory.
func writeFile(name string, result *css.Result) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+strings.TrimPrefix(filepath.Base(name), ".")+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if _, err = result.Root.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

// Command aligntest compares two image files the way the desktop application
// compares two captures and prints the alignment and difference summary.
package main

import (
	"flag"
	"fmt"
	"os"

	"detailist/internal/app"
	"detailist/internal/compare"
	"detailist/internal/config"
	dimage "detailist/internal/image"
	"detailist/internal/logger"
	"detailist/internal/viewport"
)

func main() {
	pathA := flag.String("a", "", "Path to the first image (slot 1)")
	pathB := flag.String("b", "", "Path to the second image (slot 2)")
	doAlign := flag.Bool("align", false, "Auto-center the second image before comparing")
	mode := flag.String("mode", "", "Comparison mode: heatmap, opacity or simplediff (default from config)")
	strength := flag.Int("strength", 0, "Comparison strength 1-100 (default from config)")
	ax := flag.Int("ax", 0, "Viewport X offset in the first image")
	ay := flag.Int("ay", 0, "Viewport Y offset in the first image")
	bx := flag.Int("bx", 0, "Viewport X offset in the second image")
	by := flag.Int("by", 0, "Viewport Y offset in the second image")
	out := flag.String("out", "", "Write the difference image to this PNG file")
	configPath := flag.String("config", "", "Path to a detailist.yaml config file")
	logLevel := flag.String("log-level", "", "Log level (default from config)")
	flag.Parse()

	if *pathA == "" || *pathB == "" {
		fmt.Println("Usage: aligntest -a <image> -b <image> [-align] [-mode heatmap] [-strength 20] [-out diff.png]")
		os.Exit(1)
	}

	if err := run(options{
		pathA: *pathA, pathB: *pathB,
		align: *doAlign, mode: *mode, strength: *strength,
		offsetA: [2]int{*ax, *ay}, offsetB: [2]int{*bx, *by},
		out: *out, configPath: *configPath, logLevel: *logLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "aligntest: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	pathA, pathB     string
	align            bool
	mode             string
	strength         int
	offsetA, offsetB [2]int
	out              string
	configPath       string
	logLevel         string
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.NewConsole(level)

	compareCfg, err := cfg.CompareConfig()
	if err != nil {
		return err
	}
	if opts.mode != "" {
		if compareCfg.Mode, err = compare.ParseMode(opts.mode); err != nil {
			return err
		}
	}
	if opts.strength != 0 {
		compareCfg.Strength = opts.strength
	}

	// Recomputation runs synchronously so each step sees the previous result.
	state, err := app.NewState(
		app.WithLogger(log),
		app.WithBounds(cfg.Bounds()),
		app.WithSteps(cfg.Steps()),
		app.WithCompareConfig(compareCfg),
		app.WithDebounce(0),
	)
	if err != nil {
		return err
	}
	defer state.Close()

	for i, path := range []string{opts.pathA, opts.pathB} {
		slot := app.Slots[i]
		buf, err := dimage.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s (%dx%d)\n", slot, path, buf.Width, buf.Height)
		if err := state.CaptureInto(slot, buf); err != nil {
			return err
		}
	}

	for i, off := range [][2]int{opts.offsetA, opts.offsetB} {
		if off == [2]int{} {
			continue
		}
		if err := state.MoveViewport(app.Slots[i], viewport.SetOp(off[0], off[1])); err != nil {
			return err
		}
	}

	if opts.align {
		res, err := state.AutoAlign()
		if err != nil {
			return fmt.Errorf("auto align: %w", err)
		}
		fmt.Printf("\n=== Alignment ===\n")
		fmt.Printf("Shift: dx=%d dy=%d (channel %d)\n", res.DX, res.DY, res.Channel)
		fmt.Printf("Horizontal run: %d bins, a@%d b@%d\n", res.MatchX.Length, res.MatchX.StartA, res.MatchX.StartB)
		fmt.Printf("Vertical run:   %d bins, a@%d b@%d\n", res.MatchY.Length, res.MatchY.StartA, res.MatchY.StartB)
	}

	if err := state.RecomputeDiff(); err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	fmt.Printf("\n=== Comparison (%s, strength %d) ===\n", compareCfg.Mode, compareCfg.Strength)
	for _, slot := range app.Slots {
		off := state.Viewport(slot).Offset()
		fmt.Printf("%s viewport: (%d, %d)\n", slot, off.X, off.Y)
	}
	if summary, ok := state.Summary(); ok {
		fmt.Println(summary)
	}

	if opts.out == "" {
		return nil
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	if err := state.ExportTo(f, app.TargetDiff); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", opts.out)
	return nil
}

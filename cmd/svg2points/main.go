package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tdewolff/argp"
	"github.com/tdewolff/pointcloud"
)

type Main struct {
	Size    int      `short:"s" default:"512" desc:"Raster resolution in pixels"`
	Radius  float64  `short:"r" default:"6" desc:"Minimum distance between points in pixels"`
	Tries   int      `short:"t" default:"30" desc:"Candidates per point before it is retired"`
	Step    float64  `default:"1" desc:"Arc length between outline samples"`
	Seed    uint64   `default:"0" desc:"Random seed, 0 picks a random seed"`
	Output  string   `short:"o" desc:"Output directory, defaults to the directory of each input"`
	Jobs    int      `short:"j" default:"0" desc:"Number of files processed concurrently, 0 for one per CPU"`
	Mask    bool     `desc:"Also write the rasterized mask as PNG"`
	Verbose bool     `short:"v" desc:"Log statistics of each stage"`
	Quiet   bool     `short:"q" desc:"Do not print processed files"`
	Inputs  []string `index:"*" desc:"SVG files"`
}

func main() {
	root := argp.NewCmd(&Main{}, "Blue noise point clouds from SVG silhouettes")
	root.Parse()
	root.PrintHelp()
}

// Run returns an error when any file failed, argp prints it and exits with status 1.
func (cmd *Main) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.run(ctx, os.Stdout, os.Stderr)
}

func (cmd *Main) options() pointcloud.Options {
	return pointcloud.Options{
		Config: pointcloud.Config{
			Size:     cmd.Size,
			Radius:   cmd.Radius,
			MaxTries: cmd.Tries,
			Step:     cmd.Step,
			Seed:     cmd.Seed,
		},
		OutputDir: cmd.Output,
		Jobs:      cmd.Jobs,
		Mask:      cmd.Mask,
	}
}

// run processes all inputs, it reports each failed file on stderr and returns an error if
// there were any.
func (cmd *Main) run(ctx context.Context, stdout, stderr io.Writer) error {
	if len(cmd.Inputs) == 0 {
		return errors.New("please provide SVG files as arguments")
	}

	level := slog.LevelWarn
	if cmd.Verbose {
		level = slog.LevelDebug
	}
	pointcloud.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	opts := cmd.options()
	if err := opts.Validate(); err != nil {
		return err
	}

	failed := 0
	results := pointcloud.ProcessFiles(ctx, cmd.Inputs, opts)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(stderr, "ERROR: %s: %v\n", res.Input, res.Err)
			failed++
		} else if !cmd.Quiet {
			fmt.Fprintf(stdout, "%s : %d pts\n", res.Output, res.Points)
		}
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

package pointcloud

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options configures a batch run.
type Options struct {
	Config
	OutputDir string // directory for the output files, next to the input when empty
	Jobs      int    // number of files processed concurrently, GOMAXPROCS when zero
	Mask      bool   // write the rasterized mask as a PNG next to the output
}

// Result is the outcome of processing one input file.
type Result struct {
	Input  string
	Output string
	Points int
	Err    error
}

// Failed returns true if any of the results has an error.
func Failed(results []Result) bool {
	for _, res := range results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

// OutputPath returns the JSON filename for an input: its extension replaced by .json, in dir if
// it is not empty.
func OutputPath(input, dir string) string {
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".json"
	if dir != "" {
		output = filepath.Join(dir, filepath.Base(output))
	}
	return output
}

func maskPath(output string) string {
	return strings.TrimSuffix(output, ".json") + ".mask.png"
}

// ProcessFiles processes all inputs concurrently and returns one result per input, in the same
// order. Every file is attempted: a failing file does not stop the others. Files that have not
// started when ctx is canceled report the context's error.
func ProcessFiles(ctx context.Context, inputs []string, opts Options) []Result {
	results := make([]Result, len(inputs))
	for i, input := range inputs {
		results[i].Input = input
		results[i].Output = OutputPath(input, opts.OutputDir)
	}
	if err := opts.Config.Validate(); err != nil {
		for i := range results {
			results[i].Err = err
		}
		return results
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i := range inputs {
		res := &results[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res.Err = err
				return nil
			}
			res.Points, res.Err = processFile(res.Input, res.Output, opts, opts.source(i))
			if res.Err != nil {
				Logger().Debug("failed", "input", res.Input, "error", res.Err)
			}
			return nil
		})
	}
	_ = g.Wait() // tasks report through results
	return results
}

func processFile(input, output string, opts Options, rng *rand.Rand) (int, error) {
	svg, err := os.ReadFile(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	pc, err := process(svg, opts.Config, rng)
	if err != nil {
		return 0, err
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	err = writeFile(output, func(w io.Writer) error {
		return WriteJSON(w, pc.Coords())
	})
	if err != nil {
		return 0, err
	}
	if opts.Mask {
		err := writeFile(maskPath(output), func(w io.Writer) error {
			if err := png.Encode(w, pc.Mask.Image()); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
			return nil
		})
		if err != nil {
			// a failed file has no output
			os.Remove(output)
			return 0, err
		}
	}
	return pc.Len(), nil
}

// writeFile writes to a temporary file in the target directory and renames it, so that the
// target either has the complete content or does not change.
func writeFile(filename string, write func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

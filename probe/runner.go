package probe

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/hivequery/hive"
	"github.com/joshuapare/hivequery/internal/logging"
)

// Result is the outcome of one Check. A missing hive file, key or value
// is reported as Present == false with a nil Err; Err is reserved for
// corrupt hives, unsupported value types and other I/O failures.
type Result struct {
	Check   Check  `json:"check"`
	Present bool   `json:"present"`
	Value   string `json:"value,omitempty"`
	Err     error  `json:"-"`
}

// Runner evaluates checks concurrently. The zero value is ready to use.
type Runner struct {
	Concurrency int          // parallel lookups; <= 0 means GOMAXPROCS
	Logger      *slog.Logger // nil means the process logger

	lookup func(path, keyPath, valueName string) (string, error)
}

// Run evaluates every check and returns one Result per check in input
// order. Each lookup parses its own hive buffer. Run only fails when ctx
// is done before all checks ran.
func (r *Runner) Run(ctx context.Context, checks []Check) ([]Result, error) {
	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	log := r.Logger
	if log == nil {
		log = logging.L
	}

	results := make([]Result, len(checks))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, c := range checks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = r.evaluate(log, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) evaluate(log *slog.Logger, c Check) Result {
	lookup := r.lookup
	if lookup == nil {
		lookup = hive.LookupFile
	}

	start := time.Now()
	s, err := lookup(c.Hive, c.Key, c.Value)
	res := Result{Check: c}
	switch {
	case err == nil:
		res.Present, res.Value = true, s
	case hive.IsAbsent(err), errors.Is(err, fs.ErrNotExist):
	default:
		res.Err = err
		log.Warn("probe check failed", "check", c.Name, "hive", c.Hive, "error", err)
	}
	log.Debug("probe check",
		"check", c.Name,
		"present", res.Present,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// Found returns the names of the checks that found their value, in order.
func Found(results []Result) []string {
	var names []string
	for _, res := range results {
		if res.Present {
			names = append(names, res.Check.Name)
		}
	}
	return names
}

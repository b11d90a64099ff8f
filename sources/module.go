package sources

import (
	"context"
	"iter"
	"os"
	"runtime"
	"sync"

	"github.com/reusee/dscope"
	"github.com/reusee/exindent/cmds"
	"github.com/reusee/exindent/indents"
	"github.com/reusee/exindent/logs"
	"github.com/reusee/exindent/syncs"
	"github.com/reusee/exindent/vars"
)

type Module struct {
	dscope.Module
	Indents indents.Module
}

type Jobs int

var jobsFlag = cmds.Var[int]("-jobs")

func (Module) Jobs() Jobs {
	return Jobs(vars.FirstNonZero(*jobsFlag, runtime.NumCPU()))
}

type Result struct {
	Path    string
	Content []byte
	Report  indents.Report
}

// CheckFiles analyzes every enumerated file with at most Jobs files in flight.
// Results follow the enumeration order. Cancelling ctx stops submitting files.
type CheckFiles func(ctx context.Context, paths iter.Seq2[string, error]) ([]Result, error)

func (Module) CheckFiles(
	jobs Jobs,
	analyze indents.AnalyzeFile,
	logger logs.Logger,
) CheckFiles {
	return func(ctx context.Context, paths iter.Seq2[string, error]) (results []Result, err error) {
		sem := syncs.NewSemaphore(int(jobs))
		var wg sync.WaitGroup
		var errOnce sync.Once
		var firstErr error
		setErr := func(err error) {
			errOnce.Do(func() {
				firstErr = err
			})
		}

		var slots []*Result
		for path, err := range paths {
			if err != nil {
				setErr(err)
				break
			}
			if ctx.Err() != nil {
				logger.InfoContext(ctx, "check cancelled", "submitted", len(slots))
				setErr(wrap(ctx.Err()))
				break
			}

			if err := sem.Acquire(ctx); err != nil {
				setErr(wrap(err))
				break
			}
			slot := &Result{
				Path: path,
			}
			slots = append(slots, slot)

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release()

				content, err := os.ReadFile(slot.Path)
				if err != nil {
					setErr(wrap(err))
					return
				}
				slot.Content = content
				report, err := analyze(ctx, slot.Path, content)
				if err != nil {
					setErr(wrap(err))
					return
				}
				slot.Report = report
			}()
		}
		wg.Wait()

		if firstErr != nil {
			return nil, firstErr
		}
		results = make([]Result, 0, len(slots))
		for _, slot := range slots {
			results = append(results, *slot)
		}
		return results, nil
	}
}

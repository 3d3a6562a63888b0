package pipeline

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/backmassage/clipstack/internal/display"
	"github.com/backmassage/clipstack/internal/scene"
)

// Outcome is how a folder finished.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	Skipped // No videos, or interrupted before it started.
	Planned // Dry run.
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "ok"
	case Failed:
		return "failed"
	case Planned:
		return "planned"
	default:
		return "skipped"
	}
}

// FolderResult is the record of one scene folder.
type FolderResult struct {
	Folder   string
	Category scene.Category
	Plan     string // Step kinds of the matched plan, "" when none.
	Assets   int
	Output   string
	Size     int64
	Elapsed  time.Duration
	Outcome  Outcome
	Err      error   // Why the folder failed or was skipped.
	Problems []error // Non-fatal preprocessing failures.
}

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Planned   int
	Results   []FolderResult // Sorted by folder name.
}

// tally accumulates results from concurrent workers.
type tally struct {
	mu      sync.Mutex
	results []FolderResult
}

func (t *tally) record(r FolderResult) {
	t.mu.Lock()
	t.results = append(t.results, r)
	t.mu.Unlock()
}

func (t *tally) stats(runID string, total int) RunStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := RunStats{RunID: runID, Total: total, Results: append([]FolderResult(nil), t.results...)}
	sort.SliceStable(s.Results, func(i, j int) bool { return s.Results[i].Folder < s.Results[j].Folder })
	for _, r := range s.Results {
		switch r.Outcome {
		case Succeeded:
			s.Succeeded++
		case Failed:
			s.Failed++
		case Planned:
			s.Planned++
		default:
			s.Skipped++
		}
	}
	return s
}

// Rows converts the results for the summary table.
func (s RunStats) Rows() []display.Row {
	rows := make([]display.Row, len(s.Results))
	for i, r := range s.Results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		} else if n := len(r.Problems); n > 0 {
			detail = r.Problems[n-1].Error()
			if n > 1 {
				detail = fmt.Sprintf("(+%d more) %s", n-1, detail)
			}
		}
		rows[i] = display.Row{
			Folder:   r.Folder,
			Category: r.Category.String(),
			Plan:     r.Plan,
			Assets:   r.Assets,
			Outcome:  r.Outcome.String(),
			Size:     r.Size,
			Elapsed:  r.Elapsed,
			Detail:   detail,
		}
	}
	return rows
}

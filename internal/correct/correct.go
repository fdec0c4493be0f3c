// Package correct drives the diagram-correction engine: tab expansion,
// line analysis, block detection, and the bounded per-block revision loop.
// The whole pipeline is a pure computation over in-memory text; the input
// is never mutated in place and nothing here performs I/O.
package correct

import (
	"go.uber.org/zap"

	"boxmend/internal/analyze"
	"boxmend/internal/config"
	"boxmend/internal/detect"
	"boxmend/internal/revise"
)

// State is the terminal condition of one block's correction loop.
type State int

const (
	// Converged means no remaining revision cleared the score threshold.
	Converged State = iota
	// IterationLimitReached means the loop hit its cap first; the block is
	// emitted in its last, partially corrected state. Not an error.
	IterationLimitReached
)

// String names the state for diagnostics.
func (s State) String() string {
	if s == IterationLimitReached {
		return "iteration-limit-reached"
	}
	return "converged"
}

// BlockResult reports how one block's loop ended.
type BlockResult struct {
	State      State
	Iterations int
	Revisions  int
}

// Stats aggregates a whole document run for verbose output.
type Stats struct {
	BlocksFound      int
	BlocksModified   int
	RevisionsApplied int
	IterationsUsed   int
}

// Block runs the correction loop over one block until convergence or the
// iteration cap. Each pass re-analyzes every line, collects revisions
// scoring at or above MinScore, resolves per-line conflicts toward the
// higher score, and applies the survivors. Out-of-range revisions are
// dropped silently.
func Block(b *detect.Block, cfg config.Correction, log *zap.Logger) BlockResult {
	engine := revise.Engine{PadSanityLimit: cfg.PadSanityLimit}
	res := BlockResult{}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		// Scanning: rebuild records from the current text.
		for i, rec := range b.Lines {
			b.Lines[i] = analyze.Line(rec.Raw)
		}

		selected := selectRevisions(engine.Generate(b), b, cfg.MinScore)
		if len(selected) == 0 {
			res.State = Converged
			if log != nil && iter > 0 {
				log.Debug("block converged",
					zap.Int("start", b.Start+1),
					zap.Int("iterations", iter))
			}
			return res
		}

		// Revising: apply each survivor to its own line.
		applied := 0
		for _, rev := range selected {
			i := rev.TargetLine()
			newRec, err := rev.Apply(b.Lines[i])
			if err != nil {
				// Defensive: the target vanished. Drop and carry on.
				continue
			}
			b.Lines[i] = newRec
			applied++
		}
		res.Iterations = iter + 1
		res.Revisions += applied

		if log != nil {
			log.Debug("applied revisions",
				zap.Int("start", b.Start+1),
				zap.Int("iteration", iter+1),
				zap.Int("revisions", applied))
		}
	}

	res.State = IterationLimitReached
	if log != nil {
		log.Debug("iteration limit reached",
			zap.Int("start", b.Start+1),
			zap.Int("iterations", res.Iterations))
	}
	return res
}

// selectRevisions keeps revisions scoring at or above minScore and, when
// two target the same line, only the higher-scoring one.
func selectRevisions(revs []revise.Revision, b *detect.Block, minScore float64) []revise.Revision {
	best := make(map[int]revise.Revision, len(revs))
	bestScore := make(map[int]float64, len(revs))
	order := make([]int, 0, len(revs))

	for _, rev := range revs {
		score := rev.Score(b)
		if score < minScore {
			continue
		}
		line := rev.TargetLine()
		if prev, ok := bestScore[line]; ok {
			if score > prev {
				best[line] = rev
				bestScore[line] = score
			}
			continue
		}
		best[line] = rev
		bestScore[line] = score
		order = append(order, line)
	}

	out := make([]revise.Revision, 0, len(order))
	for _, line := range order {
		out = append(out, best[line])
	}
	return out
}

// Document corrects a whole document: expand tabs once, analyze every
// line, detect blocks, run each block's loop in document order, and
// reassemble. Lines outside blocks pass through untouched (beyond tab
// expansion).
func Document(lines []string, cfg config.Correction, log *zap.Logger) ([]string, Stats) {
	out := make([]string, len(lines))
	records := make([]analyze.LineRecord, len(lines))
	for i, line := range lines {
		out[i] = analyze.ExpandTabs(line, cfg.TabWidth)
		records[i] = analyze.Line(out[i])
	}

	blocks := detect.Blocks(records, detect.Options{
		GapTolerance:         cfg.GapTolerance,
		IncludeLowConfidence: cfg.IncludeLowConfidence,
	})

	stats := Stats{BlocksFound: len(blocks)}
	for bi := range blocks {
		b := &blocks[bi]
		if log != nil {
			log.Debug("correcting block",
				zap.Int("index", bi+1),
				zap.Int("first_line", b.Start+1),
				zap.Int("last_line", b.End+1),
				zap.Float64("confidence", b.Confidence))
		}

		res := Block(b, cfg, log)
		stats.RevisionsApplied += res.Revisions
		stats.IterationsUsed += res.Iterations
		if res.Revisions > 0 {
			stats.BlocksModified++
		}

		for i, rec := range b.Lines {
			out[b.Start+i] = rec.Raw
		}
	}
	return out, stats
}

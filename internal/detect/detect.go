// Package detect groups analyzed lines into candidate diagram blocks and
// scores how likely each run is to be a genuine diagram. Detection runs
// exactly once, before correction; blocks are never re-merged mid-loop.
package detect

import (
	"boxmend/internal/analyze"
	"boxmend/internal/boxchar"
)

// DefaultMinConfidence is the score below which a candidate run is dropped
// unless the caller asked for low-confidence blocks.
const DefaultMinConfidence = 0.3

// DefaultGapTolerance is how many blank lines a diagram may contain before
// the run closes.
const DefaultGapTolerance = 1

// lookahead is how far past a non-diagram line the scanner peeks for more
// diagram content before giving up on the run.
const lookahead = 3

// Options controls the detector scan.
type Options struct {
	// GapTolerance is the number of blank lines tolerated inside a run.
	GapTolerance int
	// MinConfidence drops candidate runs scoring below it.
	MinConfidence float64
	// IncludeLowConfidence keeps every candidate regardless of score. The
	// detector still computes confidence; the caller owns the threshold.
	IncludeLowConfidence bool
}

// Block is a contiguous run of lines identified as one diagram.
type Block struct {
	// Start and End are document line indexes, End inclusive.
	Start int
	End   int
	// Confidence estimates in [0,1] how likely the run is a real diagram.
	Confidence float64
	// Lines holds the analyzed records for the run. Correction replaces
	// them wholesale each pass.
	Lines []analyze.LineRecord
}

// Len returns the number of lines in the block.
func (b *Block) Len() int { return b.End - b.Start + 1 }

// Raw returns the block's current line contents.
func (b *Block) Raw() []string {
	out := make([]string, len(b.Lines))
	for i, rec := range b.Lines {
		out[i] = rec.Raw
	}
	return out
}

// Blocks scans records top to bottom and returns the candidate diagram
// blocks. A run starts on a Diagram line or one containing a corner or
// junction, extends through diagram-ish lines and small gaps, and closes
// when neither holds.
func Blocks(records []analyze.LineRecord, opts Options) []Block {
	if opts.GapTolerance <= 0 {
		opts.GapTolerance = DefaultGapTolerance
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}

	var blocks []Block
	i := 0
	for i < len(records) {
		if !startsRun(records[i]) {
			i++
			continue
		}

		end := i + 1 // half-open while scanning
		gap := 0
	scan:
		for end < len(records) {
			rec := records[end]
			switch {
			case rec.Kind == analyze.Diagram || rec.Boxy:
				gap = 0
				end++
			case rec.Kind == analyze.Blank:
				gap++
				if gap > opts.GapTolerance {
					break scan
				}
				end++
			default:
				// A lone prose or code line may sit inside a diagram
				// (a caption, a label row). Bridge it only when more
				// diagram content follows closely and no gap is open.
				if gap == 0 && diagramAhead(records, end+1) {
					end++
					continue
				}
				break scan
			}
		}
		for end > i+1 && records[end-1].Kind == analyze.Blank {
			end--
		}

		b := Block{
			Start: i,
			End:   end - 1,
			Lines: append([]analyze.LineRecord(nil), records[i:end]...),
		}
		b.Confidence = confidence(b.Lines)

		if opts.IncludeLowConfidence || b.Confidence >= opts.MinConfidence {
			blocks = append(blocks, b)
		}
		i = end
	}
	return blocks
}

func startsRun(rec analyze.LineRecord) bool {
	if rec.Kind == analyze.Diagram {
		return true
	}
	for _, r := range rec.Raw {
		if boxchar.IsCorner(r) || boxchar.IsJunction(r) {
			return true
		}
	}
	return false
}

func diagramAhead(records []analyze.LineRecord, from int) bool {
	for j := from; j < len(records) && j < from+lookahead; j++ {
		if records[j].Kind == analyze.Diagram || records[j].Boxy {
			return true
		}
	}
	return false
}

// confidence combines three signals: the fraction of lines classified
// Diagram, the presence of a matched corner pair, and how consistent the
// trailing-border column is across lines.
func confidence(lines []analyze.LineRecord) float64 {
	nonBlank := 0
	diagrams := 0
	corners := 0
	var cols []int
	for _, rec := range lines {
		if rec.Kind == analyze.Blank {
			continue
		}
		nonBlank++
		if rec.Kind == analyze.Diagram {
			diagrams++
		}
		for _, r := range rec.Raw {
			if boxchar.IsCorner(r) {
				corners++
			}
		}
		if rec.Suffix != nil {
			cols = append(cols, rec.Suffix.Column)
		}
	}
	if nonBlank == 0 {
		return 0
	}

	frac := float64(diagrams) / float64(nonBlank)

	pair := 0.0
	if corners >= 2 {
		pair = 1.0
	}

	score := 0.5*frac + 0.2*pair + 0.3*columnConsistency(cols)
	if score > 1 {
		score = 1
	}
	return score
}

// columnConsistency maps the spread of trailing-border columns to [0,1]:
// no borders at all scores 0, identical columns score 1, and wider spreads
// decay linearly until a 10-column drift scores 0.
func columnConsistency(cols []int) float64 {
	if len(cols) == 0 {
		return 0
	}
	lo, hi := cols[0], cols[0]
	for _, c := range cols[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	spread := hi - lo
	if spread >= 10 {
		return 0
	}
	return 1 - float64(spread)/10
}

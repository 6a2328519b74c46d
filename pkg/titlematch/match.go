package titlematch

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Confidence is a coarse bucket over the similarity score.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // score < 0.70
	ConfidenceLow                      // score >= 0.70
	ConfidenceMedium                   // score >= 0.85
	ConfidenceHigh                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Candidate is one catalog search result.
type Candidate struct {
	ID    int64
	Title string
	Year  int
}

// Result is the best candidate for a query.
type Result struct {
	Candidate  Candidate
	Score      float64
	Confidence Confidence
}

// Matched reports whether a candidate was selected at all.
func (r Result) Matched() bool { return r.Confidence != ConfidenceNone }

// Best picks the candidate whose title is most similar to title by
// Jaro-Winkler over cleaned titles. When year is non-zero, candidates with
// a known year more than one year away are skipped. Matching sequel numbers
// earn a small bonus and mismatched ones a penalty.
func Best(title string, year int, candidates []Candidate) Result {
	query := Clean(title)
	queryNums := numberRegex.FindAllString(query, -1)

	var best Result
	for _, c := range candidates {
		if year != 0 && c.Year != 0 && abs(c.Year-year) > 1 {
			continue
		}
		cleaned := Clean(c.Title)
		score := float64(edlib.JaroWinklerSimilarity(query, cleaned))
		score = adjustForNumbers(score, queryNums, numberRegex.FindAllString(cleaned, -1))
		if score > best.Score {
			best = Result{Candidate: c, Score: score}
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		return Result{}
	}
	return best
}

func adjustForNumbers(score float64, queryNums, candidateNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}
	have := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		have[n] = true
	}
	for _, n := range queryNums {
		if have[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

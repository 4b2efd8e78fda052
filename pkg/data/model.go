package data

// ChapterRange is an inclusive range of chapter numbers.
type ChapterRange struct {
	Start int
	End   int
}

// Len returns the number of chapters in the range, 0 when Start > End
func (r ChapterRange) Len() int {
	if r.Start > r.End {
		return 0
	}
	return r.End - r.Start + 1
}

type OutcomeKind int

const (
	OutcomeImage OutcomeKind = iota
	OutcomeChapter
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeImage:
		return "image"
	case OutcomeChapter:
		return "chapter"
	default:
		return "unknown"
	}
}

// Outcome is the result of one attempted image download or chapter page fetch
type Outcome struct {
	Kind    OutcomeKind
	Chapter string // chapter or sub-chapter tag
	URL     string
	Path    string // file written, empty for chapter outcomes and failures
	Err     error
}

func (o Outcome) Success() bool {
	return o.Err == nil
}

// Report aggregates the outcomes of a run
type Report struct {
	Chapters int
	Outcomes []Outcome
}

func (r *Report) Add(outcomes ...Outcome) {
	r.Outcomes = append(r.Outcomes, outcomes...)
}

// Attempted counts images attempted plus chapter pages that failed to fetch.
// Chapter pages fetched successfully are not counted.
func (r *Report) Attempted() int {
	return len(r.Outcomes)
}

func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success() {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return r.Attempted() - r.Succeeded()
}

// Failures returns the failed outcomes in the order they were recorded
func (r *Report) Failures() []Outcome {
	var failures []Outcome
	for _, o := range r.Outcomes {
		if !o.Success() {
			failures = append(failures, o)
		}
	}
	return failures
}

package scan

// PageStatus classifies the outcome of a single page fetch.
type PageStatus int

const (
	// StatusSuccess means the page returned a parseable movie list.
	StatusSuccess PageStatus = iota
	// StatusEndOfData means the page lies past the end of the year's data,
	// or failed in a way the server makes indistinguishable from that.
	StatusEndOfData
	// StatusUnauthorized means the session token was rejected.
	StatusUnauthorized
)

// String returns a human-readable status name.
func (s PageStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEndOfData:
		return "end_of_data"
	case StatusUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// PageOutcome is the immutable result of one page fetch attempt.
// Count is zero unless Status is StatusSuccess.
type PageOutcome struct {
	Page   int
	Count  int
	Status PageStatus
}

// Result maps page numbers to the outcome observed for each page.
// A scanning pass produces one Result; the coordinator accumulates
// them across passes.
type Result map[int]PageOutcome

// Merge folds a later pass into r. A successful entry is never replaced,
// so a page counted once stays counted exactly once; failed entries are
// overwritten by whatever a retried pass observed for the same page.
func (r Result) Merge(later Result) {
	for page, out := range later {
		if prev, ok := r[page]; ok && prev.Status == StatusSuccess {
			continue
		}
		r[page] = out
	}
}

// Total sums the movie counts of all successful pages.
func (r Result) Total() int {
	total := 0
	for _, out := range r {
		if out.Status == StatusSuccess {
			total += out.Count
		}
	}
	return total
}

// Pages returns the number of successful pages.
func (r Result) Pages() int {
	pages := 0
	for _, out := range r {
		if out.Status == StatusSuccess {
			pages++
		}
	}
	return pages
}

// Session carries the bearer token shared by every fetch in a pass.
// It is replaced wholesale on reauthentication, strictly between passes,
// so in-flight fetches never observe a token write.
type Session struct {
	Token string
}

// YearTotal is the aggregated result for one requested year.
type YearTotal struct {
	Year  int
	Total int
	Pages int
}

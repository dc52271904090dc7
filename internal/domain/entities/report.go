package entities

// ContextStats counts the messages of one context by translation state.
type ContextStats struct {
	Name       string
	Total      int
	Finished   int
	Unfinished int
	Obsolete   int
}

// Stats summarizes a catalog.
type Stats struct {
	Language string
	Contexts []ContextStats
	Total    int
	Finished int
	// Unfinished excludes obsolete and vanished messages.
	Unfinished int
	Obsolete   int
}

// Percent returns the share of finished messages among the active ones.
func (s Stats) Percent() float64 {
	active := s.Total - s.Obsolete
	if active == 0 {
		return 100
	}
	return float64(s.Finished) * 100 / float64(active)
}

// IssueKind classifies a catalog problem.
type IssueKind string

const (
	IssueConflict         IssueKind = "conflict"
	IssueEmptyFinished    IssueKind = "empty_finished"
	IssueNumerusMismatch  IssueKind = "numerus_mismatch"
	IssueDuplicateContext IssueKind = "duplicate_context"
)

// Issue is one problem found while checking a catalog.
type Issue struct {
	Kind    IssueKind
	Context string
	Source  string
	Detail  string
}

// Blocking reports whether the issue makes the catalog unusable as-is.
func (i Issue) Blocking() bool {
	return i.Kind == IssueConflict || i.Kind == IssueDuplicateContext
}

package domain

import "time"

// FailureRecord is the aggregated unit delivered to sinks, one per failing control.
type FailureRecord struct {
	AccountID       string
	ControlID       string
	ControlName     string
	FailedResources int      // as reported by the evaluation listing
	ResourceIDs     []string // FAIL resources in page-arrival order
	RemediationLink string
	// Incomplete is set when resource pagination aborted before the last page.
	// FailedResources is left as reported and may not match len(ResourceIDs).
	Incomplete bool
}

// AccountReport is the ordered sequence of failure records for one account.
type AccountReport struct {
	Account     Account
	Records     []FailureRecord
	GeneratedAt time.Time
}

// IncompleteCount returns how many records carry a partial resource list.
func (r *AccountReport) IncompleteCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Incomplete {
			n++
		}
	}
	return n
}

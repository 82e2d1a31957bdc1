package domain

import "time"

type AccountStatus string

const (
	AccountStatusFinished AccountStatus = "finished"
	AccountStatusPartial  AccountStatus = "partial" // report built, one or more sinks failed
	AccountStatusFailed   AccountStatus = "failed"
)

// AccountOutcome is the result of processing a single account during a run.
type AccountOutcome struct {
	Account    Account
	Status     AccountStatus
	Records    int
	Incomplete int
	Error      *string
}

// RunSummary describes a complete report run over a scope.
type RunSummary struct {
	Scope      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []AccountOutcome
}

func (s RunSummary) Failed() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == AccountStatusFailed {
			n++
		}
	}
	return n
}

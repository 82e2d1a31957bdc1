package domain

type ResourceResult string

const (
	ResultPass ResourceResult = "PASS"
	ResultFail ResourceResult = "FAIL"
)

// Control is one security control's evaluation outcome for an account.
type Control struct {
	ID              string
	Name            string
	FailedResources int
}

// Failing reports whether the control has at least one failed resource.
func (c Control) Failing() bool {
	return c.FailedResources > 0
}

// Resource is one evaluated cloud resource for a control.
type Resource struct {
	ID     string
	Result ResourceResult
}

func (r Resource) Failed() bool {
	return r.Result == ResultFail
}

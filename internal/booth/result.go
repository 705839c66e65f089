package booth

// Status is the lifecycle state of one emotion's generation slot.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Result is the outcome slot for one emotion label. At most one of URL and
// Err is set; a pending result carries neither.
type Result struct {
	Status Status
	URL    string
	Err    string
}

// Terminal reports whether the result will not change without an explicit
// regenerate.
func (r Result) Terminal() bool {
	return r.Status == StatusDone || r.Status == StatusError
}

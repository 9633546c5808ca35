package harness

// TraceEvent records one entry in the execution trace.
// Each step emits an op event when it is dispatched and an outcome
// event when it completes, both stamped with a deterministic sequence
// number.
type TraceEvent struct {
	Type    string                 `json:"type"` // "op" or "outcome"
	Op      string                 `json:"op,omitempty"`
	Args    map[string]interface{} `json:"args,omitempty"`
	Outcome string                 `json:"outcome,omitempty"`
	Seq     int64                  `json:"seq"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains all op and outcome events in order.
	// Used for golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOpTrace adds an operation dispatch to the trace.
func (r *Result) AddOpTrace(op string, args map[string]interface{}, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type: "op",
		Op:   op,
		Args: args,
		Seq:  seq,
	})
}

// AddOutcomeTrace adds an operation outcome to the trace.
func (r *Result) AddOutcomeTrace(outcome string, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    "outcome",
		Outcome: outcome,
		Seq:     seq,
	})
}

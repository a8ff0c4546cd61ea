package pipeline

// Status is the terminal state of one unit of work.
type Status string

const (
	// StatusRecorded means a transaction was persisted and markers recorded.
	StatusRecorded Status = "RECORDED"
	// StatusSkipped means the message was rejected by policy; not an error.
	StatusSkipped Status = "SKIPPED"
	// StatusFailed means the unit failed: unparsable body or persistence error.
	StatusFailed Status = "FAILED"
)

// SkipReason says which policy rejected a skipped message.
type SkipReason string

const (
	SkipSourceDisabled     SkipReason = "source_disabled"
	SkipPromotional        SkipReason = "promotional"
	SkipUntrusted          SkipReason = "untrusted_sender"
	SkipSyntacticDuplicate SkipReason = "syntactic_duplicate"
	SkipSemanticDuplicate  SkipReason = "semantic_duplicate"
	SkipInvalidBody        SkipReason = "invalid_body"
)

// Outcome is the result of processing one message.
type Outcome struct {
	Status        Status
	Reason        SkipReason // set when Status == StatusSkipped
	TransactionID string     // set when Status == StatusRecorded
}

package constants

// RunStatus is the canonical status for rows in match_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning      RunStatus = "RUNNING"      // in progress
	RunStatusMatched      RunStatus = "MATCHED"      // compared, verdict true
	RunStatusNotMatched   RunStatus = "NOT_MATCHED"  // compared, verdict false
	RunStatusInsufficient RunStatus = "INSUFFICIENT" // extraction too sparse to compare
	RunStatusFailed       RunStatus = "FAILED"       // terminal failure (acquisition etc.)
)

// MatchPolicy selects the aggregate decision rule.
type MatchPolicy string

const (
	// PolicyThresholdGate requires vendor, buyer and po_number scores to each
	// clear the threshold, and amount and quantity to match exactly.
	PolicyThresholdGate MatchPolicy = "threshold"
	// PolicyWeightedPoints sums fixed per-field points and passes at a fixed
	// total, gated on exact po_number equality.
	PolicyWeightedPoints MatchPolicy = "weighted"
)

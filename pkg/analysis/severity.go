package analysis

const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

// Confidence thresholds are a heuristic, not disease-specific domain truth.
// Boundaries are strict: exactly 0.90 is Medium, exactly 0.75 is Low.
const (
	highConfidenceThreshold   = 0.90
	mediumConfidenceThreshold = 0.75
)

// InferSeverity derives an ordinal grade from prediction confidence.
// Callers must pass a value in [0,1].
func InferSeverity(confidence float64) string {
	switch {
	case confidence > highConfidenceThreshold:
		return SeverityHigh
	case confidence > mediumConfidenceThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

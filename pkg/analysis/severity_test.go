package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferSeverity(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		want       string
	}{
		{"zero confidence is low", 0.0, SeverityLow},
		{"exactly 0.75 is still low", 0.75, SeverityLow},
		{"just above 0.75 is medium", 0.750001, SeverityMedium},
		{"exactly 0.90 is still medium", 0.90, SeverityMedium},
		{"just above 0.90 is high", 0.900001, SeverityHigh},
		{"full confidence is high", 1.0, SeverityHigh},
		{"typical medium case", 0.89, SeverityMedium},
		{"typical low case", 0.5, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSeverity(tt.confidence))
		})
	}
}

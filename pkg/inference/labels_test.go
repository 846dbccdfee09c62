package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Tomato___Late_blight", "Tomato Late blight"},
		{"Apple___Apple_scab", "Apple Apple scab"},
		{"Corn_(maize)___Common_rust_", "Corn (maize) Common rust "},
		{"Potato___healthy", "Potato healthy"},
		{"already clean", "already clean"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanLabel(tt.label))
	}
}

func TestDiseaseClassesVocabulary(t *testing.T) {
	assert.Len(t, DiseaseClasses, 38)

	seen := make(map[string]bool)
	for _, class := range DiseaseClasses {
		assert.False(t, seen[class], "duplicate label %q", class)
		seen[class] = true
	}
}

package inference

import (
	"PlantDoc-Backend/domain"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// Input images are resized to this square resolution before feature
	// extraction, matching the resolution the classifier was trained at.
	inputResolution = 256

	// The feature vector is the mean R, G and B of each cell in a
	// featureGrid x featureGrid partition of the resized image.
	featureGrid = 8
)

type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type modelArtifact struct {
	Resolution int         `json:"resolution"`
	Grid       int         `json:"grid"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
}

// Engine holds the loaded classifier. It is immutable after NewEngine and
// safe for concurrent Classify calls.
type Engine struct {
	labels     []string
	weights    [][]float64
	bias       []float64
	resolution int
	grid       int
}

// NewEngine loads the model artifact once, validating it against the label
// vocabulary. Call it at startup; a failure here is fatal for the process.
func NewEngine(modelPath string) (*Engine, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelArtifact, err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelArtifact, err)
	}

	if artifact.Resolution <= 0 {
		artifact.Resolution = inputResolution
	}
	if artifact.Grid <= 0 {
		artifact.Grid = featureGrid
	}

	// Feature extraction partitions the resized image into grid x grid cells,
	// so the grid must divide the resolution evenly.
	if artifact.Resolution%artifact.Grid != 0 {
		return nil, fmt.Errorf("%w: grid %d does not divide resolution %d",
			domain.ErrModelArtifact, artifact.Grid, artifact.Resolution)
	}

	if len(artifact.Weights) != len(DiseaseClasses) {
		return nil, fmt.Errorf("%w: artifact has %d classes, vocabulary has %d",
			domain.ErrModelArtifact, len(artifact.Weights), len(DiseaseClasses))
	}

	featureDim := 3 * artifact.Grid * artifact.Grid
	for i, row := range artifact.Weights {
		if len(row) != featureDim {
			return nil, fmt.Errorf("%w: weight row %d has %d features, want %d",
				domain.ErrModelArtifact, i, len(row), featureDim)
		}
	}

	if len(artifact.Bias) == 0 {
		artifact.Bias = make([]float64, len(DiseaseClasses))
	}
	if len(artifact.Bias) != len(DiseaseClasses) {
		return nil, fmt.Errorf("%w: bias has %d entries, want %d",
			domain.ErrModelArtifact, len(artifact.Bias), len(DiseaseClasses))
	}

	return &Engine{
		labels:     DiseaseClasses,
		weights:    artifact.Weights,
		bias:       artifact.Bias,
		resolution: artifact.Resolution,
		grid:       artifact.Grid,
	}, nil
}

// Classify maps raw image bytes to the most probable disease label and its
// probability. Confidence is the max class probability after softmax.
func (e *Engine) Classify(imageData []byte) (Prediction, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", domain.ErrImageDecodeFailed, err)
	}

	features := e.extractFeatures(img)

	scores := make([]float64, len(e.labels))
	for i, row := range e.weights {
		sum := e.bias[i]
		for j, w := range row {
			sum += w * features[j]
		}
		scores[i] = sum
	}

	probs := softmax(scores)

	// Stable argmax: strict greater-than keeps the lower index on ties.
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	return Prediction{Label: e.labels[best], Confidence: probs[best]}, nil
}

func (e *Engine) extractFeatures(img image.Image) []float64 {
	resized := image.NewRGBA(image.Rect(0, 0, e.resolution, e.resolution))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	cell := e.resolution / e.grid
	features := make([]float64, 0, 3*e.grid*e.grid)

	for gy := 0; gy < e.grid; gy++ {
		for gx := 0; gx < e.grid; gx++ {
			var r, g, b float64
			for y := gy * cell; y < (gy+1)*cell; y++ {
				for x := gx * cell; x < (gx+1)*cell; x++ {
					offset := resized.PixOffset(x, y)
					r += float64(resized.Pix[offset])
					g += float64(resized.Pix[offset+1])
					b += float64(resized.Pix[offset+2])
				}
			}
			n := float64(cell * cell * 255)
			features = append(features, r/n, g/n, b/n)
		}
	}

	return features
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

package analysis

import (
	"PlantDoc-Backend/domain"
	"PlantDoc-Backend/entities"
	"PlantDoc-Backend/pkg/inference"
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	prediction inference.Prediction
	err        error
}

func (f *fakeClassifier) Classify(_ []byte) (inference.Prediction, error) {
	return f.prediction, f.err
}

type fakeGeminiService struct {
	advisory domain.Advisory
	calls    int
}

func (f *fakeGeminiService) GetAdvisory(_ context.Context, _ string, _ string) domain.Advisory {
	f.calls++
	return f.advisory
}

func (f *fakeGeminiService) Chat(_ context.Context, _ []domain.ChatTurn, _ string, _ string) string {
	return ""
}

type fakeAnalysisRepo struct {
	saved       []*entities.AnalysisResult
	createErr   error
	createCalls int
}

func (f *fakeAnalysisRepo) CreateWithCounters(_ context.Context, result *entities.AnalysisResult) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.saved = append(f.saved, result)
	return nil
}

func (f *fakeAnalysisRepo) GetResultsByUser(_ context.Context, _ string, _, _ int) ([]*entities.AnalysisResult, int64, error) {
	return f.saved, int64(len(f.saved)), nil
}

func (f *fakeAnalysisRepo) GetAllResultsByUser(_ context.Context, _ string) ([]*entities.AnalysisResult, error) {
	return f.saved, nil
}

type fakeS3 struct {
	uploads int
	deletes []string
}

func (f *fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	f.uploads++
	return fmt.Sprintf("%s/%s.jpg", dir, fileName), nil
}

func (f *fakeS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deletes = append(f.deletes, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return ""
}

func imageFileHeader(t *testing.T, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "leaf.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["image"][0]
}

func newTestService(classifier *fakeClassifier, geminiSvc *fakeGeminiService, repo *fakeAnalysisRepo, s3 *fakeS3) AnalysisService {
	return NewAnalysisService(repo, classifier, geminiSvc, s3)
}

func TestAnalyzeMissingImage(t *testing.T) {
	service := newTestService(&fakeClassifier{}, &fakeGeminiService{}, &fakeAnalysisRepo{}, &fakeS3{})

	_, err := service.Analyze(context.Background(), domain.AnalyzeRequest{}, uuid.New().String(), "en")

	assert.ErrorIs(t, err, domain.ErrMissingImage)
}

func TestAnalyzeDecodeErrorAborts(t *testing.T) {
	classifier := &fakeClassifier{err: fmt.Errorf("%w: bad bytes", domain.ErrImageDecodeFailed)}
	repo := &fakeAnalysisRepo{}
	service := newTestService(classifier, &fakeGeminiService{}, repo, &fakeS3{})

	req := domain.AnalyzeRequest{Image: imageFileHeader(t, []byte("junk"))}
	_, err := service.Analyze(context.Background(), req, uuid.New().String(), "en")

	assert.ErrorIs(t, err, domain.ErrImageDecodeFailed)
	assert.Zero(t, repo.createCalls)
}

func TestAnalyzeInferenceErrorAborts(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("weights corrupted")}
	repo := &fakeAnalysisRepo{}
	s3 := &fakeS3{}
	service := newTestService(classifier, &fakeGeminiService{}, repo, s3)

	req := domain.AnalyzeRequest{Image: imageFileHeader(t, []byte("data"))}
	_, err := service.Analyze(context.Background(), req, uuid.New().String(), "en")

	assert.ErrorIs(t, err, domain.ErrInferenceFailed)
	assert.Zero(t, repo.createCalls)
	assert.Zero(t, s3.uploads)
}

func TestAnalyzeFullPipeline(t *testing.T) {
	classifier := &fakeClassifier{prediction: inference.Prediction{
		Label:      "Tomato___Late_blight",
		Confidence: 0.89,
	}}
	geminiSvc := &fakeGeminiService{advisory: domain.Advisory{
		RecommendedTreatment: "Apply copper-based fungicide.",
		PreventionTips:       []string{"Avoid overhead watering.", "Rotate crops."},
		ExpectedRecoveryTime: "2-3 weeks",
		Language:             "en",
	}}
	repo := &fakeAnalysisRepo{}
	s3 := &fakeS3{}
	service := newTestService(classifier, geminiSvc, repo, s3)

	req := domain.AnalyzeRequest{Image: imageFileHeader(t, []byte("fake image bytes"))}
	res, err := service.Analyze(context.Background(), req, uuid.New().String(), "en")
	require.NoError(t, err)

	assert.Equal(t, "Tomato Late blight", res.Disease)
	assert.Equal(t, 0.89, res.Confidence)
	assert.Equal(t, SeverityMedium, res.Severity)
	assert.Equal(t, "Apply copper-based fungicide.", res.Cure)
	assert.Equal(t, "2-3 weeks", res.RecoveryTime)
	assert.Equal(t, []string{"Avoid overhead watering.", "Rotate crops."}, res.PreventiveMeasures)
	assert.Contains(t, res.Preview, "analyses/")

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, "Tomato___Late_blight", saved.DiseaseName)
	assert.Equal(t, SeverityMedium, saved.Severity)
	assert.Equal(t, 1, geminiSvc.calls)
	assert.Equal(t, 1, s3.uploads)

	// Persistence happens exactly once: result row and counters share the
	// same repository call, which runs them in one transaction.
	assert.Equal(t, 1, repo.createCalls)
}

func TestAnalyzeAdvisoryFallbackDoesNotAbort(t *testing.T) {
	classifier := &fakeClassifier{prediction: inference.Prediction{
		Label:      "Potato___Early_blight",
		Confidence: 0.95,
	}}
	// The gemini service itself degrades to fallback content, never errors.
	geminiSvc := &fakeGeminiService{advisory: domain.Advisory{
		RecommendedTreatment: "Could not retrieve treatment information at this time. Please consult a local gardening expert.",
		PreventionTips:       []string{"Ensure your plant has adequate light, water, and nutrients to build its natural defenses."},
		ExpectedRecoveryTime: "Varies",
		Language:             "en",
	}}
	repo := &fakeAnalysisRepo{}
	service := newTestService(classifier, geminiSvc, repo, &fakeS3{})

	req := domain.AnalyzeRequest{Image: imageFileHeader(t, []byte("data"))}
	res, err := service.Analyze(context.Background(), req, uuid.New().String(), "en")
	require.NoError(t, err)

	assert.Equal(t, SeverityHigh, res.Severity)
	assert.NotEmpty(t, res.Cure)
	require.Len(t, repo.saved, 1)
}

func TestAnalyzePersistenceFailureCleansUpUpload(t *testing.T) {
	classifier := &fakeClassifier{prediction: inference.Prediction{
		Label:      "Tomato___healthy",
		Confidence: 0.7,
	}}
	repo := &fakeAnalysisRepo{createErr: errors.New("db down")}
	s3 := &fakeS3{}
	service := newTestService(classifier, &fakeGeminiService{}, repo, s3)

	req := domain.AnalyzeRequest{Image: imageFileHeader(t, []byte("data"))}
	_, err := service.Analyze(context.Background(), req, uuid.New().String(), "en")

	require.Error(t, err)
	assert.Empty(t, repo.saved)
	require.Len(t, s3.deletes, 1)
}

func TestAnalyzeInvalidUserID(t *testing.T) {
	service := newTestService(&fakeClassifier{}, &fakeGeminiService{}, &fakeAnalysisRepo{}, &fakeS3{})

	req := domain.AnalyzeRequest{Image: imageFileHeader(t, []byte("data"))}
	_, err := service.Analyze(context.Background(), req, "not-a-uuid", "en")

	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestGetHistoryMapsResults(t *testing.T) {
	repo := &fakeAnalysisRepo{saved: []*entities.AnalysisResult{
		{
			ID:          uuid.New(),
			DiseaseName: "Tomato___Late_blight",
			Confidence:  0.89,
			Severity:    SeverityMedium,
			ImageURL:    "https://bucket.s3.test.amazonaws.com/analyses/x.jpg",
		},
	}}
	service := newTestService(&fakeClassifier{}, &fakeGeminiService{}, repo, &fakeS3{})

	items, count, err := service.GetHistory(context.Background(), uuid.New().String(), 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), count)
	require.Len(t, items, 1)
	assert.Equal(t, "Tomato Late blight", items[0].DiseaseName)
}

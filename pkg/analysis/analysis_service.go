package analysis

import (
	"PlantDoc-Backend/domain"
	"PlantDoc-Backend/entities"
	"PlantDoc-Backend/internal/utils/storage"
	"PlantDoc-Backend/pkg/gemini"
	"PlantDoc-Backend/pkg/inference"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

type (
	// Classifier is the inference boundary. pkg/inference.Engine satisfies it.
	Classifier interface {
		Classify(imageData []byte) (inference.Prediction, error)
	}

	AnalysisService interface {
		Analyze(ctx context.Context, req domain.AnalyzeRequest, userID string, language string) (domain.AnalyzeResponse, error)
		GetHistory(ctx context.Context, userID string, page, limit int) ([]domain.AnalysisHistoryItem, int64, error)
	}

	analysisService struct {
		analysisRepository AnalysisRepository
		engine             Classifier
		geminiService      gemini.GeminiService
		s3                 storage.AwsS3
	}
)

func NewAnalysisService(
	analysisRepository AnalysisRepository,
	engine Classifier,
	geminiService gemini.GeminiService,
	s3 storage.AwsS3,
) AnalysisService {
	return &analysisService{
		analysisRepository: analysisRepository,
		engine:             engine,
		geminiService:      geminiService,
		s3:                 s3,
	}
}

// Analyze runs the full pipeline: classify the image, fetch treatment
// guidance, grade severity from confidence and persist the combined result
// together with the owner counters. Only classification failures abort the
// pipeline; advisory failures are absorbed by the fallback content.
func (s *analysisService) Analyze(ctx context.Context, req domain.AnalyzeRequest, userID string, language string) (domain.AnalyzeResponse, error) {
	if req.Image == nil {
		return domain.AnalyzeResponse{}, domain.ErrMissingImage
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.AnalyzeResponse{}, domain.ErrParseUUID
	}

	file, err := req.Image.Open()
	if err != nil {
		return domain.AnalyzeResponse{}, err
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return domain.AnalyzeResponse{}, err
	}

	prediction, err := s.engine.Classify(imageData)
	if err != nil {
		if errors.Is(err, domain.ErrImageDecodeFailed) {
			return domain.AnalyzeResponse{}, err
		}
		return domain.AnalyzeResponse{}, fmt.Errorf("%w: %v", domain.ErrInferenceFailed, err)
	}

	resultID := uuid.New()
	fileName := fmt.Sprintf("analysis-%s", resultID.String())
	objectKey, err := s.s3.UploadFile(fileName, req.Image, "analyses", storage.AllowImage...)
	if err != nil {
		return domain.AnalyzeResponse{}, err
	}
	imageURL := s.s3.GetPublicLinkKey(objectKey)

	advisory := s.geminiService.GetAdvisory(ctx, prediction.Label, language)

	severity := InferSeverity(prediction.Confidence)

	result := &entities.AnalysisResult{
		ID:                   resultID,
		UserID:               userUUID,
		ImageURL:             imageURL,
		DiseaseName:          prediction.Label,
		Confidence:           prediction.Confidence,
		Severity:             severity,
		RecommendedTreatment: advisory.RecommendedTreatment,
		PreventionTips:       entities.StringList(advisory.PreventionTips),
		ExpectedRecoveryTime: advisory.ExpectedRecoveryTime,
	}

	if err := s.analysisRepository.CreateWithCounters(ctx, result); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.AnalyzeResponse{}, err
	}

	return domain.AnalyzeResponse{
		ID:                 result.ID.String(),
		Disease:            inference.HumanLabel(result.DiseaseName),
		Confidence:         result.Confidence,
		Severity:           result.Severity,
		Cure:               result.RecommendedTreatment,
		RecoveryTime:       result.ExpectedRecoveryTime,
		PreventiveMeasures: result.PreventionTips,
		Preview:            result.ImageURL,
	}, nil
}

func (s *analysisService) GetHistory(ctx context.Context, userID string, page, limit int) ([]domain.AnalysisHistoryItem, int64, error) {
	results, count, err := s.analysisRepository.GetResultsByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]domain.AnalysisHistoryItem, 0, len(results))
	for _, result := range results {
		items = append(items, domain.AnalysisHistoryItem{
			ID:          result.ID.String(),
			ImageURL:    result.ImageURL,
			DiseaseName: inference.HumanLabel(result.DiseaseName),
			Confidence:  result.Confidence,
			Severity:    result.Severity,
			CreatedAt:   result.CreatedAt,
		})
	}

	return items, count, nil
}

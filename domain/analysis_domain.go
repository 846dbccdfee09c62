package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAnalyze      = "plant analyzed successfully"
	MessageSuccessGetHistory   = "analysis history retrieved successfully"
	MessageSuccessGetDashboard = "dashboard statistics retrieved successfully"

	MessageFailedAnalyze      = "failed to analyze plant image"
	MessageFailedGetHistory   = "failed to retrieve analysis history"
	MessageFailedGetDashboard = "failed to retrieve dashboard statistics"

	ErrMissingImage      = errors.New("image file not provided")
	ErrImageDecodeFailed = errors.New("image could not be decoded")
	ErrInferenceFailed   = errors.New("model inference failed")
	ErrModelArtifact     = errors.New("model artifact missing or incompatible")
)

type (
	AnalyzeRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	AnalyzeResponse struct {
		ID                 string   `json:"id"`
		Disease            string   `json:"disease"`
		Confidence         float64  `json:"confidence"`
		Severity           string   `json:"severity"`
		Cure               string   `json:"cure"`
		RecoveryTime       string   `json:"recoveryTime"`
		PreventiveMeasures []string `json:"preventiveMeasures"`
		Preview            string   `json:"preview"`
	}

	AnalysisHistoryItem struct {
		ID          string    `json:"id"`
		ImageURL    string    `json:"image_url"`
		DiseaseName string    `json:"disease_name"`
		Confidence  float64   `json:"confidence"`
		Severity    string    `json:"severity"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// Advisory is the treatment content attached to a classification,
	// either model-sourced or the fixed fallback.
	Advisory struct {
		RecommendedTreatment string   `json:"recommended_treatment"`
		PreventionTips       []string `json:"prevention_tips"`
		ExpectedRecoveryTime string   `json:"expected_recovery_time"`
		Language             string   `json:"language"`
	}

	DistributionEntry struct {
		Name  string `json:"name"`
		Value int64  `json:"value"`
	}

	DashboardSummary struct {
		TotalUploads  int64 `json:"totalUploads"`
		Analyzed      int64 `json:"analyzed"`
		SuccessRate   int   `json:"successRate"`
		AvgConfidence int   `json:"avgConfidence"`
	}

	DashboardResponse struct {
		Summary              DashboardSummary    `json:"summary"`
		DiseaseDistribution  []DistributionEntry `json:"diseaseDistribution"`
		SeverityDistribution []DistributionEntry `json:"severityDistribution"`
	}
)

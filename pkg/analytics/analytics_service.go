package analytics

import (
	"PlantDoc-Backend/domain"
	"PlantDoc-Backend/entities"
	"PlantDoc-Backend/pkg/analysis"
	"PlantDoc-Backend/pkg/inference"
	"context"
	"math"
	"sort"
)

type (
	// UserCounters exposes the owner counters the summary needs.
	// pkg/user.UserRepository satisfies it.
	UserCounters interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	AnalyticsService interface {
		GetDashboard(ctx context.Context, userID string) (domain.DashboardResponse, error)
	}

	analyticsService struct {
		analysisRepository analysis.AnalysisRepository
		userRepository     UserCounters
	}
)

func NewAnalyticsService(analysisRepository analysis.AnalysisRepository, userRepository UserCounters) AnalyticsService {
	return &analyticsService{
		analysisRepository: analysisRepository,
		userRepository:     userRepository,
	}
}

// GetDashboard recomputes the owner's aggregate statistics from the full
// result history on every call. Nothing is cached.
func (s *analyticsService) GetDashboard(ctx context.Context, userID string) (domain.DashboardResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	results, err := s.analysisRepository.GetAllResultsByUser(ctx, userID)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	analyzed := int64(len(results))

	var avgConfidence float64
	if analyzed > 0 {
		var sum float64
		for _, result := range results {
			sum += result.Confidence
		}
		avgConfidence = sum / float64(analyzed)
	}

	successRate := 0
	if user.TotalUploads > 0 {
		successRate = 100
	}

	diseaseDistribution := distribution(results, func(r *entities.AnalysisResult) string {
		return inference.HumanLabel(r.DiseaseName)
	})
	severityDistribution := distribution(results, func(r *entities.AnalysisResult) string {
		return r.Severity
	})

	return domain.DashboardResponse{
		Summary: domain.DashboardSummary{
			TotalUploads:  user.TotalUploads,
			Analyzed:      analyzed,
			SuccessRate:   successRate,
			AvgConfidence: int(math.Round(avgConfidence * 100)),
		},
		DiseaseDistribution:  diseaseDistribution,
		SeverityDistribution: severityDistribution,
	}, nil
}

// distribution groups results by key and returns entries sorted descending by
// count. Ties keep the order keys were first encountered in the scan.
func distribution(results []*entities.AnalysisResult, key func(*entities.AnalysisResult) string) []domain.DistributionEntry {
	counts := make(map[string]int64)
	firstSeen := make(map[string]int)
	order := make([]string, 0)

	for _, result := range results {
		k := key(result)
		if _, ok := counts[k]; !ok {
			firstSeen[k] = len(order)
			order = append(order, k)
		}
		counts[k]++
	}

	entries := make([]domain.DistributionEntry, 0, len(order))
	for _, k := range order {
		entries = append(entries, domain.DistributionEntry{Name: k, Value: counts[k]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return firstSeen[entries[i].Name] < firstSeen[entries[j].Name]
	})

	return entries
}

package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email              string    `gorm:"uniqueIndex" json:"email"`
	FullName           string    `json:"full_name"`
	Password           string    `json:"-"`
	PhotoURL           string    `json:"photo_url,omitempty"`
	Role               string    `json:"role"`
	IsVerified         bool      `json:"is_verified"`
	TotalUploads       int64     `json:"total_uploads"`
	TotalAnalyzed      int64     `json:"total_analyzed"`
	EmailNotifications bool      `gorm:"default:true" json:"email_notifications"`
	AnalysisAlerts     bool      `gorm:"default:true" json:"analysis_alerts"`
	MonthlyReports     bool      `gorm:"default:false" json:"monthly_reports"`

	Analyses []*AnalysisResult `gorm:"foreignKey:UserID"`
	Timestamp
}

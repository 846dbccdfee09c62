package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// StringList is stored as a jsonb array so prevention tips keep their order.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// AnalysisResult is append-only: rows are created once per successful analysis
// and never updated afterwards.
type AnalysisResult struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	ImageURL             string     `json:"image_url"`
	DiseaseName          string     `json:"disease_name"`
	Confidence           float64    `json:"confidence"`
	Severity             string     `json:"severity"` // "Low", "Medium", "High"
	RecommendedTreatment string     `gorm:"type:text" json:"recommended_treatment"`
	PreventionTips       StringList `gorm:"type:jsonb" json:"prevention_tips"`
	ExpectedRecoveryTime string     `json:"expected_recovery_time"`
	CreatedAt            time.Time  `json:"created_at"`

	User *User `gorm:"foreignKey:UserID"`
}

package whoop

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recovery represents the quantified recovery status of the user for a given cycle.
type Recovery struct {
	CycleID    int64          `json:"cycle_id"`
	SleepID    uuid.UUID      `json:"sleep_id"`
	UserID     int64          `json:"user_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ScoreState ScoreState     `json:"score_state"`
	Score      *RecoveryScore `json:"score,omitempty"`
}

// RecoveryScore contains the metrics formulating the recovery calculation.
// Spo2Percentage and SkinTempCelsius are only reported by newer hardware.
type RecoveryScore struct {
	UserCalibrating  bool     `json:"user_calibrating"`
	RecoveryScore    float64  `json:"recovery_score"`
	RestingHeartRate float64  `json:"resting_heart_rate"`
	HrvRmssdMilli    float64  `json:"hrv_rmssd_milli"`
	Spo2Percentage   *float64 `json:"spo2_percentage,omitempty"`
	SkinTempCelsius  *float64 `json:"skin_temp_celsius,omitempty"`
}

// RecoveryPage represents a paginated set of Recoveries.
type RecoveryPage = Page[Recovery]

// RecoveryService handles communication with the recovery related methods.
type RecoveryService struct {
	client *Client
}

// GetByCycleID fetches the recovery for a cycle. It is equivalent to Cycle.GetRecovery.
func (s *RecoveryService) GetByCycleID(ctx context.Context, cycleID int64) (*Recovery, error) {
	return s.client.Cycle.GetRecovery(ctx, cycleID)
}

// List fetches a paginated collection of recovery records.
func (s *RecoveryService) List(ctx context.Context, opts *ListOptions) (*RecoveryPage, error) {
	return list[Recovery](ctx, s.client, "/v2/recovery", opts)
}

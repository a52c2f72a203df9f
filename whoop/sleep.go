package whoop

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sleep represents a single sleep event.
type Sleep struct {
	ID             uuid.UUID   `json:"id"`
	CycleID        int64       `json:"cycle_id"`
	V1ID           *int64      `json:"v1_id,omitempty"`
	UserID         int64       `json:"user_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	Nap            bool        `json:"nap"`
	ScoreState     ScoreState  `json:"score_state"`
	Score          *SleepScore `json:"score,omitempty"`
}

// SleepScore provides calculated metrics for a Sleep.
type SleepScore struct {
	StageSummary               StageSummary `json:"stage_summary"`
	SleepNeeded                SleepNeeded  `json:"sleep_needed"`
	RespiratoryRate            *float64     `json:"respiratory_rate,omitempty"`
	SleepPerformancePercentage *float64     `json:"sleep_performance_percentage,omitempty"`
	SleepConsistencyPercentage *float64     `json:"sleep_consistency_percentage,omitempty"`
	SleepEfficiencyPercentage  *float64     `json:"sleep_efficiency_percentage,omitempty"`
}

// StageSummary breaks down durations spent in different sleep stages.
type StageSummary struct {
	TotalInBedTimeMilli         int64 `json:"total_in_bed_time_milli"`
	TotalAwakeTimeMilli         int64 `json:"total_awake_time_milli"`
	TotalNoDataTimeMilli        int64 `json:"total_no_data_time_milli"`
	TotalLightSleepTimeMilli    int64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepTimeMilli int64 `json:"total_slow_wave_sleep_time_milli"`
	TotalRemSleepTimeMilli      int64 `json:"total_rem_sleep_time_milli"`
	SleepCycleCount             int   `json:"sleep_cycle_count"`
	DisturbanceCount            int   `json:"disturbance_count"`
}

// SleepNeeded defines baseline and calculated sleep needs for the individual.
type SleepNeeded struct {
	BaselineMilli             int64 `json:"baseline_milli"`
	NeedFromSleepDebtMilli    int64 `json:"need_from_sleep_debt_milli"`
	NeedFromRecentStrainMilli int64 `json:"need_from_recent_strain_milli"`
	NeedFromRecentNapMilli    int64 `json:"need_from_recent_nap_milli"`
}

// SleepPage represents a paginated set of Sleep activities.
type SleepPage = Page[Sleep]

// SleepService handles communication with the sleep related methods.
type SleepService struct {
	client *Client
}

// GetByID fetches a single sleep event by its ID.
func (s *SleepService) GetByID(ctx context.Context, id uuid.UUID) (*Sleep, error) {
	return get[Sleep](ctx, s.client, "/v2/activity/sleep/"+id.String(), nil)
}

// List fetches a paginated collection of sleep events.
func (s *SleepService) List(ctx context.Context, opts *ListOptions) (*SleepPage, error) {
	return list[Sleep](ctx, s.client, "/v2/activity/sleep", opts)
}

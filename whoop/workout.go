package whoop

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Workout represents a tracked workout session.
type Workout struct {
	ID             uuid.UUID     `json:"id"`
	V1ID           *int64        `json:"v1_id,omitempty"`
	UserID         int64         `json:"user_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	TimezoneOffset string        `json:"timezone_offset"`
	SportName      string        `json:"sport_name"`
	SportID        *int          `json:"sport_id,omitempty"`
	ScoreState     ScoreState    `json:"score_state"`
	Score          *WorkoutScore `json:"score,omitempty"`
}

// WorkoutScore details the cardiovascular output of a given workout.
type WorkoutScore struct {
	Strain              float64       `json:"strain"`
	AverageHeartRate    int           `json:"average_heart_rate"`
	MaxHeartRate        int           `json:"max_heart_rate"`
	Kilojoule           float64       `json:"kilojoule"`
	PercentRecorded     float64       `json:"percent_recorded"`
	DistanceMeter       *float64      `json:"distance_meter,omitempty"`
	AltitudeGainMeter   *float64      `json:"altitude_gain_meter,omitempty"`
	AltitudeChangeMeter *float64      `json:"altitude_change_meter,omitempty"`
	ZoneDurations       ZoneDurations `json:"zone_durations"`
}

// ZoneDurations breaks down the duration spent in different heart rate zones.
type ZoneDurations struct {
	ZoneZeroMilli  int64 `json:"zone_zero_milli"`
	ZoneOneMilli   int64 `json:"zone_one_milli"`
	ZoneTwoMilli   int64 `json:"zone_two_milli"`
	ZoneThreeMilli int64 `json:"zone_three_milli"`
	ZoneFourMilli  int64 `json:"zone_four_milli"`
	ZoneFiveMilli  int64 `json:"zone_five_milli"`
}

// WorkoutPage represents a paginated set of Workouts.
type WorkoutPage = Page[Workout]

// WorkoutService handles communication with the workout related methods.
type WorkoutService struct {
	client *Client
}

// GetByID fetches a single workout session by its ID.
func (s *WorkoutService) GetByID(ctx context.Context, id uuid.UUID) (*Workout, error) {
	return get[Workout](ctx, s.client, "/v2/activity/workout/"+id.String(), nil)
}

// List fetches a paginated collection of workout sessions.
func (s *WorkoutService) List(ctx context.Context, opts *ListOptions) (*WorkoutPage, error) {
	return list[Workout](ctx, s.client, "/v2/activity/workout", opts)
}

package whoop

import (
	"context"
	"fmt"
	"time"
)

// Cycle represents a physiological cycle (typically an awake period to the next awake period).
// End is nil while the cycle is still in progress.
type Cycle struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Start          time.Time   `json:"start"`
	End            *time.Time  `json:"end,omitempty"`
	TimezoneOffset string      `json:"timezone_offset"`
	ScoreState     ScoreState  `json:"score_state"`
	Score          *CycleScore `json:"score,omitempty"`
}

// CycleScore summarizes physiological strain within a Cycle.
type CycleScore struct {
	Strain           float64 `json:"strain"`
	Kilojoule        float64 `json:"kilojoule"`
	AverageHeartRate int     `json:"average_heart_rate"`
	MaxHeartRate     int     `json:"max_heart_rate"`
}

// CyclePage represents a paginated set of Cycles.
type CyclePage = Page[Cycle]

// CycleService handles communication with the cycle related methods.
type CycleService struct {
	client *Client
}

// GetByID fetches a single cycle by its ID.
func (s *CycleService) GetByID(ctx context.Context, id int64) (*Cycle, error) {
	return get[Cycle](ctx, s.client, fmt.Sprintf("/v2/cycle/%d", id), nil)
}

// List fetches a paginated collection of cycles, most recent first.
func (s *CycleService) List(ctx context.Context, opts *ListOptions) (*CyclePage, error) {
	return list[Cycle](ctx, s.client, "/v2/cycle", opts)
}

// GetSleep fetches the sleep that belongs to a cycle.
func (s *CycleService) GetSleep(ctx context.Context, cycleID int64) (*Sleep, error) {
	return get[Sleep](ctx, s.client, fmt.Sprintf("/v2/cycle/%d/sleep", cycleID), nil)
}

// GetRecovery fetches the recovery that belongs to a cycle.
func (s *CycleService) GetRecovery(ctx context.Context, cycleID int64) (*Recovery, error) {
	return get[Recovery](ctx, s.client, fmt.Sprintf("/v2/cycle/%d/recovery", cycleID), nil)
}

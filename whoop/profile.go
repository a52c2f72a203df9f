package whoop

import (
	"context"
	"net/http"
)

// BasicProfile represents the user's basic profile information.
type BasicProfile struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BodyMeasurement represents the user's physical body measurements.
type BodyMeasurement struct {
	HeightMeter    float64 `json:"height_meter"`
	WeightKilogram float64 `json:"weight_kilogram"`
	MaxHeartRate   int     `json:"max_heart_rate"`
}

// UserService handles communication with the user related methods.
type UserService struct {
	client *Client
}

// GetBasicProfile fetches the athlete's basic profile.
func (s *UserService) GetBasicProfile(ctx context.Context) (*BasicProfile, error) {
	return get[BasicProfile](ctx, s.client, "/v2/user/profile/basic", nil)
}

// GetBodyMeasurement fetches the athlete's body measurements.
func (s *UserService) GetBodyMeasurement(ctx context.Context) (*BodyMeasurement, error) {
	return get[BodyMeasurement](ctx, s.client, "/v2/user/measurement/body", nil)
}

// RevokeAccess revokes the application's access to the user's data.
// The API answers 204 No Content; any other status is returned as an error.
func (s *UserService) RevokeAccess(ctx context.Context) error {
	req, err := s.client.newRequest(ctx, http.MethodDelete, "/v2/user/access", nil)
	if err != nil {
		return err
	}
	return executeNoContent(s.client, req)
}

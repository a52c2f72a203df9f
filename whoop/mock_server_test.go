package whoop

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

var (
	mockSleepID   = uuid.MustParse("3fa85f64-5717-4562-b3fc-2c963f66afa6")
	mockWorkoutID = uuid.MustParse("ecfc6a15-4661-442f-a9a4-f160dd7afae8")
)

const mockSleepJSON = `{
	"id": "3fa85f64-5717-4562-b3fc-2c963f66afa6",
	"cycle_id": 123,
	"v1_id": 789,
	"user_id": 999,
	"created_at": "2026-02-24T06:00:00Z",
	"updated_at": "2026-02-24T07:00:00Z",
	"start": "2026-02-23T22:00:00Z",
	"end": "2026-02-24T06:00:00Z",
	"timezone_offset": "-08:00",
	"nap": false,
	"score_state": "SCORED",
	"score": {
		"stage_summary": {
			"total_in_bed_time_milli": 28800000,
			"total_awake_time_milli": 3600000,
			"total_no_data_time_milli": 0,
			"total_light_sleep_time_milli": 10800000,
			"total_slow_wave_sleep_time_milli": 7200000,
			"total_rem_sleep_time_milli": 7200000,
			"sleep_cycle_count": 4,
			"disturbance_count": 2
		},
		"sleep_needed": {
			"baseline_milli": 28800000,
			"need_from_sleep_debt_milli": 1800000,
			"need_from_recent_strain_milli": 900000,
			"need_from_recent_nap_milli": 0
		},
		"respiratory_rate": 15.5,
		"sleep_performance_percentage": 95.0,
		"sleep_consistency_percentage": 88.0,
		"sleep_efficiency_percentage": 92.0
	}
}`

const mockRecoveryJSON = `{
	"cycle_id": 123,
	"sleep_id": "3fa85f64-5717-4562-b3fc-2c963f66afa6",
	"user_id": 999,
	"created_at": "2026-02-24T06:00:00Z",
	"updated_at": "2026-02-24T07:00:00Z",
	"score_state": "SCORED",
	"score": {
		"user_calibrating": false,
		"recovery_score": 85.5,
		"resting_heart_rate": 52.0,
		"hrv_rmssd_milli": 65.3,
		"spo2_percentage": 97.0,
		"skin_temp_celsius": 33.5
	}
}`

const mockWorkoutJSON = `{
	"id": "ecfc6a15-4661-442f-a9a4-f160dd7afae8",
	"v1_id": 456,
	"user_id": 999,
	"created_at": "2026-02-24T14:00:00Z",
	"updated_at": "2026-02-24T15:00:00Z",
	"start": "2026-02-24T14:00:00Z",
	"end": "2026-02-24T15:00:00Z",
	"timezone_offset": "-08:00",
	"sport_name": "running",
	"sport_id": 1,
	"score_state": "SCORED",
	"score": {
		"strain": 14.2,
		"average_heart_rate": 150,
		"max_heart_rate": 190,
		"kilojoule": 700.5,
		"percent_recorded": 99.9,
		"distance_meter": 5000.0,
		"altitude_gain_meter": 100.0,
		"altitude_change_meter": 10.0,
		"zone_durations": {
			"zone_zero_milli": 1000,
			"zone_one_milli": 2000,
			"zone_two_milli": 3000,
			"zone_three_milli": 4000,
			"zone_four_milli": 5000,
			"zone_five_milli": 6000
		}
	}
}`

// newMockServer creates an httptest.Server configured to respond dynamically
// to specific WHOOP API routes with literal mock JSON payloads.
func newMockServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}

	// 1. Cycle - GetByID Mock
	mux.HandleFunc("GET /v2/cycle/123", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"id": 123,
			"user_id": 999,
			"created_at": "2026-02-24T12:00:00Z",
			"updated_at": "2026-02-24T13:00:00Z",
			"start": "2026-02-24T05:00:00Z",
			"end": "2026-02-24T10:00:00Z",
			"timezone_offset": "-08:00",
			"score_state": "SCORED",
			"score": {
				"strain": 12.4,
				"kilojoule": 2048.5,
				"average_heart_rate": 65,
				"max_heart_rate": 185
			}
		}`)
	})

	// 2. Cycle - in-progress cycle, no end and no score yet
	mux.HandleFunc("GET /v2/cycle/124", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"id": 124,
			"user_id": 999,
			"created_at": "2026-02-25T12:00:00Z",
			"updated_at": "2026-02-25T13:00:00Z",
			"start": "2026-02-25T05:00:00Z",
			"timezone_offset": "-08:00",
			"score_state": "PENDING_SCORE"
		}`)
	})

	// 3. Cycle - nested sleep and recovery
	mux.HandleFunc("GET /v2/cycle/123/sleep", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mockSleepJSON)
	})
	mux.HandleFunc("GET /v2/cycle/123/recovery", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mockRecoveryJSON)
	})

	// 4. Workout - List Mock (Paginated)
	mux.HandleFunc("GET /v2/activity/workout", func(w http.ResponseWriter, r *http.Request) {
		switch token := r.URL.Query().Get("nextToken"); token {
		case "":
			writeJSON(w, `{"records": [`+mockWorkoutJSON+`], "next_token": "page2"}`)
		case "page2":
			writeJSON(w, `{"records": []}`)
		default:
			t.Errorf("unexpected token requested: %s", token)
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	// 5. Workout - GetByID Mock
	mux.HandleFunc("GET /v2/activity/workout/"+mockWorkoutID.String(), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mockWorkoutJSON)
	})

	// 6. Rate Limit Explicit Mock (always 429)
	mux.HandleFunc("/429-generator", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "Too Many Requests"}`))
	})

	// 7. Broken Endpoint Mock (Auth Error)
	mux.HandleFunc("/401-generator", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`token expired`))
	})

	// 8. Context Cancellation Delay Mock
	mux.HandleFunc("/delay", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	// 9. User - BasicProfile Mock
	mux.HandleFunc("GET /v2/user/profile/basic", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"user_id": 999,
			"email": "athlete@example.com",
			"first_name": "Jane",
			"last_name": "Doe"
		}`)
	})

	// 10. User - BodyMeasurement Mock
	mux.HandleFunc("GET /v2/user/measurement/body", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"height_meter": 1.75,
			"weight_kilogram": 70.5,
			"max_heart_rate": 195
		}`)
	})

	// 11. User - revoke access
	mux.HandleFunc("DELETE /v2/user/access", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// 12. Sleep - GetByID Mock
	mux.HandleFunc("GET /v2/activity/sleep/"+mockSleepID.String(), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mockSleepJSON)
	})

	// 13. Sleep - List Mock (Paginated)
	mux.HandleFunc("GET /v2/activity/sleep", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("nextToken") {
		case "":
			writeJSON(w, `{
				"records": [{"id": "3fa85f64-5717-4562-b3fc-2c963f66afa6", "cycle_id": 123, "user_id": 999, "nap": false, "score_state": "PENDING_SCORE"}],
				"next_token": "sleep-p2"
			}`)
		case "sleep-p2":
			writeJSON(w, `{"records": [], "next_token": ""}`)
		}
	})

	// 14. Recovery - List Mock (Paginated)
	mux.HandleFunc("GET /v2/recovery", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("nextToken") {
		case "":
			writeJSON(w, `{
				"records": [{"cycle_id": 123, "sleep_id": "3fa85f64-5717-4562-b3fc-2c963f66afa6", "user_id": 999, "score_state": "UNSCORABLE"}],
				"next_token": "rec-p2"
			}`)
		case "rec-p2":
			writeJSON(w, `{}`)
		}
	})

	return httptest.NewServer(mux)
}

// newMockClient builds a static-token WHOOP client connected directly to the
// mock server base URL.
func newMockClient(ts *httptest.Server, opts ...Option) *Client {
	defaultOpts := []Option{
		WithBaseURL(ts.URL),
		WithToken("mock-token"),
	}
	defaultOpts = append(defaultOpts, opts...)
	return NewClient(defaultOpts...)
}

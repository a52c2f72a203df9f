// Command example receives WHOOP webhooks and fetches the workout each
// "workout.updated" notification points at.
//
// It reads WHOOP_WEBHOOK_SECRET plus either WHOOP_ACCESS_TOKEN, or
// WHOOP_CLIENT_ID, WHOOP_CLIENT_SECRET and WHOOP_REFRESH_TOKEN for a
// refreshable OAuth client.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arvarik/whoop-go/v2/whoop"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	workers   = 5
	queueSize = 100
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	webhookSecret := os.Getenv("WHOOP_WEBHOOK_SECRET")
	if webhookSecret == "" {
		logger.Error("WHOOP_WEBHOOK_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, newClient(logger), webhookSecret); err != nil {
		logger.Error("webhook listener stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newClient throttles below the API limit and retries 429s with backoff.
func newClient(logger *slog.Logger) *whoop.Client {
	retry := whoop.NewRetryTransport(whoop.NewRateLimitTransport(nil))
	retry.MaxRetries = 5
	retry.BackoffMax = 2 * time.Minute

	opts := []whoop.Option{
		whoop.WithHTTPClient(&http.Client{Transport: retry, Timeout: time.Minute}),
		whoop.WithLogger(logger),
	}

	refresh := os.Getenv("WHOOP_REFRESH_TOKEN")
	if refresh == "" {
		return whoop.NewClient(append(opts, whoop.WithToken(os.Getenv("WHOOP_ACCESS_TOKEN")))...)
	}

	session := whoop.NewOAuthSession(whoop.Credentials{
		ClientID:     os.Getenv("WHOOP_CLIENT_ID"),
		ClientSecret: os.Getenv("WHOOP_CLIENT_SECRET"),
	}, whoop.NewScopeSet(whoop.ScopeReadWorkout, whoop.ScopeOffline))

	opts = append(opts, whoop.WithTokenNotify(func(tok whoop.Token) {
		// A real integration would persist the rotated refresh token here.
		logger.Info("access token refreshed", slog.String("scope", tok.Scope))
	}))
	return whoop.NewOAuthClient(session, whoop.Token{
		AccessToken:  os.Getenv("WHOOP_ACCESS_TOKEN"),
		RefreshToken: refresh,
	}, opts...)
}

func run(ctx context.Context, logger *slog.Logger, client *whoop.Client, webhookSecret string) error {
	// A bounded worker pool keeps traffic spikes from spawning unbounded goroutines.
	jobQueue := make(chan uuid.UUID, queueSize)

	mux := http.NewServeMux()
	mux.Handle("POST /whoop/webhook", webhookHandler(logger, webhookSecret, jobQueue))
	srv := &http.Server{
		Addr:              ":8080",
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			worker(ctx, logger, client, jobQueue)
			return nil
		})
	}
	g.Go(func() error {
		logger.Info("webhook listener started", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func webhookHandler(logger *slog.Logger, webhookSecret string, jobQueue chan<- uuid.UUID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := whoop.ParseWebhook(r, webhookSecret)
		if err != nil {
			logger.Warn("rejected webhook", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		logger.Info("received webhook",
			slog.String("type", string(event.Type)),
			slog.String("id", event.ID),
			slog.String("trace_id", event.TraceID))

		// Acknowledge quickly; the REST lookups happen in the worker pool.
		w.WriteHeader(http.StatusNoContent)

		if event.Type != whoop.EventWorkoutUpdated {
			return
		}
		id, err := uuid.Parse(event.ID)
		if err != nil {
			logger.Warn("workout webhook with invalid id", slog.String("id", event.ID))
			return
		}

		select {
		case jobQueue <- id:
		default:
			logger.Warn("worker pool full, dropping workout update", slog.String("id", id.String()))
		}
	}
}

func worker(ctx context.Context, logger *slog.Logger, client *whoop.Client, jobQueue <-chan uuid.UUID) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-jobQueue:
			processWorkout(ctx, logger, client, id)
		}
	}
}

// processWorkout fetches the workout a webhook referred to. An expired access
// token is refreshed once.
func processWorkout(ctx context.Context, logger *slog.Logger, client *whoop.Client, id uuid.UUID) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	workout, err := client.Workout.GetByID(ctx, id)
	var authErr *whoop.AuthenticationError
	if errors.As(err, &authErr) && client.Token().HasRefreshToken() {
		if err = client.Refresh(ctx); err == nil {
			workout, err = client.Workout.GetByID(ctx, id)
		}
	}
	if err != nil {
		logger.Error("fetching workout failed", slog.String("id", id.String()), slog.String("error", err.Error()))
		return
	}

	attrs := []any{
		slog.String("id", workout.ID.String()),
		slog.String("sport", workout.SportName),
		slog.String("score_state", string(workout.ScoreState)),
	}
	if workout.ScoreState.IsScored() && workout.Score != nil {
		attrs = append(attrs,
			slog.Float64("strain", workout.Score.Strain),
			slog.Int("max_hr", workout.Score.MaxHeartRate))
		if workout.Score.DistanceMeter != nil {
			attrs = append(attrs, slog.Float64("distance_m", *workout.Score.DistanceMeter))
		}
	}
	logger.Info("workout processed", attrs...)
}

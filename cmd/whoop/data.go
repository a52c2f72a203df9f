package main

import (
	"context"
	"fmt"
	"time"

	"github.com/arvarik/whoop-go/v2/internal/output"
	"github.com/arvarik/whoop-go/v2/whoop"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the basic user profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.clientFor()
			if err != nil {
				return err
			}
			p, err := withRefresh(cmd.Context(), a, c, c.User.GetBasicProfile)
			if err != nil {
				return fmt.Errorf("fetching profile: %w", err)
			}
			return a.render(profileView(*p))
		},
	}
}

func newBodyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "body",
		Short: "Show body measurements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.clientFor()
			if err != nil {
				return err
			}
			b, err := withRefresh(cmd.Context(), a, c, c.User.GetBodyMeasurement)
			if err != nil {
				return fmt.Errorf("fetching body measurement: %w", err)
			}
			return a.render(bodyView(*b))
		},
	}
}

// summary is the latest snapshot of a user: profile, body and the most recent
// cycle and recovery.
type summary struct {
	Profile  *whoop.BasicProfile    `json:"profile"`
	Body     *whoop.BodyMeasurement `json:"body"`
	Cycle    *whoop.Cycle           `json:"latest_cycle,omitempty"`
	Recovery *whoop.Recovery        `json:"latest_recovery,omitempty"`
}

func (s summary) Header() table.Row { return output.Fields{}.Header() }

func (s summary) Rows() []table.Row {
	fields := output.Fields{
		{Name: "Name", Value: s.Profile.FirstName + " " + s.Profile.LastName},
		{Name: "Email", Value: s.Profile.Email},
		{Name: "Height", Value: fmt.Sprintf("%.2f m", s.Body.HeightMeter)},
		{Name: "Weight", Value: fmt.Sprintf("%.1f kg", s.Body.WeightKilogram)},
		{Name: "Max heart rate", Value: s.Body.MaxHeartRate},
	}

	if c := s.Cycle; c != nil {
		fields = append(fields, output.Field{Name: "Cycle started", Value: formatTime(c.Start)})
		if c.ScoreState.IsScored() && c.Score != nil {
			fields = append(fields, output.Field{Name: "Strain", Value: fmt.Sprintf("%.1f", c.Score.Strain)})
		} else {
			fields = append(fields, output.Field{Name: "Strain", Value: string(c.ScoreState)})
		}
	}

	if r := s.Recovery; r != nil {
		if r.ScoreState.IsScored() && r.Score != nil {
			fields = append(fields,
				output.Field{Name: "Recovery", Value: fmt.Sprintf("%.0f%%", r.Score.RecoveryScore)},
				output.Field{Name: "HRV", Value: fmt.Sprintf("%.1f ms", r.Score.HrvRmssdMilli)},
				output.Field{Name: "Resting heart rate", Value: fmt.Sprintf("%.0f", r.Score.RestingHeartRate)},
			)
		} else {
			fields = append(fields, output.Field{Name: "Recovery", Value: string(r.ScoreState)})
		}
	}

	return fields.Rows()
}

func newSummaryCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show profile, body and the latest cycle and recovery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.clientFor()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s, err := a.fetchSummary(ctx, c)
			if err != nil {
				return err
			}
			return a.render(s)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall request timeout")
	return cmd
}

// fetchSummary fetches the profile first so an expired token is refreshed
// once before the remaining requests run concurrently.
func (a *app) fetchSummary(ctx context.Context, c *whoop.Client) (*summary, error) {
	profile, err := withRefresh(ctx, a, c, c.User.GetBasicProfile)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	s := &summary{Profile: profile}

	latest := &whoop.ListOptions{Limit: 1}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.User.GetBodyMeasurement(ctx)
		if err != nil {
			return fmt.Errorf("fetching body measurement: %w", err)
		}
		s.Body = b
		return nil
	})
	g.Go(func() error {
		page, err := c.Cycle.List(ctx, latest)
		if err != nil {
			return fmt.Errorf("fetching latest cycle: %w", err)
		}
		if len(page.Records) > 0 {
			s.Cycle = &page.Records[0]
		}
		return nil
	})
	g.Go(func() error {
		page, err := c.Recovery.List(ctx, latest)
		if err != nil {
			return fmt.Errorf("fetching latest recovery: %w", err)
		}
		if len(page.Records) > 0 {
			s.Recovery = &page.Records[0]
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

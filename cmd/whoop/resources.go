package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arvarik/whoop-go/v2/whoop"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// resource describes a collection endpoint exposed as "list" and "get" subcommands.
type resource[T any] struct {
	use     string
	aliases []string
	short   string
	idName  string

	list func(c *whoop.Client) func(context.Context, *whoop.ListOptions) (*whoop.Page[T], error)
	get  func(c *whoop.Client, id string) (func(context.Context) (*T, error), error)
	view func([]T) any
}

func (r resource[T]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     r.use,
		Aliases: r.aliases,
		Short:   r.short,
	}
	cmd.AddCommand(r.listCmd(a), r.getCmd(a))
	return cmd
}

type listFlags struct {
	limit     int
	start     string
	end       string
	nextToken string
	all       bool
}

func (f listFlags) options() (*whoop.ListOptions, error) {
	opts := &whoop.ListOptions{Limit: f.limit, NextToken: f.nextToken}

	if f.start != "" {
		t, err := parseTime(f.start)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		opts.Start = &t
	}
	if f.end != "" {
		t, err := parseTime(f.end)
		if err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
		opts.End = &t
	}
	return opts, nil
}

// parseTime accepts RFC 3339 timestamps or plain dates, which are taken as
// local midnight.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC 3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

func (r resource[T]) listCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.use + ", most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			c, err := a.clientFor()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			fetch := r.list(c)
			page, err := withRefresh(ctx, a, c, func(ctx context.Context) (*whoop.Page[T], error) {
				return fetch(ctx, opts)
			})
			if err != nil {
				return fmt.Errorf("listing %s: %w", r.use, err)
			}

			records := page.Records
			for f.all && page.HasNext() {
				current := page
				page, err = withRefresh(ctx, a, c, current.NextPage)
				if err != nil {
					return fmt.Errorf("listing %s: %w", r.use, err)
				}
				records = append(records, page.Records...)
			}

			if err := a.render(r.view(records)); err != nil {
				return err
			}
			if page.HasNext() {
				fmt.Fprintf(a.errOut, "More results available: --next-token %s\n", page.NextToken)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.limit, "limit", 0, "page size (the API allows at most 25)")
	flags.StringVar(&f.start, "start", "", "earliest time to include (RFC 3339 or YYYY-MM-DD)")
	flags.StringVar(&f.end, "end", "", "latest time to include, exclusive (RFC 3339 or YYYY-MM-DD)")
	flags.StringVar(&f.nextToken, "next-token", "", "continue from a previous page")
	flags.BoolVar(&f.all, "all", false, "follow next tokens until every page is fetched")
	return cmd
}

func (r resource[T]) getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <" + r.idName + ">",
		Short: "Show a single record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.clientFor()
			if err != nil {
				return err
			}
			call, err := r.get(c, args[0])
			if err != nil {
				return err
			}

			rec, err := withRefresh(cmd.Context(), a, c, call)
			if err != nil {
				return fmt.Errorf("fetching %s %s: %w", r.use, args[0], err)
			}
			return a.render(r.view([]T{*rec}))
		},
	}
}

func parseCycleID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cycle id %q", s)
	}
	return id, nil
}

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func newCyclesCmd(a *app) *cobra.Command {
	return resource[whoop.Cycle]{
		use:     "cycles",
		aliases: []string{"cycle"},
		short:   "Physiological cycles",
		idName:  "cycle-id",
		list:    func(c *whoop.Client) func(context.Context, *whoop.ListOptions) (*whoop.CyclePage, error) { return c.Cycle.List },
		get: func(c *whoop.Client, s string) (func(context.Context) (*whoop.Cycle, error), error) {
			id, err := parseCycleID(s)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context) (*whoop.Cycle, error) { return c.Cycle.GetByID(ctx, id) }, nil
		},
		view: func(v []whoop.Cycle) any { return cycleView(v) },
	}.command(a)
}

func newSleepCmd(a *app) *cobra.Command {
	return resource[whoop.Sleep]{
		use:     "sleep",
		aliases: []string{"sleeps"},
		short:   "Sleep activities",
		idName:  "sleep-id",
		list:    func(c *whoop.Client) func(context.Context, *whoop.ListOptions) (*whoop.SleepPage, error) { return c.Sleep.List },
		get: func(c *whoop.Client, s string) (func(context.Context) (*whoop.Sleep, error), error) {
			id, err := parseUUID(s)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context) (*whoop.Sleep, error) { return c.Sleep.GetByID(ctx, id) }, nil
		},
		view: func(v []whoop.Sleep) any { return sleepView(v) },
	}.command(a)
}

// Recoveries are addressed by the cycle they belong to.
func newRecoveryCmd(a *app) *cobra.Command {
	return resource[whoop.Recovery]{
		use:     "recovery",
		aliases: []string{"recoveries"},
		short:   "Recovery scores",
		idName:  "cycle-id",
		list:    func(c *whoop.Client) func(context.Context, *whoop.ListOptions) (*whoop.RecoveryPage, error) { return c.Recovery.List },
		get: func(c *whoop.Client, s string) (func(context.Context) (*whoop.Recovery, error), error) {
			id, err := parseCycleID(s)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context) (*whoop.Recovery, error) { return c.Recovery.GetByCycleID(ctx, id) }, nil
		},
		view: func(v []whoop.Recovery) any { return recoveryView(v) },
	}.command(a)
}

func newWorkoutsCmd(a *app) *cobra.Command {
	return resource[whoop.Workout]{
		use:     "workouts",
		aliases: []string{"workout"},
		short:   "Workouts",
		idName:  "workout-id",
		list:    func(c *whoop.Client) func(context.Context, *whoop.ListOptions) (*whoop.WorkoutPage, error) { return c.Workout.List },
		get: func(c *whoop.Client, s string) (func(context.Context) (*whoop.Workout, error), error) {
			id, err := parseUUID(s)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context) (*whoop.Workout, error) { return c.Workout.GetByID(ctx, id) }, nil
		},
		view: func(v []whoop.Workout) any { return workoutView(v) },
	}.command(a)
}

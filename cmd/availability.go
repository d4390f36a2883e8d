package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/padel-mcp/internal/availability"
)

type availabilityOptions struct {
	api       apiOptions
	startDate string
	endDate   string
	durations []int
	clubNames []string
	courtType int
}

func newAvailabilityCmd() *cobra.Command {
	opts := &availabilityOptions{}

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Search bookable padel courts once and print the result",
		Long: `Run a single court availability search and print the JSON result
envelope, exactly as the padel_get_court_availabilities tool returns it.

Example:
  padel-mcp availability --start-date 2024-01-15 --end-date 2024-01-16 \
    --durations 60,90 --club-names "Warsaw Padel Club" --court-type 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.api.loadEnv(cmd); err != nil {
				return err
			}

			req := availability.Request{
				StartDate: opts.startDate,
				EndDate:   opts.endDate,
				Durations: opts.durations,
				ClubNames: opts.clubNames,
			}
			if cmd.Flags().Changed("court-type") {
				courtType := opts.courtType
				req.CourtType = &courtType
			}

			return runAvailability(cmd.Context(), cmd, &opts.api, req)
		},
	}

	addAPIFlags(cmd, &opts.api)
	cmd.Flags().StringVar(&opts.startDate, "start-date", "", "First day to search (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.endDate, "end-date", "", "Last day to search (YYYY-MM-DD)")
	cmd.Flags().IntSliceVar(&opts.durations, "durations", nil, "Durations in minutes (60, 90, 120)")
	cmd.Flags().StringSliceVar(&opts.clubNames, "club-names", nil, "Club names to search, matched case-insensitively")
	cmd.Flags().IntVar(&opts.courtType, "court-type", 0, "Court type: 0 indoor, 1 outdoor (default: both)")
	_ = cmd.MarkFlagRequired("start-date")
	_ = cmd.MarkFlagRequired("end-date")

	return cmd
}

func runAvailability(ctx context.Context, cmd *cobra.Command, api *apiOptions, req availability.Request) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(api.debug)
	sc, err := newServerContext(ctx, api, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sc.Shutdown()
	}()

	envelope := sc.Availability().GetCourtAvailabilities(ctx, req)
	payload, err := envelope.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), payload)

	if !envelope.Success {
		return errors.New(envelope.ErrorMessage())
	}
	return nil
}

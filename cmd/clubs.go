package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/padel-mcp/internal/padel"
)

func newClubsCmd() *cobra.Command {
	var (
		api        apiOptions
		nameFilter string
	)

	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "Print the padel club directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.loadEnv(cmd); err != nil {
				return err
			}
			return runClubs(cmd.Context(), cmd, &api, nameFilter)
		},
	}

	addAPIFlags(cmd, &api)
	cmd.Flags().StringVar(&nameFilter, "name-filter", "", "Only print clubs whose name contains this text (case-insensitive)")

	return cmd
}

func runClubs(ctx context.Context, cmd *cobra.Command, api *apiOptions, nameFilter string) error {
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

	resp, err := sc.Clubs().ListClubs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clubs: %w", err)
	}
	if resp == nil {
		return fmt.Errorf("failed to list clubs: %w", padel.ErrEmptyResponse)
	}

	clubs := padel.FilterClubsByName(resp.Clubs, strings.TrimSpace(nameFilter))
	out, err := json.MarshalIndent(clubs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode clubs: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

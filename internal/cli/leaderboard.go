package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard <trail>",
		Short: "Show a trail's leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard

			path := fmt.Sprintf("/api/v1/leaderboards/%s?limit=%d", url.PathEscape(args[0]), limit)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of entries")
	return cmd
}

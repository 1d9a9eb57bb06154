package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Connected player commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerKickCmd())
	cmd.AddCommand(newPlayerBanCmd())
	cmd.AddCommand(newPlayerMedalsCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList

			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <steam-id>",
		Short: "Show a connected player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get("/api/v1/players/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <steam-id>",
		Short: "Disconnect a player's live sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result KickResult

			if err := client.Delete("/api/v1/players/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerBanCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "ban <steam-id>",
		Short: "Set a player's ban status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status == "" {
				return fmt.Errorf("--status is required")
			}

			req := map[string]string{"status": status}
			if err := client.Put("/api/v1/players/"+url.PathEscape(args[0])+"/ban", req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Ban status for %s set to %s", args[0], status))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Ban status: NONE, CLOSE, CRASH, or ILLEGAL")
	return cmd
}

func newPlayerMedalsCmd() *cobra.Command {
	var rainbow, gold, silver, bronze float64

	cmd := &cobra.Command{
		Use:   "medals <steam-id> <trail>",
		Short: "Set a player's medal thresholds for a trail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]float64{
				"rainbow": rainbow,
				"gold":    gold,
				"silver":  silver,
				"bronze":  bronze,
			}
			path := "/api/v1/players/" + url.PathEscape(args[0]) + "/medals/" + url.PathEscape(args[1])
			if err := client.Put(path, req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Medals for %s on %s updated", args[0], args[1]))
			return nil
		},
	}

	cmd.Flags().Float64Var(&rainbow, "rainbow", 0, "Rainbow medal time (seconds)")
	cmd.Flags().Float64Var(&gold, "gold", 0, "Gold medal time (seconds)")
	cmd.Flags().Float64Var(&silver, "silver", 0, "Silver medal time (seconds)")
	cmd.Flags().Float64Var(&bronze, "bronze", 0, "Bronze medal time (seconds)")
	return cmd
}

package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newTrailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trail",
		Short: "Trail configuration commands",
	}

	cmd.AddCommand(newTrailMaxStartSpeedCmd())
	return cmd
}

func newTrailMaxStartSpeedCmd() *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "max-start-speed <trail>",
		Short: "Set the maximum allowed start speed for a trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if speed <= 0 {
				return fmt.Errorf("--speed must be positive")
			}

			req := map[string]float64{"speed": speed}
			if err := client.Put("/api/v1/trails/"+url.PathEscape(args[0])+"/max-start-speed", req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Max start speed for %s set to %g", args[0], speed))
			return nil
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", 0, "Maximum start speed")
	return cmd
}

package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newWorldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "world",
		Short: "World configuration commands",
	}

	cmd.AddCommand(newWorldStartBikeCmd())
	return cmd
}

func newWorldStartBikeCmd() *cobra.Command {
	var bike string

	cmd := &cobra.Command{
		Use:   "start-bike <world>",
		Short: "Set the default starting bike for a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bike == "" {
				return fmt.Errorf("--bike is required")
			}

			req := map[string]string{"bike": bike}
			if err := client.Put("/api/v1/worlds/"+url.PathEscape(args[0])+"/start-bike", req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Start bike for %s set to %s", args[0], bike))
			return nil
		},
	}

	cmd.Flags().StringVar(&bike, "bike", "", "Bike type (e.g. enduro, downhill, hardtail)")
	return cmd
}

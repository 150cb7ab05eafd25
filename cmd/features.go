package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baselinescan/baselinescan/baseline"
)

func newFeaturesCmd() *cobra.Command {
	var featureID string

	cmd := &cobra.Command{
		Use:   "features [query]",
		Short: "Search or inspect the Baseline feature dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := baseline.NewService(logger)
			if err := service.Initialize(); err != nil {
				return err
			}

			if featureID != "" {
				details, ok := service.GetFeatureDetails(featureID)
				if !ok {
					return fmt.Errorf("unknown feature id %q", featureID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", details.ID, details.Name)
				fmt.Fprintf(cmd.OutOrStdout(), "  status: %s\n", details.Baseline.Status)
				if details.Baseline.BaselineDate != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  since:  %s\n", details.Baseline.BaselineDate)
				}
				if details.Spec != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  spec:   %s\n", details.Spec)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", details.Description)
				return nil
			}

			if len(args) == 0 {
				all := service.GetAllFeatures()
				for _, d := range all {
					fmt.Fprintf(cmd.OutOrStdout(), "%-32s %-20s %s\n", d.ID, d.Baseline.Status, d.Name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d feature(s)\n", len(all))
				return nil
			}

			matches := service.SearchFeatures(args[0])
			for _, f := range matches {
				status, _ := service.GetFeatureStatus(f.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %-20s %s\n", f.ID, status.Status, f.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d feature(s)\n", len(matches))
			return nil
		},
	}

	cmd.Flags().StringVar(&featureID, "id", "", "show full details for one feature id")
	return cmd
}

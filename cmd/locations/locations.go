// Package locations implements the command-line interface for managing the
// geographic search locations the service polls.
package locations

import (
	"github.com/spf13/cobra"
)

var (
	addLatitude  float64
	addLongitude float64
	addRadiusKM  float64
	addInterval  int
	addDisabled  bool

	listAll bool
)

// Command returns the locations command for use in the root command
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage search locations",
		Long:  `Manage the geographic locations polled against the search API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(createListCmd(), createAddCmd(), createEnableCmd(), createDisableCmd())
	return cmd
}

// createListCmd creates the list command
func createListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List search locations",
		RunE:  runListCmd,
	}
	cmd.Flags().BoolVar(&listAll, "all", false, "include disabled locations")
	return cmd
}

// createAddCmd creates the add command
func createAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a search location",
		Long: `Add a location to poll. The name doubles as the location component of
archive keys, so each day of results lands in YYYY-MM-DD_<name>.`,
		Args: cobra.ExactArgs(1),
		RunE: runAddCmd,
	}

	cmd.Flags().Float64Var(&addLatitude, "lat", 0, "latitude of the search circle center")
	cmd.Flags().Float64Var(&addLongitude, "lng", 0, "longitude of the search circle center")
	cmd.Flags().Float64Var(&addRadiusKM, "radius", 0, "search circle radius in kilometers")
	cmd.Flags().IntVar(&addInterval, "interval", 0,
		"poll interval in minutes (0 means the service default)")
	cmd.Flags().BoolVar(&addDisabled, "disabled", false, "register the location without enabling polling")

	return cmd
}

// createEnableCmd creates the enable command
func createEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable [name]",
		Short: "Enable polling for a location",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnableCmd,
	}
}

// createDisableCmd creates the disable command
func createDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable [name]",
		Short: "Disable polling for a location",
		Args:  cobra.ExactArgs(1),
		RunE:  runDisableCmd,
	}
}

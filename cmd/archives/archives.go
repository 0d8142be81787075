// Package archives implements the command-line interface for managing the
// archive files of a running GeoSearch service. Archive state lives in the
// service process, so the commands talk to its HTTP API rather than the
// filesystem.
package archives

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/internal/config"
)

var (
	serverURL   string
	forceDelete bool
)

// Command returns the archives command for use in the root command
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archives",
		Short: "Manage archive files",
		Long:  `Manage the day/location archive files of a running GeoSearch service`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(
		&serverURL,
		"server",
		"",
		"base URL of the running service (defaults to the configured server address)",
	)

	cmd.AddCommand(createListCmd(), createSealCmd(), createDeleteCmd())
	return cmd
}

// createListCmd creates the list command
func createListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered archives",
		RunE:  runListCmd,
	}
}

// createSealCmd creates the seal command
func createSealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal [archive-key]",
		Short: "Seal an archive into its final JSON array form",
		Long: `Seal the archive for the given key (YYYY-MM-DD_Location). Sealing wraps
the collected fragments in square brackets, mirrors the file to object
storage when configured, and releases the key.`,
		Args: cobra.ExactArgs(1),
		RunE: runSealCmd,
	}
}

// createDeleteCmd creates the delete command
func createDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [archive-key...]",
		Short: "Delete archives and their files",
		Long: `Delete one or more archives by key. The physical file is removed and the
key is released; deleting an unknown key succeeds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDeleteCmd,
	}
	cmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Force deletion without confirmation")
	return cmd
}

// serverBaseURL resolves the service base URL from the --server flag or the
// configured listen address.
func serverBaseURL(cfg *config.Config) string {
	if serverURL != "" {
		return strings.TrimSuffix(serverURL, "/")
	}
	addr := cfg.Server.Address
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

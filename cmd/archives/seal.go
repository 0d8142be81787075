package archives

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
)

// runSealCmd executes the seal command
func runSealCmd(cmd *cobra.Command, args []string) error {
	key := args[0]

	// Get dependencies
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	client := NewClient(serverBaseURL(deps.Config))
	if sealErr := client.SealArchive(cmd.Context(), key); sealErr != nil {
		return sealErr
	}

	deps.Logger.Info("Archive sealed", "key", key)
	return nil
}

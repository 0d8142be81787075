package locations

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	"github.com/jonesrussell/geosearch/internal/database"
)

// runEnableCmd executes the enable command
func runEnableCmd(cmd *cobra.Command, args []string) error {
	return setEnabled(cmd, args[0], true)
}

// runDisableCmd executes the disable command
func runDisableCmd(cmd *cobra.Command, args []string) error {
	return setEnabled(cmd, args[0], false)
}

// setEnabled toggles polling for the named location
func setEnabled(cmd *cobra.Command, name string, enabled bool) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}

	db, err := common.OpenDatabase(deps.Config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := database.NewLocationRepository(db)
	if err := repo.SetEnabled(cmd.Context(), name, enabled); err != nil {
		if errors.Is(err, database.ErrLocationNotFound) {
			return fmt.Errorf("no location named %q is registered", name)
		}
		return fmt.Errorf("failed to update location: %w", err)
	}

	if enabled {
		deps.Logger.Info("Location enabled", "name", name)
	} else {
		deps.Logger.Info("Location disabled", "name", name)
	}

	return nil
}

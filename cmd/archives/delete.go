// Package archives implements the command-line interface for managing the
// archive files of a running GeoSearch service. This file contains the
// implementation of the delete command that removes archives and their
// physical files.
package archives

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	"github.com/jonesrussell/geosearch/internal/logger"
)

// ErrDeletionCancelled is returned when the user cancels the deletion
var ErrDeletionCancelled = errors.New("deletion cancelled by user")

// Deleter implements the archive delete command
type Deleter struct {
	client *Client
	logger logger.Interface
	keys   []string
	force  bool
}

// NewDeleter creates a new deleter instance
func NewDeleter(client *Client, log logger.Interface, keys []string, force bool) *Deleter {
	return &Deleter{
		client: client,
		logger: log,
		keys:   keys,
		force:  force,
	}
}

// Start executes the delete operation
func (d *Deleter) Start(ctx context.Context) error {
	if err := d.confirmDeletion(); err != nil {
		return err
	}

	return d.deleteArchives(ctx)
}

// confirmDeletion asks for user confirmation before deletion
func (d *Deleter) confirmDeletion() error {
	// Write the list of archives to be deleted
	if _, err := os.Stdout.WriteString("The following archives will be deleted:\n"); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	if _, err := os.Stdout.WriteString(strings.Join(d.keys, "\n") + "\n"); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	// If force flag is set or stdin is not a terminal, skip confirmation
	if d.force || !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil
	}

	if _, err := os.Stdout.WriteString("Are you sure you want to continue? (y/N): "); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		// If we get an EOF or empty input, treat it as 'N'
		if errors.Is(err, io.EOF) || response == "" {
			return ErrDeletionCancelled
		}
		return fmt.Errorf("failed to read user input: %w", err)
	}

	if !strings.EqualFold(response, "y") {
		return ErrDeletionCancelled
	}

	return nil
}

// deleteArchives deletes each archive in turn
func (d *Deleter) deleteArchives(ctx context.Context) error {
	for _, key := range d.keys {
		if err := d.client.DeleteArchive(ctx, key); err != nil {
			return fmt.Errorf("failed to delete archive %s: %w", key, err)
		}
		d.logger.Info("Archive deleted", "key", key)
	}
	return nil
}

// runDeleteCmd executes the delete command
func runDeleteCmd(cmd *cobra.Command, args []string) error {
	// Get dependencies
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	client := NewClient(serverBaseURL(deps.Config))
	deleter := NewDeleter(client, deps.Logger, args, forceDelete)

	return deleter.Start(cmd.Context())
}

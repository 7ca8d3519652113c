// Package service controls the appliance's resolver through the external
// service manager and rebuild hook, both invoked as plain commands.
package service

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"blocksync/internal/blocksync"
)

// ExecController implements the blocksync.ServiceController port by running
// the configured commands. The commands are trusted external collaborators;
// their stderr is the only diagnostic they provide, so it is captured and
// attached to the returned error.
type ExecController struct {
	stopCommand    []string
	rebuildCommand []string
}

var _ blocksync.ServiceController = (*ExecController)(nil)

// NewExecController creates a controller running the given argv commands.
func NewExecController(stopCommand, rebuildCommand []string) *ExecController {
	return &ExecController{
		stopCommand:    stopCommand,
		rebuildCommand: rebuildCommand,
	}
}

// StopResolver runs the configured stop command, e.g.
// ["systemctl", "stop", "dnsmasq"].
func (c *ExecController) StopResolver(ctx context.Context) error {
	return c.run(ctx, c.stopCommand)
}

// RebuildLists runs the configured rebuild hook. The hook regenerates
// derived blocklists from the tables and restarts the resolver.
func (c *ExecController) RebuildLists(ctx context.Context) error {
	return c.run(ctx, c.rebuildCommand)
}

func (c *ExecController) run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("no command configured")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("running %s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("running %s: %w", argv[0], err)
	}
	return nil
}

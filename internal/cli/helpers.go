package cli

import (
	"fmt"

	"github.com/ascend-app/ascend/internal/daemon"
)

// openDaemon builds a fully wired daemon for db-backed commands.
// The caller must Close it.
func openDaemon() (*daemon.Daemon, error) {
	d, err := daemon.New()
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return d, nil
}

package cli

import (
	"os"
	"path/filepath"

	"casedesk/internal/config"
	"casedesk/internal/tui"

	"github.com/spf13/cobra"
)

const tuiLogFileName = "tui.log"

func runTUI(cmd *cobra.Command, app *App) error {
	rt, err := openRuntime(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer rt.Close()

	// The dashboard owns the terminal; its logs go to a file in the origin dir.
	f, err := os.OpenFile(filepath.Join(rt.store.Dir, tuiLogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()
	logger := config.SetupLogger(rt.cfg, f)
	client, err := newClient(rt.cfg, logger)
	if err != nil {
		return writeErr(cmd, err)
	}

	return tui.Run(cmd.Context(), tui.Options{
		Remote: client,
		State:  rt.state,
		Store:  rt.store,
		Logger: logger,
	})
}

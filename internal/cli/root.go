package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/srinivasaraghavankm/beer/internal/infra/fsworkspace"
	"github.com/srinivasaraghavankm/beer/internal/infra/logger"
	"github.com/srinivasaraghavankm/beer/internal/infra/workspacefinder"
	"github.com/srinivasaraghavankm/beer/internal/ui/tui"
)

// usageError is printed verbatim, without the "error:" prefix.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(w, ue.msg)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "beerprep",
		Short:         "beerprep: Mboshi corpus staging and VAE model configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace("")
			if err != nil {
				return err
			}
			stop := ws.startLogger(cmd)
			defer stop()

			deps := tui.Deps{
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Listings:             ws.listings,
				Fetcher:              ws.fetcher,
				Store:                ws.artifactStore(),
				ModelLoader:          ws.models,
				ModelRenderer:        ws.models,
				ModelPath:            ws.modelPath(""),
				Config:               ws.cfg,
				DataDir:              filepath.Join(ws.root, "data"),
				Logger:               logger.L(),
				Debug:                debug,
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .beerprep/logs/beerprep.log")

	cmd.AddCommand(
		prepCmd(),
		statusCmd(),
		modelCmd(),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

const prepUsage = "usage: beerprep prep <datadir>"

func prepCmd() *cobra.Command {
	var workspace string
	var noClone bool
	var noSave bool

	c := &cobra.Command{
		Use:   "prep",
		Short: "Clone the corpus if needed and write wavs.scp/uttids per split",
		Long: `Clone the corpus if needed and write wavs.scp/uttids per split.

Inside a workspace (a directory holding beerprep.yaml, see "beerprep init")
each run also records a manifest under .beerprep/runs and appends to
.beerprep/logs/beerprep.log. Without a workspace only the listings are written.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{msg: prepUsage}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			stop := ws.startLogger(cmd)
			defer stop()

			store := ws.artifactStore()
			if noSave {
				store = nil
			}

			uc := usecase.NewPrepareCorpus(ws.fetcher, ws.listings, store,
				usecase.WithLogger(ws.log()),
				usecase.WithSkipClone(noClone),
			)

			res, runID, err := uc.Execute(cmd.Context(), args[0], ws.cfg.Corpus)
			if err != nil {
				return err
			}

			printPrep(cmd.OutOrStdout(), res, runID)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().BoolVar(&noClone, "no-clone", false, "Fail instead of cloning when the corpus is missing")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save a run manifest")
	return c
}

func printPrep(w io.Writer, res domain.PrepResult, runID string) {
	action := "reused"
	if res.Cloned {
		action = "cloned"
	}

	fmt.Fprintf(w, "Corpus:     %s (%s)\n", res.CorpusDir, action)
	for _, s := range res.Splits {
		fmt.Fprintf(w, "- %-8s %6d utterances -> %s\n", s.Split, s.Utterances, s.ScpPath)
	}
	fmt.Fprintf(w, "Total:      %d utterances\n", res.TotalUtterances())
	fmt.Fprintf(w, "Duration:   %s\n", res.Duration().Round(time.Millisecond))
	if runID != "" {
		fmt.Fprintf(w, "Run ID:     %s\n", runID)
	}
}

package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/srinivasaraghavankm/beer/internal/infra/runstore"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

func statusCmd() *cobra.Command {
	var workspace string

	c := &cobra.Command{
		Use:   "status",
		Short: "Show which splits are staged under a data directory",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{msg: "usage: beerprep status <datadir>"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			rows := usecase.NewStatus(ws.listings).Execute(args[0], ws.cfg.Corpus.Splits)
			out := cmd.OutOrStdout()
			printStatus(out, rows)

			// The manifest index is optional; a missing one just means no runs yet.
			if ws.store == nil {
				return nil
			}
			if entries, lerr := ws.store.ListPreps(); lerr == nil && len(entries) > 0 {
				printLastRun(out, entries[0])
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return c
}

func printStatus(w io.Writer, rows []usecase.SplitStatus) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		state := "missing"
		count := "-"
		switch {
		case r.Err != nil:
			state = "error: " + r.Err.Error()
		case r.Staged:
			state = "staged"
			count = strconv.Itoa(r.Utterances)
		}
		data = append(data, []string{r.Split, count, state, r.Dir})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"SPLIT", "UTTERANCES", "STATE", "DIR"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func printLastRun(w io.Writer, e runstore.IndexEntry) {
	fmt.Fprintf(w, "\nLast prep: %s (%s, %d utterances, cloned=%v)\n",
		e.StartedAt.Format(time.RFC3339), e.DataDir, e.Utterances, e.Cloned)
}

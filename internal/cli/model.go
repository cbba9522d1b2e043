package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

// modelFlags are shared by every model subcommand.
type modelFlags struct {
	workspace string
	vars      []string
}

func (f *modelFlags) bind(c *cobra.Command) {
	c.Flags().StringVarP(&f.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringArrayVar(&f.vars, "var", nil, "Placeholder value as name=value (repeatable, overrides config vars)")
}

func (f *modelFlags) load(args []string) (*workspaceCtx, string, domain.Vars, error) {
	vars, err := domain.ParseVarAssignments(f.vars)
	if err != nil {
		return nil, "", nil, err
	}
	ws, err := loadWorkspace(f.workspace)
	if err != nil {
		return nil, "", nil, err
	}
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	return ws, ws.modelPath(arg), vars, nil
}

func modelCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "model",
		Short: "Inspect VAE normalizing-flow model configurations",
	}
	c.AddCommand(
		modelValidateCmd(),
		modelRenderCmd(),
		modelShowCmd(),
		modelQueryCmd(),
	)
	return c
}

func modelValidateCmd() *cobra.Command {
	var f modelFlags

	c := &cobra.Command{
		Use:   "validate [file]",
		Short: "Load, resolve and validate a model configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, path, vars, err := f.load(args)
			if err != nil {
				return err
			}
			if _, err := ws.modelConfigs().Resolve(path, vars); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	f.bind(c)
	return c
}

func modelRenderCmd() *cobra.Command {
	var f modelFlags
	var output string

	c := &cobra.Command{
		Use:   "render [file]",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, path, vars, err := f.load(args)
			if err != nil {
				return err
			}
			out, err := ws.modelConfigs().Render(path, vars)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return &domain.OpError{Op: "model.render", Kind: domain.KindExecution, Path: output, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	f.bind(c)
	c.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return c
}

func modelShowCmd() *cobra.Command {
	var f modelFlags

	c := &cobra.Command{
		Use:   "show [file]",
		Short: "Show layer shapes and an estimated parameter count",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, path, vars, err := f.load(args)
			if err != nil {
				return err
			}
			s, err := ws.modelConfigs().Summarize(path, vars)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
	f.bind(c)
	return c
}

func modelQueryCmd() *cobra.Command {
	var f modelFlags

	c := &cobra.Command{
		Use:   "query <file> <jsonpath>",
		Short: "Evaluate a JSONPath expression on the resolved configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, path, vars, err := f.load(args[:1])
			if err != nil {
				return err
			}
			v, err := ws.modelConfigs().Query(path, vars, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	f.bind(c)
	return c
}

func printSummary(w io.Writer, s usecase.ModelSummary) {
	if s.Name != "" {
		fmt.Fprintf(w, "Model: %s\n\n", s.Name)
	}

	data := make([][]string, 0, len(s.Layers))
	for _, l := range s.Layers {
		data = append(data, []string{
			l.Name,
			strconv.Itoa(l.In),
			strconv.Itoa(l.Out),
			string(l.Activation),
			strconv.Itoa(l.Params()),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"LAYER", "IN", "OUT", "ACTIVATION", "PARAMS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	fmt.Fprintf(w, "\nParameters: %d\n", s.Params)
}

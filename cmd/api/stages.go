package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/xavierca1/maria-crm/internal/config"
	"github.com/xavierca1/maria-crm/internal/infra/database"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

func newStagesCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Print the pipeline stage catalog and the default stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := openDatabase(ctx, cfg())
			if err != nil {
				return err
			}
			defer db.Close()

			catalog := usecase.NewStageCatalog(database.NewStageRepository(db))
			return printStages(ctx, cmd.OutOrStdout(), catalog)
		},
	}
}

// printStages fails when no default stage resolves, so scripts can gate on
// the exit code before enabling conversions.
func printStages(ctx context.Context, out io.Writer, catalog *usecase.StageCatalog) error {
	stages, err := catalog.Stages(ctx)
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Pipeline", "Position", "Name"})
	for _, s := range stages {
		tw.AppendRow(table.Row{
			strconv.FormatInt(s.ID, 10),
			strconv.FormatInt(s.PipelineID, 10),
			strconv.Itoa(s.Position),
			s.Name,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	fmt.Fprintln(out, tw.Render())

	def, err := catalog.DefaultStage(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Default stage: %s (id %d, position %d)\n", def.Name, def.ID, def.Position)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestEmployeeIDs []string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the employee vector corpus",
	Long:  "Builds canonical text for every employee (or the given subset), embeds it and upserts it into the vector index. Prints the sync report as JSON.",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestEmployeeIDs, "employee", nil, "Restrict the sync to these employee IDs (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Corpus.Sync(ctx, ingestEmployeeIDs)
	if err != nil {
		return fmt.Errorf("corpus sync failed: %w", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sync report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d employees failed to sync", report.Failed, report.Total)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabscope/internal/api"
	"tabscope/internal/config"
	"tabscope/internal/container"
	"tabscope/internal/report"
	"tabscope/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tabscope",
		Short: "Tabular dataset analysis: profiling, insights, anomalies and Q&A",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newAskCmd(),
		newServeCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func newAnalyzeCmd() *cobra.Command {
	var asJSON bool
	var reportDir string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run the full analysis pipeline over a CSV, Excel or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildContainer()
			if err != nil {
				return err
			}
			defer deps.Close()

			rec := deps.Orchestrator.Run(cmd.Context(), args[0])

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}

			if reportDir == "" {
				reportDir = deps.Config.Paths.WorkDir
			}
			path, err := report.Write(rec, reportDir)
			if err != nil {
				return err
			}
			fmt.Printf("Analysis %s: %s\n", rec.Status, rec.RunID)
			if rec.Error != "" {
				fmt.Printf("Errors: %s\n", rec.Error)
			}
			if rec.Warning != "" {
				fmt.Printf("Warnings: %s\n", rec.Warning)
			}
			fmt.Printf("Report written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the findings record as JSON instead of writing a report")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for report output (defaults to the work dir)")

	return cmd
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [file] [question]",
		Short: "Analyze a file and answer a question about it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildContainer()
			if err != nil {
				return err
			}
			defer deps.Close()

			rec := deps.Orchestrator.Run(cmd.Context(), args[0])
			if rec.Dataset == nil {
				return fmt.Errorf("analysis failed: %s", rec.Error)
			}

			answer := deps.Resolver(rec).Answer(cmd.Context(), rec, args[1])
			fmt.Println(answer)
			return nil
		},
	}
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildContainer()
			if err != nil {
				return err
			}
			defer deps.Close()

			return api.NewServer(deps).ListenAndServe()
		},
	}
}

func newSampleCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "sample [path]",
		Short: "Write a seeded sample sales CSV for trying the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := testkit.WriteSampleCSV(args[0], rows); err != nil {
				return err
			}
			fmt.Printf("Wrote %d sample rows to %s\n", rows, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 100, "Number of rows to generate")

	return cmd
}

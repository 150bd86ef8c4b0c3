package main

import (
	"fmt"
	"log"
	"os"

	domain "gohousehold/domain/household"
	"gohousehold/internal/config"
	"gohousehold/internal/errors"
	"gohousehold/internal/household"
	"gohousehold/internal/report"
	"gohousehold/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.LoadBatch()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := newRootCmd(appConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type dataFlags struct {
	file   string
	schema string
}

func (f *dataFlags) shaper() (*household.Shaper, error) {
	schema, err := domain.LoadSchema(f.schema)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	table, err := household.Load(f.file, schema)
	if err != nil {
		return nil, err
	}
	return household.NewShaper(table, schema)
}

func newRootCmd(appConfig *config.Config) *cobra.Command {
	data := &dataFlags{}

	rootCmd := &cobra.Command{
		Use:           "household-report",
		Short:         "Batch charts, reports and consistency checks for the Seoul household table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&data.file, "data", appConfig.Data.File, "Household CSV or XLSX file")
	rootCmd.PersistentFlags().StringVar(&data.schema, "schema", appConfig.Data.SchemaFile, "Optional schema YAML overriding column names and markers")

	rootCmd.AddCommand(
		newRenderCmd(appConfig, data),
		newExportCmd(data),
		newCheckCmd(data),
		newSampleCmd(),
	)
	return rootCmd
}

func newRenderCmd(appConfig *config.Config, data *dataFlags) *cobra.Command {
	opts := report.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the five report charts, the Markdown report and its HTML rendering",
		Long: `Render loads the table, writes the chart images into the plots directory, logs the
first rows of the district by household type cross-tab, and writes the Markdown report
with an HTML sibling.

Example: household-report render --plots out/plots --report out/report.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shaper, err := data.shaper()
			if err != nil {
				return err
			}
			result, err := report.Generate(shaper, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range result.Images {
				fmt.Fprintln(out, path)
			}
			fmt.Fprintln(out, result.ReportPath)
			fmt.Fprintln(out, result.HTMLPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.PlotsDir, "plots", appConfig.Output.PlotsDir, "Directory for chart images")
	cmd.Flags().StringVar(&opts.ReportPath, "report", appConfig.Output.ReportPath, "Markdown report path")

	return cmd
}

func newExportCmd(data *dataFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every view to one XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shaper, err := data.shaper()
			if err != nil {
				return err
			}
			if err := report.SaveWorkbook(shaper, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "household_views.xlsx", "Workbook path")

	return cmd
}

func newCheckCmd(data *dataFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare citywide subtotals with the sum of district subtotals",
		Long: `Check prints one line per citywide subtotal row and fails when any district sum
differs from the citywide value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shaper, err := data.shaper()
			if err != nil {
				return err
			}

			results := shaper.Reconcile()
			out := cmd.OutOrStdout()
			for _, r := range results {
				status := "OK"
				if !r.Consistent() {
					status = "MISMATCH"
				}
				fmt.Fprintf(out, "%-8s %s/%s city=%d districts=%d\n", status, r.Category, r.Type, r.CityValue, r.DistrictSum)
			}

			if mismatches := household.Mismatches(results); len(mismatches) > 0 {
				return errors.InvalidInput(fmt.Sprintf("%d of %d subtotals do not reconcile", len(mismatches), len(results)))
			}
			return nil
		},
	}
}

func newSampleCmd() *cobra.Command {
	generator := testkit.DefaultHouseholdConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic household CSV with consistent subtotals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := testkit.NewHouseholdDataGenerator(generator).WriteCSV(out); err != nil {
				return errors.Wrap(err, "failed to write sample data")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "sample_household.csv", "CSV path")
	cmd.Flags().IntVar(&generator.DistrictCount, "districts", generator.DistrictCount, "Number of districts")
	cmd.Flags().IntVar(&generator.NeighborhoodsPerDistrict, "neighborhoods", generator.NeighborhoodsPerDistrict, "Neighborhoods per district")
	cmd.Flags().Int64Var(&generator.Seed, "seed", generator.Seed, "Random seed for deterministic output")
	cmd.Flags().Float64Var(&generator.PlaceholderRate, "placeholder-rate", generator.PlaceholderRate, "Share of neighborhood cells written as '-'")

	return cmd
}

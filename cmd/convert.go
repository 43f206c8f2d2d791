package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/owl-recorder/internal/convert"
	"github.com/mj1618/owl-recorder/internal/observability"
	"github.com/mj1618/owl-recorder/internal/output"
	"github.com/mj1618/owl-recorder/internal/transcode"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert recorder JSON files into Owloops action lists",
	Long: `Convert one or more Chrome DevTools Recorder exports into Owloops tests.

Each <name>.json is written to <output>/<name>.owl.json. When the output
folder cannot be written, the fallback folder is tried once. Neither folder
is created.

Examples:
  owl-recorder convert flows/login.json
  owl-recorder convert --dry flows/*.json
  owl-recorder convert -o tests/owl --summary --format table flows/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	flags := convertCmd.Flags()
	flags.StringP("output", "o", "", "Output folder (default owloops/integration)")
	flags.String("fallback-output", "", "Folder tried when the output folder cannot be written (default owloops/e2e)")
	flags.Bool("dry", false, "Print the converted JSON to stdout and write nothing")
	flags.Bool("print", false, "Also print the converted JSON after writing it")
	flags.String("selector-attribute", "", "Preferred selector attribute, overriding each recording's own")
	flags.Int("concurrency", 0, "Recordings converted at once (default 4)")
	flags.Bool("summary", false, "Print a summary of the run in --format")

}

// errConvertFailed reports that at least one recording did not convert.
var errConvertFailed = errors.New("some recordings failed to convert")

func runConvert(cmd *cobra.Command, args []string) error {
	dry, _ := cmd.Flags().GetBool("dry")
	printOut, _ := cmd.Flags().GetBool("print")
	summary, _ := cmd.Flags().GetBool("summary")

	results, err := convert.Batch(cmd.Context(), args, convert.BatchOptions{
		Options: convert.Options{
			SelectorAttribute: cfg.Convert.SelectorAttribute,
			Keys:              transcode.NewKeymap(cfg.Convert.Keys),
			Logger:            observability.GetLogger(),
		},
		OutputDir:   cfg.Convert.OutputDir,
		FallbackDir: cfg.Convert.FallbackOutputDir,
		Dry:         dry,
		Print:       printOut,
		Concurrency: cfg.Convert.Concurrency,
		Stdout:      cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("convert interrupted: %w", err)
	}

	s := output.NewSummary(results)
	if summary {
		if err := output.Print(cmd.OutOrStdout(), format, s); err != nil {
			return err
		}
	}
	if s.Failed > 0 {
		observability.GetLogger().Warn("conversion finished with failures",
			zap.Int("failed", s.Failed),
			zap.Int("total", s.Total),
		)
		return fmt.Errorf("%w: %d of %d", errConvertFailed, s.Failed, s.Total)
	}
	return nil
}

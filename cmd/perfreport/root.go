package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/neehar-mavuduru/perfreport/config"
	"github.com/neehar-mavuduru/perfreport/logging"
	"github.com/neehar-mavuduru/perfreport/pipeline"
	"github.com/neehar-mavuduru/perfreport/reporter"
)

var envFiles = []string{".env", ".env.local"}

func newRootCmd() *cobra.Command {
	var (
		outDir    string
		catalog   string
		logLevel  string
		logJSON   bool
		gcsBucket string
		gcsPrefix string
	)

	cmd := &cobra.Command{
		Use:           "perfreport <root>",
		Short:         "Extract CPU and wrk metrics from an experiment tree and build the comparison report",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0], envFiles...)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.OutputDir = outDir
			}
			if flags.Changed("catalog") {
				cfg.CatalogPath = catalog
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-json") {
				cfg.LogJSON = logJSON
			}
			if flags.Changed("gcs-bucket") {
				cfg.GCS.Bucket = gcsBucket
			}
			if flags.Changed("gcs-prefix") {
				cfg.GCS.Prefix = gcsPrefix
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)
			if err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), cfg, logger)
			if res.Records != nil {
				printResult(cmd.OutOrStdout(), cfg, res)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default <root>/analysis_output)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "YAML file with extra scenario descriptions")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log as JSON")
	cmd.Flags().StringVar(&gcsBucket, "gcs-bucket", "", "Upload the output directory to this GCS bucket")
	cmd.Flags().StringVar(&gcsPrefix, "gcs-prefix", "", "Object prefix inside the GCS bucket")
	return cmd
}

func printResult(w io.Writer, cfg config.Config, res pipeline.Result) {
	fmt.Fprintf(w, "Collected %d runs\n", len(res.Records))
	fmt.Fprintf(w, "Output directory: %s\n", cfg.OutputDir)
	for _, a := range res.Artifacts {
		fmt.Fprintf(w, "  %s\n", a)
	}
	for _, chart := range reporter.Charts {
		if err, ok := res.Charts.Failures[chart]; ok {
			fmt.Fprintf(w, "Chart %s not rendered: %v\n", chart, err)
		}
	}

	listing := res.Missing.Listing(cfg.ConsoleMissingLimit)
	if len(listing) == 0 {
		return
	}
	fmt.Fprintf(w, "Missing or unparsable files (%d, showing %d):\n", res.Missing.Len(), len(listing))
	for _, m := range listing {
		fmt.Fprintf(w, "  %s\n", m)
	}
}

package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "transcriber",
	Short: "PDF Transcriber - extract structured text from PDFs with a multimodal model",
	Long: `The Transcriber drives a multimodal model over PDF documents in page batches,
stitching the per-batch outputs into one continuous, consistently-numbered
text document with paragraph, table and visual-element markers.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package commands

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf-transcriber/cmd/transcriber/ui"
	"github.com/spherical/pdf-transcriber/pkg/transcriber"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf_path> [pages_per_batch] [delay_seconds]",
	Short: "Extract content from a single PDF",
	Long: `Extract structured content from one PDF and write it to a sibling
<name>_extracted.txt file. Defaults: 30 pages per batch, 10 seconds between
batches.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ui.InitUI(noColor, verbose)

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	client, err := transcriber.NewClientWithConfig(cfg)
	if err != nil {
		return err
	}
	wireEvents(client)

	ui.Section("PDF Extraction")
	ui.KeyValue("Input", args[0])
	ui.KeyValue("Pages per batch", strconv.Itoa(cfg.Extraction.PagesPerBatch))
	ui.KeyValue("Delay", strconv.Itoa(cfg.Extraction.DelaySeconds)+"s")
	ui.Newline()

	result, err := client.ExtractDocument(ctx, args[0])
	if err != nil {
		return err
	}

	reportDocument(result)
	return nil
}

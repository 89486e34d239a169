package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf-transcriber/cmd/transcriber/ui"
	"github.com/spherical/pdf-transcriber/pkg/transcriber"
)

var extractFolderCmd = &cobra.Command{
	Use:   "extract_folder <dir_or_pdf_path> [pages_per_batch] [delay_seconds]",
	Short: "Extract content from every PDF in a folder",
	Long: `Extract structured content from every PDF under the given directory
(a single PDF path is also accepted). PDFs with an existing
<name>_extracted.txt are skipped. Documents are processed sequentially and
failures are isolated: one failed PDF never aborts the rest.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runExtractFolder,
}

func init() {
	rootCmd.AddCommand(extractFolderCmd)
}

func runExtractFolder(cmd *cobra.Command, args []string) error {
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

	ui.Section("Folder Extraction")
	ui.KeyValue("Input", args[0])
	ui.KeyValue("Pages per batch", strconv.Itoa(cfg.Extraction.PagesPerBatch))
	ui.KeyValue("Delay", strconv.Itoa(cfg.Extraction.DelaySeconds)+"s")
	ui.Newline()

	result, err := client.ExtractFolder(ctx, args[0])
	if err != nil {
		return err
	}

	for i := range result.Documents {
		reportDocument(&result.Documents[i])
		ui.Newline()
	}

	// Exit code reflects the worst-case status across all documents.
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", result.Failed, len(result.Documents))
	}
	ui.Success("All %d documents processed", len(result.Documents))
	return nil
}

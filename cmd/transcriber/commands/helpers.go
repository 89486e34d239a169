package commands

import (
	"fmt"
	"strconv"

	"github.com/spherical/pdf-transcriber/cmd/transcriber/ui"
	"github.com/spherical/pdf-transcriber/internal/config"
	"github.com/spherical/pdf-transcriber/internal/domain"
	"github.com/spherical/pdf-transcriber/pkg/transcriber"
)

// loadConfig builds the run configuration from file/env plus the optional
// positional overrides [pages_per_batch] [delay_seconds].
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, domain.InvalidConfiguration(
				fmt.Sprintf("pages_per_batch must be an integer, got %q", args[1]), err)
		}
		cfg.Extraction.PagesPerBatch = n
	}
	if len(args) >= 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, domain.InvalidConfiguration(
				fmt.Sprintf("delay_seconds must be an integer, got %q", args[2]), err)
		}
		cfg.Extraction.DelaySeconds = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// wireEvents attaches spinner and progress-bar callbacks to the client.
func wireEvents(client *transcriber.Client) {
	var (
		uploadSpinner *ui.Spinner
		bar           *ui.ProgressBar
	)

	client.SetEvents(transcriber.Events{
		OnUploadStart: func(name string) {
			uploadSpinner = ui.NewSpinner(fmt.Sprintf("Uploading %s...", name))
			uploadSpinner.Start()
		},
		OnUploadDone: func() {
			if uploadSpinner != nil {
				uploadSpinner.Stop()
				uploadSpinner = nil
			}
		},
		OnWindow: func(done, total int) {
			if bar == nil {
				bar = ui.NewProgressBar(int64(total), "Extracting batches")
			}
			bar.Set(int64(done))
			if done == total {
				bar.Finish()
				bar = nil
			}
		},
	})
}

// reportDocument prints the per-document outcome.
func reportDocument(result *transcriber.DocumentResult) {
	if result.Skipped {
		ui.Info("%s: output already exists, skipped", result.Path)
		return
	}
	if result.Truncated {
		ui.Warning("%s: last page could not be confirmed complete (truncated output)", result.Path)
	}
	ui.Success("Extracted %s", result.Path)
	ui.KeyValue("Output", result.OutputPath)
	ui.KeyValue("Pages", strconv.Itoa(result.Pages))
	ui.KeyValue("Batches", strconv.Itoa(result.Windows))
	ui.KeyValue("Sections", strconv.Itoa(result.Sections))
	ui.KeyValue("Duration", ui.FormatDuration(result.Duration))
}

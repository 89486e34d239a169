// Package driver discovers input PDFs, runs the batch orchestrator per
// document, and persists the assembled output files.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/pdf-transcriber/internal/batch"
	"github.com/spherical/pdf-transcriber/internal/config"
	"github.com/spherical/pdf-transcriber/internal/domain"
	"github.com/spherical/pdf-transcriber/internal/llm"
	"github.com/spherical/pdf-transcriber/internal/observability"
	"github.com/spherical/pdf-transcriber/internal/pdf"
)

// outputSuffix marks a completed extraction; its presence skips the input.
const outputSuffix = "_extracted.txt"

// uploadSettleDelay gives the File API time to index the upload before the
// first extraction call.
const uploadSettleDelay = 2 * time.Second

// Events holds optional UI callbacks for long-running steps.
type Events struct {
	OnUploadStart func(name string)
	OnUploadDone  func()
	OnWindow      batch.ProgressFunc
}

// SessionFactory opens a model session over one document. Production wiring
// uploads the PDF and starts a Gemini conversation; tests substitute fakes.
type SessionFactory func(ctx context.Context, pdfPath string) (batch.Session, error)

// Driver runs extraction over single documents or folders. Documents are
// processed strictly sequentially: one session, one credential, one
// rate-limit budget.
type Driver struct {
	cfg    *config.Config
	log    *observability.Logger
	events Events

	countPages func(path string) (int, error)
	newSession SessionFactory
}

// New creates a production driver wired to go-fitz and the Gemini client.
func New(cfg *config.Config, apiKey string, log *observability.Logger) *Driver {
	client := llm.NewClient(apiKey, cfg.Extraction.Model, cfg.Extraction.BaseURL)

	d := &Driver{cfg: cfg, log: log}
	d.countPages = func(path string) (int, error) {
		doc, err := pdf.Open(path)
		if err != nil {
			return 0, err
		}
		return doc.PageCount, nil
	}
	d.newSession = func(ctx context.Context, pdfPath string) (batch.Session, error) {
		doc := &pdf.Document{Path: pdfPath}
		data, err := doc.Bytes()
		if err != nil {
			return nil, err
		}
		if d.events.OnUploadStart != nil {
			d.events.OnUploadStart(filepath.Base(pdfPath))
		}
		uri, err := client.UploadFile(ctx, data)
		if d.events.OnUploadDone != nil {
			d.events.OnUploadDone()
		}
		if err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(uploadSettleDelay):
		}
		return client.NewSession(uri), nil
	}
	return d
}

// SetEvents registers UI callbacks.
func (d *Driver) SetEvents(events Events) {
	d.events = events
}

// DocumentResult summarizes one document's processing.
type DocumentResult struct {
	Path       string
	OutputPath string
	Status     domain.RunStatus
	Skipped    bool
	Truncated  bool
	Pages      int
	Windows    int
	Sections   int
	Duration   time.Duration
}

// CorpusResult aggregates folder-mode processing.
type CorpusResult struct {
	Documents []DocumentResult
	Failed    int
}

// WorstStatus returns FAILED if any document failed, COMPLETED otherwise.
func (r *CorpusResult) WorstStatus() domain.RunStatus {
	if r.Failed > 0 {
		return domain.StatusFailed
	}
	return domain.StatusCompleted
}

// OutputPathFor returns the sibling output path for a PDF input.
func OutputPathFor(pdfPath string) string {
	base := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath))
	return base + outputSuffix
}

// ProcessDocument extracts one PDF. A document whose output file already
// exists is skipped without any model call. On failure no output file is
// written, so a rerun picks the document up again.
func (d *Driver) ProcessDocument(ctx context.Context, pdfPath string) (*DocumentResult, error) {
	result := &DocumentResult{
		Path:       pdfPath,
		OutputPath: OutputPathFor(pdfPath),
		Status:     domain.StatusPending,
	}

	log := d.log.With().
		Str("pdf", filepath.Base(pdfPath)).
		Str("run_id", uuid.NewString()).
		Logger()

	if _, err := os.Stat(result.OutputPath); err == nil {
		log.Info().Str("output", result.OutputPath).Msg("output already exists, skipping")
		result.Skipped = true
		result.Status = domain.StatusCompleted
		return result, nil
	}

	pages, err := d.countPages(pdfPath)
	if err != nil {
		result.Status = domain.StatusFailed
		return result, err
	}
	result.Pages = pages
	log.Info().Int("pages", pages).Msg("opened PDF")

	session, err := d.newSession(ctx, pdfPath)
	if err != nil {
		result.Status = domain.StatusFailed
		return result, err
	}

	orch := batch.NewOrchestrator(session, d.cfg.Extraction.SectionThreshold, d.cfg.Delay(), log)
	if d.events.OnWindow != nil {
		orch.OnProgress(d.events.OnWindow)
	}

	run, err := orch.Run(ctx, pages, d.cfg.Extraction.PagesPerBatch)
	if err != nil {
		result.Status = domain.StatusFailed
		return result, err
	}

	if err := writeOutput(result.OutputPath, pdfPath, run.Output); err != nil {
		result.Status = domain.StatusFailed
		return result, err
	}

	result.Status = domain.StatusCompleted
	result.Truncated = run.Truncated
	result.Windows = run.Windows
	result.Sections = run.Sections
	result.Duration = run.Duration
	log.Info().
		Int("windows", run.Windows).
		Int("sections", run.Sections).
		Dur("duration", run.Duration).
		Msg("document completed")
	return result, nil
}

// ProcessFolder extracts every PDF under dir (a single PDF path is also
// accepted). Failures are isolated per document: one failed PDF never aborts
// the rest of the batch.
func (d *Driver) ProcessFolder(ctx context.Context, dir string) (*CorpusResult, error) {
	pdfs, err := discoverPDFs(dir)
	if err != nil {
		return nil, err
	}

	d.log.Info().Int("count", len(pdfs)).Str("dir", dir).Msg("discovered PDF files")

	result := &CorpusResult{}
	for _, path := range pdfs {
		if ctx.Err() != nil {
			break
		}
		docResult, err := d.ProcessDocument(ctx, path)
		if err != nil {
			d.log.Error().Str("pdf", filepath.Base(path)).Err(err).Msg("document failed")
			result.Failed++
		}
		result.Documents = append(result.Documents, *docResult)
	}
	return result, nil
}

// discoverPDFs lists the PDF inputs for a folder run.
func discoverPDFs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, domain.InvalidConfiguration(fmt.Sprintf("cannot access %s", path), err)
	}

	if !info.IsDir() {
		if !pdf.IsPDF(path) {
			return nil, domain.InvalidConfiguration(fmt.Sprintf("%s is not a PDF", path), nil)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, domain.InvalidConfiguration(fmt.Sprintf("read directory %s", path), err)
	}

	var pdfs []string
	for _, entry := range entries {
		if entry.IsDir() || !pdf.IsPDF(entry.Name()) {
			continue
		}
		pdfs = append(pdfs, filepath.Join(path, entry.Name()))
	}
	if len(pdfs) == 0 {
		return nil, domain.InvalidConfiguration(fmt.Sprintf("no PDF files in %s", path), nil)
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// writeOutput persists the assembled document: header line, separator, then
// the stitched content. The file is written to a temporary sibling and
// renamed so a crash never leaves a file the skip check would mistake for a
// completed run.
func writeOutput(outputPath, pdfPath, content string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "從 PDF 「%s」 擷取的文字內容\n", filepath.Base(pdfPath))
	b.WriteString(strings.Repeat("=", 80))
	b.WriteString("\n\n")
	b.WriteString(content)

	tmp := outputPath + ".partial"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return domain.FatalExtraction(fmt.Sprintf("write output %s", tmp), err)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		_ = os.Remove(tmp)
		return domain.FatalExtraction(fmt.Sprintf("finalize output %s", outputPath), err)
	}
	return nil
}

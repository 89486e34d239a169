// Package transcriber is the public entry point for the PDF transcription
// library: it extracts structured text, tables and described visual elements
// from PDF documents by driving a multimodal model in batched, continuity-
// aware calls.
package transcriber

import (
	"context"

	"github.com/spherical/pdf-transcriber/internal/config"
	"github.com/spherical/pdf-transcriber/internal/driver"
	"github.com/spherical/pdf-transcriber/internal/observability"
)

// Re-export result types for the public API.
type (
	DocumentResult = driver.DocumentResult
	CorpusResult   = driver.CorpusResult
	Events         = driver.Events
)

// Config is the public configuration surface.
type Config = config.Config

// Client is the main entry point for the transcriber library.
type Client struct {
	driver *driver.Driver
}

// NewClient creates a client from .env / environment configuration. It fails
// before any model call when the API key is missing.
func NewClient() (*Client, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with explicit configuration. The API
// key still comes from the environment.
func NewClientWithConfig(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	apiKey, err := cfg.GetAPIKey()
	if err != nil {
		return nil, err
	}

	log := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "pdf-transcriber",
	})

	return &Client{
		driver: driver.New(cfg, apiKey, log),
	}, nil
}

// SetEvents registers progress callbacks for long-running steps.
func (c *Client) SetEvents(events Events) {
	c.driver.SetEvents(events)
}

// ExtractDocument transcribes a single PDF and writes the sibling
// `<name>_extracted.txt` file on success.
func (c *Client) ExtractDocument(ctx context.Context, pdfPath string) (*DocumentResult, error) {
	return c.driver.ProcessDocument(ctx, pdfPath)
}

// ExtractFolder transcribes every PDF under dir, skipping documents whose
// output file already exists. Per-document failures are isolated.
func (c *Client) ExtractFolder(ctx context.Context, dir string) (*CorpusResult, error) {
	return c.driver.ProcessFolder(ctx, dir)
}

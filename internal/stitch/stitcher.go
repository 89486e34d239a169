package stitch

import (
	"strings"
	"unicode/utf8"

	"github.com/spherical/pdf-transcriber/internal/continuity"
	"github.com/spherical/pdf-transcriber/internal/domain"
)

// Stitcher reconciles parsed responses against the continuity tracker and
// assembles the output document. Numbering always comes from the tracker:
// when a later window re-addresses an open page, new elements are appended
// with the page's next index, never renumbered from 1.
type Stitcher struct {
	tracker *continuity.Tracker
	out     strings.Builder
}

// NewStitcher creates a stitcher bound to one document run's tracker.
func NewStitcher(tracker *continuity.Tracker) *Stitcher {
	return &Stitcher{tracker: tracker}
}

// Stitch parses one window's raw response and folds it into the output.
// Parsing is transactional: on MalformedResponse nothing is appended and no
// counter advances, so the orchestrator can retry the window without
// duplication.
func (s *Stitcher) Stitch(w domain.Window, raw string) error {
	parsed, err := Parse(raw, w, s.tracker.OpenPage())
	if err != nil {
		return err
	}

	var lastPageContent []string
	for _, rawEl := range parsed.Elements {
		el := domain.Element{
			Page:       rawEl.Page,
			Index:      s.tracker.NextIndex(rawEl.Page, rawEl.Kind),
			Kind:       rawEl.Kind,
			VisualKind: rawEl.VisualKind,
			Content:    normalizeContent(rawEl),
		}
		s.out.WriteString(el.Render())

		s.tracker.AddChars(utf8.RuneCountInString(el.Content))
		if s.tracker.ShouldBreak() {
			// Section breaks land only here, at an element boundary.
			s.out.WriteString(domain.RenderSectionBreak(s.tracker.EmitBreak()))
		}

		if rawEl.Page == parsed.LastPage {
			lastPageContent = append(lastPageContent, el.Content)
		}
	}

	if parsed.LastPageClosed {
		s.tracker.ClearOpenPage()
	} else {
		s.tracker.SetOpenPage(parsed.LastPage, strings.Join(lastPageContent, "\n"))
	}

	return nil
}

// Output returns the document assembled so far.
func (s *Stitcher) Output() string {
	return s.out.String()
}

// normalizeContent adjusts element content for the output format. Visual
// descriptions are `>`-quoted; the model usually quotes them already, so
// only bare lines get the prefix.
func normalizeContent(el RawElement) string {
	if el.Kind != domain.KindVisual {
		return el.Content
	}
	lines := strings.Split(el.Content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ">") {
			lines[i] = trimmed
			continue
		}
		lines[i] = "> " + trimmed
	}
	return strings.Join(lines, "\n")
}

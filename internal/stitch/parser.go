// Package stitch parses raw model responses into extracted elements and
// folds them into the output document with engine-owned numbering.
package stitch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

// Element markers as the model emits them. The engine re-assigns every index,
// so the model's own Y values are parsed but never trusted.
var (
	elementMarkerRe = regexp.MustCompile(`^【第(\d+)頁,\s*(段落|表格|視覺元素)(\d+)(?:\s*[:：]\s*([^】]+))?】\s*$`)
	sectionMarkerRe = regexp.MustCompile(`^（第(\d+)章節結束）\s*$`)
)

// RawElement is one element as parsed from the model response, before
// numbering reconciliation.
type RawElement struct {
	Page       int
	ModelIndex int
	Kind       domain.ElementKind
	VisualKind string
	Content    string
}

// ParsedResponse is the result of parsing one window's raw response.
type ParsedResponse struct {
	Elements []RawElement
	// LastPage is the highest page referenced in the response, 0 when empty.
	LastPage int
	// LastPageClosed reports whether a section-break marker followed the
	// final element. A last page without one is treated as open: the model
	// may have stopped mid-page at the window boundary or its output budget.
	LastPageClosed bool
}

// Parse splits raw model text into elements and validates page numbers
// against the window. openPage, when non-zero, is the page carried over from
// the previous window and is accepted even though it precedes the window.
// Parse has no side effects: a MalformedResponse leaves no partial state.
func Parse(raw string, w domain.Window, openPage int) (*ParsedResponse, error) {
	parsed := &ParsedResponse{}

	var (
		current      *RawElement
		contentLines []string
		prevPage     int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		content := strings.TrimSpace(strings.Join(contentLines, "\n"))
		if content == "" {
			return domain.MalformedResponse(
				fmt.Sprintf("marker for page %d has no content", current.Page), nil)
		}
		current.Content = content
		parsed.Elements = append(parsed.Elements, *current)
		current = nil
		contentLines = nil
		return nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := elementMarkerRe.FindStringSubmatch(trimmed); m != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			el, err := parseMarker(m)
			if err != nil {
				return nil, err
			}
			if !w.Contains(el.Page) && el.Page != openPage {
				return nil, domain.MalformedResponse(
					fmt.Sprintf("page %d is outside window %s", el.Page, w), nil)
			}
			if el.Page < prevPage {
				return nil, domain.MalformedResponse(
					fmt.Sprintf("page order regression: %d after %d", el.Page, prevPage), nil)
			}
			prevPage = el.Page
			if el.Page > parsed.LastPage {
				parsed.LastPage = el.Page
			}
			current = el
			parsed.LastPageClosed = false
			continue
		}

		if sectionMarkerRe.MatchString(trimmed) {
			// The model's own section numbering is dropped; the marker only
			// signals that the preceding element closed a section.
			if err := flush(); err != nil {
				return nil, err
			}
			if len(parsed.Elements) > 0 {
				parsed.LastPageClosed = true
			}
			continue
		}

		if current != nil {
			contentLines = append(contentLines, line)
		}
		// Text before the first marker is model preamble and is ignored.
	}

	if err := flush(); err != nil {
		return nil, err
	}

	if len(parsed.Elements) == 0 {
		return nil, domain.MalformedResponse("response contains no extractable elements", nil)
	}

	return parsed, nil
}

// parseMarker converts a matched marker line into a RawElement.
func parseMarker(m []string) (*RawElement, error) {
	page := atoi(m[1])
	index := atoi(m[3])

	el := &RawElement{Page: page, ModelIndex: index}
	switch m[2] {
	case "段落":
		el.Kind = domain.KindParagraph
	case "表格":
		el.Kind = domain.KindTable
	case "視覺元素":
		el.Kind = domain.KindVisual
		el.VisualKind = strings.TrimSpace(m[4])
		if el.VisualKind == "" {
			return nil, domain.MalformedResponse(
				fmt.Sprintf("visual element on page %d has no kind", page), nil)
		}
	}
	return el, nil
}

// atoi converts digits already validated by the marker regexp.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

package domain

import (
	"fmt"
	"strings"
)

// ElementKind identifies the type of an extracted element.
type ElementKind int

const (
	// KindParagraph is a body-text paragraph.
	KindParagraph ElementKind = iota
	// KindTable is a Markdown-transcribed table.
	KindTable
	// KindVisual is a described visual element (chart, diagram, photo, ...).
	KindVisual
)

// String returns the kind's name for logs.
func (k ElementKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	case KindVisual:
		return "visual"
	default:
		return "unknown"
	}
}

// Element is one extracted unit of content: a paragraph, a table, or a
// described visual element. Index is the engine-assigned per-page counter,
// never the model's own numbering. Elements are append-only once emitted.
type Element struct {
	Page       int
	Index      int
	Kind       ElementKind
	VisualKind string // only for KindVisual, e.g. 圖表, 示意圖, 照片
	Content    string
}

// Output markers. These must match the persisted file format exactly.
const (
	markerParagraph = "【第%d頁, 段落%d】"
	markerVisual    = "【第%d頁, 視覺元素%d: %s】"
	markerTable     = "【第%d頁, 表格%d】"
	markerSection   = "（第%d章節結束）"
)

// Render returns the element's textual form for the output document:
// a marker line followed by the content block.
func (e Element) Render() string {
	var b strings.Builder
	switch e.Kind {
	case KindParagraph:
		fmt.Fprintf(&b, markerParagraph, e.Page, e.Index)
	case KindTable:
		fmt.Fprintf(&b, markerTable, e.Page, e.Index)
	case KindVisual:
		fmt.Fprintf(&b, markerVisual, e.Page, e.Index, e.VisualKind)
	}
	b.WriteString("\n")
	b.WriteString(e.Content)
	b.WriteString("\n\n")
	return b.String()
}

// RenderSectionBreak returns the section-break marker line for the given
// section number.
func RenderSectionBreak(section int) string {
	return fmt.Sprintf(markerSection, section) + "\n\n"
}

// Window is an inclusive page range sent to the model in one call.
type Window struct {
	Start int
	End   int
}

// Contains reports whether page falls within the window.
func (w Window) Contains(page int) bool {
	return page >= w.Start && page <= w.End
}

// String formats the window for logs and prompts.
func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// RunStatus is the lifecycle state of one document's extraction run.
type RunStatus int

const (
	// StatusPending means the run has not started.
	StatusPending RunStatus = iota
	// StatusRunning means windows are being processed.
	StatusRunning
	// StatusCompleted means every window was stitched without fatal error.
	StatusCompleted
	// StatusFailed means a fatal error halted the run.
	StatusFailed
)

// String returns the status name.
func (s RunStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusRunning:
		return "RUNNING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

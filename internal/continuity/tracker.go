// Package continuity holds the running numbering state for one document run:
// per-page element counters, the open-page carry-over, and the accumulated
// character count driving section breaks. Indices handed out for a page are
// never reused or renumbered, only extended, no matter how many windows
// touch that page.
package continuity

import (
	"github.com/spherical/pdf-transcriber/internal/domain"
)

// excerptRunes bounds the open-page excerpt carried into the next prompt.
const excerptRunes = 600

// Tracker owns the continuity state for a single document run. It is not
// safe for concurrent use; the orchestrator drives it strictly sequentially.
type Tracker struct {
	threshold int

	lastPage int
	emitted  map[int]map[domain.ElementKind]int

	chars    int
	sections int

	openPage    int
	openExcerpt string
}

// NewTracker creates a tracker with the given section-break character
// threshold.
func NewTracker(threshold int) *Tracker {
	return &Tracker{
		threshold: threshold,
		emitted:   make(map[int]map[domain.ElementKind]int),
	}
}

// ObservePage registers a page the first time it is seen, initializing its
// counters so the first NextIndex call returns 1. LastPage never decreases.
func (t *Tracker) ObservePage(page int) {
	if _, ok := t.emitted[page]; !ok {
		t.emitted[page] = make(map[domain.ElementKind]int)
	}
	if page > t.lastPage {
		t.lastPage = page
	}
}

// NextIndex returns the next index for the given page and kind and advances
// the counter. For any (page, kind) the returned sequence is exactly
// 1, 2, 3, ... across the whole document run.
func (t *Tracker) NextIndex(page int, kind domain.ElementKind) int {
	t.ObservePage(page)
	t.emitted[page][kind]++
	return t.emitted[page][kind]
}

// EmittedCount returns how many elements of the kind were already emitted
// for the page, without advancing anything.
func (t *Tracker) EmittedCount(page int, kind domain.ElementKind) int {
	return t.emitted[page][kind]
}

// AddChars accumulates content length toward the section-break threshold.
func (t *Tracker) AddChars(n int) {
	t.chars += n
}

// ShouldBreak reports whether the accumulated character count has reached
// the threshold. Checked only at element boundaries.
func (t *Tracker) ShouldBreak() bool {
	return t.chars >= t.threshold
}

// EmitBreak resets the accumulator, advances the section counter and returns
// the new section number.
func (t *Tracker) EmitBreak() int {
	t.chars = 0
	t.sections++
	return t.sections
}

// SectionCount returns the number of section breaks emitted so far.
func (t *Tracker) SectionCount() int {
	return t.sections
}

// LastPage returns the highest page observed so far.
func (t *Tracker) LastPage() int {
	return t.lastPage
}

// SetOpenPage records a page whose extraction was not confirmed complete at
// the end of a window, together with the tail of the content already emitted
// for it. A later window extends this page instead of restarting it.
func (t *Tracker) SetOpenPage(page int, emittedTail string) {
	t.openPage = page
	runes := []rune(emittedTail)
	if len(runes) > excerptRunes {
		runes = runes[len(runes)-excerptRunes:]
	}
	t.openExcerpt = string(runes)
}

// ClearOpenPage marks the previously open page as resolved.
func (t *Tracker) ClearOpenPage() {
	t.openPage = 0
	t.openExcerpt = ""
}

// OpenPage returns the currently open page, or 0 when none.
func (t *Tracker) OpenPage() int {
	return t.openPage
}

// Context is the continuity payload embedded into each model call. It is
// rebuilt from tracker state before every window so that no hidden session
// state is load-bearing.
type Context struct {
	Window domain.Window

	// OpenPage is the page left incomplete by the previous window, 0 if none.
	OpenPage int
	// OpenPageEmitted maps element kind to the count already emitted on the
	// open page; the model must continue numbering from the next value.
	OpenPageEmitted map[domain.ElementKind]int
	// OpenPageExcerpt is the tail of the content already emitted for the
	// open page, so the model continues rather than repeats.
	OpenPageExcerpt string

	// SectionCount is the number of section breaks emitted so far.
	SectionCount int
	// LastPageProcessed is the highest page seen in earlier windows.
	LastPageProcessed int
	// FirstWindow is true for the document's first model call.
	FirstWindow bool
}

// ContextFor builds the continuity context for the given window.
func (t *Tracker) ContextFor(w domain.Window) Context {
	ctx := Context{
		Window:            w,
		SectionCount:      t.sections,
		LastPageProcessed: t.lastPage,
		FirstWindow:       t.lastPage == 0,
	}
	if t.openPage != 0 {
		ctx.OpenPage = t.openPage
		ctx.OpenPageExcerpt = t.openExcerpt
		ctx.OpenPageEmitted = map[domain.ElementKind]int{
			domain.KindParagraph: t.EmittedCount(t.openPage, domain.KindParagraph),
			domain.KindTable:     t.EmittedCount(t.openPage, domain.KindTable),
			domain.KindVisual:    t.EmittedCount(t.openPage, domain.KindVisual),
		}
	}
	return ctx
}

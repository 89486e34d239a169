package domain

import "testing"

func TestElementRender(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want string
	}{
		{
			name: "paragraph",
			el:   Element{Page: 10, Index: 1, Kind: KindParagraph, Content: "本章節旨在介紹基本原理。"},
			want: "【第10頁, 段落1】\n本章節旨在介紹基本原理。\n\n",
		},
		{
			name: "visual element with kind",
			el:   Element{Page: 10, Index: 2, Kind: KindVisual, VisualKind: "示意圖", Content: "> 一張電路示意圖。"},
			want: "【第10頁, 視覺元素2: 示意圖】\n> 一張電路示意圖。\n\n",
		},
		{
			name: "table",
			el:   Element{Page: 11, Index: 1, Kind: KindTable, Content: "| 甲 | 乙 |\n| - | - |"},
			want: "【第11頁, 表格1】\n| 甲 | 乙 |\n| - | - |\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.el.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSectionBreak(t *testing.T) {
	if got := RenderSectionBreak(3); got != "（第3章節結束）\n\n" {
		t.Errorf("RenderSectionBreak(3) = %q", got)
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: 31, End: 60}

	for _, page := range []int{31, 45, 60} {
		if !w.Contains(page) {
			t.Errorf("Contains(%d) = false", page)
		}
	}
	for _, page := range []int{30, 61, 0} {
		if w.Contains(page) {
			t.Errorf("Contains(%d) = true", page)
		}
	}
	if got := w.String(); got != "31-60" {
		t.Errorf("String() = %q", got)
	}
}

func TestRunStatusString(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   string
	}{
		{StatusPending, "PENDING"},
		{StatusRunning, "RUNNING"},
		{StatusCompleted, "COMPLETED"},
		{StatusFailed, "FAILED"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

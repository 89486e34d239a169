package stitch

import (
	"testing"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

const sampleResponse = `【第10頁, 段落1】
本章節旨在介紹現代電路學的基本原理，並探討能量如何在封閉迴路中進行傳導。

【第10頁, 視覺元素1: 示意圖】
> 一張電路示意圖，展示電池透過導線連接電阻器形成閉合迴路。

【第11頁, 表格1】
| 實驗序號 | 電壓 (V) | 電流 (A) |
| :--- | :----- | :----- |
| 1    | 5.0    | 0.5    |

【第12頁, 段落1】
基於上述定律，我們可以進一步分析更複雜的電路結構。

（第1章節結束）
`

func TestParseElements(t *testing.T) {
	parsed, err := Parse(sampleResponse, domain.Window{Start: 1, End: 30}, 0)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(parsed.Elements) != 4 {
		t.Fatalf("got %d elements, want 4", len(parsed.Elements))
	}

	want := []struct {
		page       int
		kind       domain.ElementKind
		visualKind string
	}{
		{10, domain.KindParagraph, ""},
		{10, domain.KindVisual, "示意圖"},
		{11, domain.KindTable, ""},
		{12, domain.KindParagraph, ""},
	}
	for i, w := range want {
		el := parsed.Elements[i]
		if el.Page != w.page || el.Kind != w.kind || el.VisualKind != w.visualKind {
			t.Errorf("element %d = {page %d, %v, %q}, want {page %d, %v, %q}",
				i, el.Page, el.Kind, el.VisualKind, w.page, w.kind, w.visualKind)
		}
		if el.Content == "" {
			t.Errorf("element %d has empty content", i)
		}
	}

	if parsed.Elements[2].Content[0] != '|' {
		t.Errorf("table content does not start with a markdown row: %q", parsed.Elements[2].Content)
	}
}

func TestParseClosedLastPage(t *testing.T) {
	parsed, err := Parse(sampleResponse, domain.Window{Start: 1, End: 30}, 0)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.LastPage != 12 {
		t.Errorf("LastPage = %d, want 12", parsed.LastPage)
	}
	if !parsed.LastPageClosed {
		t.Error("LastPageClosed = false despite trailing section marker")
	}
}

func TestParseOpenLastPage(t *testing.T) {
	raw := `【第29頁, 段落1】
前一頁的內容。

（第2章節結束）

【第30頁, 段落1】
這一頁的擷取在視窗邊界被截斷了，後面沒有章節結束標記。
`
	parsed, err := Parse(raw, domain.Window{Start: 1, End: 30}, 0)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.LastPage != 30 {
		t.Errorf("LastPage = %d, want 30", parsed.LastPage)
	}
	if parsed.LastPageClosed {
		t.Error("LastPageClosed = true for a page without a terminating section marker")
	}
}

func TestParseAcceptsCarriedOpenPage(t *testing.T) {
	raw := `【第30頁, 段落3】
接續上一輪第30頁剩餘的內容。

【第31頁, 段落1】
新視窗的第一頁。
`
	parsed, err := Parse(raw, domain.Window{Start: 31, End: 60}, 30)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.Elements[0].Page != 30 {
		t.Errorf("first element page = %d, want 30", parsed.Elements[0].Page)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		window   domain.Window
		openPage int
	}{
		{
			name:   "marker without content",
			raw:    "【第5頁, 段落1】\n\n【第5頁, 段落2】\n有內容。\n",
			window: domain.Window{Start: 1, End: 30},
		},
		{
			name:   "page outside window",
			raw:    "【第45頁, 段落1】\n不在視窗範圍內的頁面。\n",
			window: domain.Window{Start: 1, End: 30},
		},
		{
			name:   "page before window without open-page carry",
			raw:    "【第30頁, 段落3】\n沒有掛起頁授權。\n",
			window: domain.Window{Start: 31, End: 60},
		},
		{
			name:   "page order regression",
			raw:    "【第12頁, 段落1】\n內容甲。\n\n【第10頁, 段落1】\n內容乙。\n",
			window: domain.Window{Start: 1, End: 30},
		},
		{
			name:   "visual element without kind",
			raw:    "【第8頁, 視覺元素1】\n> 缺少類型標註。\n",
			window: domain.Window{Start: 1, End: 30},
		},
		{
			name:   "empty response",
			raw:    "",
			window: domain.Window{Start: 1, End: 30},
		},
		{
			name:   "preamble only",
			raw:    "好的，以下是擷取結果：\n",
			window: domain.Window{Start: 1, End: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, tt.window, tt.openPage)
			if err == nil {
				t.Fatal("expected error")
			}
			if !domain.IsKind(err, domain.KindMalformedResponse) {
				t.Errorf("error kind = %v, want MalformedResponse", err)
			}
		})
	}
}

func TestParseIgnoresPreambleBeforeFirstMarker(t *testing.T) {
	raw := `以下是第 1–30 頁的擷取結果：

【第1頁, 段落1】
正式內容。
`
	parsed, err := Parse(raw, domain.Window{Start: 1, End: 30}, 0)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(parsed.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(parsed.Elements))
	}
	if parsed.Elements[0].Content != "正式內容。" {
		t.Errorf("content = %q", parsed.Elements[0].Content)
	}
}

func TestParseVisualKindFullWidthColon(t *testing.T) {
	raw := "【第3頁, 視覺元素1：流程圖】\n> 描述。\n"
	parsed, err := Parse(raw, domain.Window{Start: 1, End: 10}, 0)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.Elements[0].VisualKind != "流程圖" {
		t.Errorf("VisualKind = %q, want 流程圖", parsed.Elements[0].VisualKind)
	}
}

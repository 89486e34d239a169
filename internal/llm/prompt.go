package llm

import (
	"fmt"
	"strings"

	"github.com/spherical/pdf-transcriber/internal/continuity"
	"github.com/spherical/pdf-transcriber/internal/domain"
)

// BuildPrompt renders the instruction payload for one window. The prompt is
// rebuilt from tracker state before every call, so the model always sees the
// current numbering state explicitly instead of relying on conversational
// memory alone.
func BuildPrompt(cc continuity.Context) string {
	if cc.FirstWindow {
		return firstWindowPrompt(cc)
	}
	return continuationPrompt(cc)
}

// firstWindowPrompt carries the full transcription rules and output format.
func firstWindowPrompt(cc continuity.Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "我現在要處理這份 PDF 的 **第 %d–%d 頁**。\n", cc.Window.Start, cc.Window.End)
	b.WriteString(`請你嚴格僅處理這個頁碼範圍內的內容，絕對不要跨出或提前引用其他頁的資訊。
請依照以下《文檔分析與轉錄規範》，進行高保真度的內容擷取與結構化整理，
並**直接輸出結果，不需多餘回應**。依照原文語言撰寫：中文保持中文，英文或其他語言保持原文。

## 文檔分析與轉錄規範

#### 角色
你是一位專業的文檔分析專家，擅長從包含文字、圖表和複雜排版的 PDF 文件中，
進行高保真度的資訊擷取與結構化整理。

#### 核心指令
1. **頁碼範圍**：嚴格僅處理指定的頁碼範圍，完全忽略範圍外的任何內容。
2. **內容擷取**：
   - 以文章主體內容為核心，依序擷取；忽略頁首、頁尾、頁碼與邊緣裝飾。
   - 一個「段落」是一組語義上連續的句子；因排版斷行但語義連續者視為同一段落。
   - 跨頁段落合併為單一段落，使用其**起始頁碼**標記，不得省略任何字詞。
   - 程式碼、公式、引文保留原始排版，使用 Markdown 程式碼區塊或引用格式。
3. **視覺與表格元素**：
   - 識別類型：圖表、示意圖、照片、流程圖、表格。
   - 圖表、示意圖、流程圖不僅描述外觀，更要提煉核心洞見，以完整句子說明。
   - 表格完整轉換為 Markdown 表格格式；過於複雜時以條列式描述。
   - 所有元素依原始文件中的出現順序排列輸出，不得重排。

#### 輸出格式
* 段落：` + "`【第X頁, 段落Y】`" + ` 後接段落完整文字。
* 視覺元素：` + "`【第X頁, 視覺元素Y: [類型]】`" + ` 後接 > 引用格式的深入描述。
* 表格：` + "`【第X頁, 表格Y】`" + ` 後接 Markdown 表格。
* 編號規則：每一頁的 Y 都從 1 重新開始計算。
* 小節結束標記：每個小節約 1000–2000 字結束時，自成一行加上 ` + "`（第X章節結束）`" + `，X 自動累加。

#### 輸出格式範例
【第10頁, 段落1】
本章節旨在介紹現代電路學的基本原理，並探討能量如何在封閉迴路中進行傳導。

【第10頁, 視覺元素1: 示意圖】
> 一張電路示意圖，展示電池透過導線連接電阻器形成閉合迴路，說明電源、導線與負載三要素。

【第11頁, 表格1】
| 實驗序號 | 電壓 (V) | 電流 (A) |
| :--- | :----- | :----- |
| 1    | 5.0    | 0.5    |

（第1章節結束）
`)

	return b.String()
}

// continuationPrompt instructs the model to extend the run: same rules, new
// page range, section numbering carried forward, and — when the previous
// window left a page open — numbering on that page extended rather than
// restarted.
func continuationPrompt(cc continuity.Context) string {
	var b strings.Builder

	b.WriteString("做得很好，我們來繼續處理同一份 PDF。\n\n")
	fmt.Fprintf(&b, "前面已完成至第 %d 頁，現在請**接續處理第 %d–%d 頁**。\n",
		cc.LastPageProcessed, cc.Window.Start, cc.Window.End)
	b.WriteString(`請**直接輸出結果，不需多餘回應**，並確保：
- 嚴格遵循先前的《文檔分析與轉錄規範》與輸出格式。
- 不要重述或修改前面已擷取的內容。
- 新頁面的段落、表格、視覺元素編號從每頁重新開始計數。
`)
	fmt.Fprintf(&b, "- 小節編號接續前面，目前已完成 %d 個小節，下一個小節結束標記為（第%d章節結束）。\n",
		cc.SectionCount, cc.SectionCount+1)

	if cc.OpenPage != 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "注意：第 %d 頁在上一輪尚未處理完畢，已擷取：%s。\n",
			cc.OpenPage, emittedSummary(cc.OpenPageEmitted))
		b.WriteString(openPageContinuationRules(cc))
		if cc.OpenPageExcerpt != "" {
			fmt.Fprintf(&b, "該頁已擷取內容的結尾如下，請從其後繼續，不要重複：\n%s\n", cc.OpenPageExcerpt)
		}
	}

	return b.String()
}

// openPageContinuationRules spells out the next index per kind so the model
// extends the open page's numbering instead of restarting from 1.
func openPageContinuationRules(cc continuity.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "請先補完第 %d 頁剩餘的內容，再處理第 %d–%d 頁。\n",
		cc.OpenPage, cc.Window.Start, cc.Window.End)
	fmt.Fprintf(&b, "第 %d 頁的後續元素編號必須接續，不得從 1 重新開始：", cc.OpenPage)
	fmt.Fprintf(&b, "下一個段落為「段落%d」，下一個表格為「表格%d」，下一個視覺元素為「視覺元素%d」。\n",
		cc.OpenPageEmitted[domain.KindParagraph]+1,
		cc.OpenPageEmitted[domain.KindTable]+1,
		cc.OpenPageEmitted[domain.KindVisual]+1)
	return b.String()
}

// emittedSummary formats the already-emitted element counts for the open page.
func emittedSummary(emitted map[domain.ElementKind]int) string {
	return fmt.Sprintf("段落 %d 個、表格 %d 個、視覺元素 %d 個",
		emitted[domain.KindParagraph],
		emitted[domain.KindTable],
		emitted[domain.KindVisual])
}

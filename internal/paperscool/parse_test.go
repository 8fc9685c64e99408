// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paperscool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const faqHTML = `<html><body>
<p class="faq-q">Q1: What problem does the paper address?</p>
<div class="faq-a">The paper tackles distributed training instability.</div>
<p class="faq-q">Q2: What related work exists?</p>
<div class="faq-a">Prior work on gradient compression and local SGD.</div>
<p class="faq-q">Q3: What is the method?</p>
<div class="faq-a">An adaptive clipping scheme applied per client update.</div>
<p class="faq-q">Q6: What is the conclusion?</p>
<div class="faq-a">Consistent gains on four benchmarks.</div>
<ul>
<li>Adaptive clipping bounds client influence</li>
<li>short</li>
<li>Convergence proof under heavy-tailed noise assumptions</li>
</ul>
</body></html>`

func TestParseHTML(t *testing.T) {
	got, err := ParseHTML("2301.12345", faqHTML)
	require.NoError(t, err)

	assert.Equal(t, "2301.12345", got.PaperID)
	assert.Equal(t, faqHTML, got.RawHTML)

	// Sections appear labeled and in order; the missing Q4/Q5 slots
	// are skipped without placeholders.
	assert.Contains(t, got.Summary, "问题：The paper tackles distributed training instability.")
	assert.Contains(t, got.Summary, "相关工作：Prior work on gradient compression and local SGD.")
	assert.Contains(t, got.Summary, "总结：Consistent gains on four benchmarks.")
	assert.NotContains(t, got.Summary, "实验")
	q1 := strings.Index(got.Summary, "问题：")
	q6 := strings.Index(got.Summary, "总结：")
	assert.True(t, q1 < q6)

	assert.Equal(t, "An adaptive clipping scheme applied per client update.", got.Methods)

	// The too-short list item is filtered out.
	assert.Equal(t, []string{
		"Adaptive clipping bounds client influence",
		"Convergence proof under heavy-tailed noise assumptions",
	}, got.KeyPoints)
}

func TestParseHTMLNoFAQ(t *testing.T) {
	got, err := ParseHTML("2301.12345", "<html><body><p>nothing here</p></body></html>")
	require.NoError(t, err)

	assert.True(t, got.IsEmpty())
	assert.NotNil(t, got.KeyPoints)
	assert.Empty(t, got.KeyPoints)
}

func TestFAQText(t *testing.T) {
	text := FAQText(faqHTML)

	assert.Contains(t, text, "Q1: What problem does the paper address?\nThe paper tackles distributed training instability.")
	assert.Contains(t, text, "Q3: What is the method?\nAn adaptive clipping scheme applied per client update.")
	assert.Equal(t, "", FAQText("<html><body></body></html>"))
}

func TestParseFreeTextOrderedSections(t *testing.T) {
	got := ParseFreeText("2301.12345", "Q1: problem text Q2: related text")

	assert.Contains(t, got.Summary, "problem text")
	assert.Contains(t, got.Summary, "related text")
	assert.True(t, strings.Index(got.Summary, "problem text") < strings.Index(got.Summary, "related text"))
}

func TestParseFreeTextChineseLabels(t *testing.T) {
	text := "问题：模型训练不稳定的问题 相关工作：梯度压缩与本地SGD 方法：自适应裁剪策略 实验结果：四个基准实验 未来工作：扩展到异构设备 总结：在四个基准上取得提升 关键词：优化"
	got := ParseFreeText("2301.12345", text)

	assert.Contains(t, got.Summary, "模型训练不稳定的问题")
	assert.Contains(t, got.Summary, "自适应裁剪策略")
	assert.Equal(t, "自适应裁剪策略", got.Methods)
}

func TestParseFreeTextFallbackPrefix(t *testing.T) {
	long := strings.Repeat("a", 6000)
	got := ParseFreeText("2301.12345", long)

	// No labeled section matched: summary is a bounded prefix.
	assert.Len(t, got.Summary, fallbackSummaryLen)
	assert.NotNil(t, got.KeyPoints)
}

func TestParseFreeTextKeyPoints(t *testing.T) {
	text := "Q1: overview follows\n" +
		"• first key point with enough length here\n" +
		"• second key point also long enough to keep\n" +
		"• no\n"
	got := ParseFreeText("2301.12345", text)

	assert.Equal(t, []string{
		"first key point with enough length here",
		"second key point also long enough to keep",
	}, got.KeyPoints)
}

func TestParseFreeTextKeyPointsCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("Q1: points below\n")
	for i := 0; i < 15; i++ {
		b.WriteString("• a repeated key point with sufficient length\n")
	}
	got := ParseFreeText("2301.12345", b.String())

	assert.Len(t, got.KeyPoints, maxKeyPoints)
}

func TestKeyPointLengthCountsCharacters(t *testing.T) {
	// 70 characters but 210 bytes: inside the window only when length
	// is measured in characters.
	long := strings.Repeat("自适应裁剪策略降低客户端方差", 5)
	// 6 characters: noise, even though its UTF-8 encoding is 18 bytes.
	noise := "相关论文推荐"

	got := ParseFreeText("2301.12345", "Q1: 概述如下\n• "+long+"\n• "+noise+"\n")
	assert.Equal(t, []string{long}, got.KeyPoints)

	parsed, err := ParseHTML("2301.12345", "<ul><li>"+long+"</li><li>"+noise+"</li></ul>")
	require.NoError(t, err)
	assert.Equal(t, []string{long}, parsed.KeyPoints)
}

func TestParseFreeTextContributions(t *testing.T) {
	got := ParseFreeText("2301.12345", "主要贡献：提出了一种新的自适应裁剪机制 Q1: 其余内容")
	assert.Equal(t, "提出了一种新的自适应裁剪机制", got.Contributions)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "短文本", truncateRunes("短文本", 10))
	assert.Equal(t, "短文", truncateRunes("短文本", 2))
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
}

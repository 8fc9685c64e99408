// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paperscool retrieves and parses Kimi FAQ digests from the
// papers.cool companion service. Parsing handles two shapes: the
// structured FAQ markup served by the API endpoint, and the loosely
// labeled free text a rendered page yields.
package paperscool

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Key point length filter bounds, in characters. Items outside the
// window are list markup noise (nav links, footers) rather than
// content.
const (
	minKeyPointLen = 10
	maxKeyPointLen = 200
	maxKeyPoints   = 10
)

const maxSectionLen = 500

// fallbackSummaryLen bounds the raw-text summary used when no labeled
// section matched.
const fallbackSummaryLen = 5000

// faqSection pairs a question slot with its display label and the
// free-text patterns that locate it.
type faqSection struct {
	label    string
	patterns []*regexp.Regexp
}

// faqSections lists the six FAQ slots in page order: problem, related
// work, method, experiments, future work, conclusion.
var faqSections = []faqSection{
	{"问题", []*regexp.Regexp{
		regexp.MustCompile(`(?s)Q1[:：]\s*(.*?)(?:Q2|$)`),
		regexp.MustCompile(`(?s)问题[:：]\s*(.*?)(?:相关工作|$)`),
	}},
	{"相关工作", []*regexp.Regexp{
		regexp.MustCompile(`(?s)Q2[:：]\s*(.*?)(?:Q3|$)`),
		regexp.MustCompile(`(?s)相关工作[:：]\s*(.*?)(?:方法|$)`),
	}},
	{"方法", []*regexp.Regexp{
		regexp.MustCompile(`(?s)Q3[:：]\s*(.*?)(?:Q4|$)`),
		regexp.MustCompile(`(?s)方法[:：]\s*(.*?)(?:实验|$)`),
	}},
	{"实验", []*regexp.Regexp{
		regexp.MustCompile(`(?s)Q4[:：]\s*(.*?)(?:Q5|$)`),
		regexp.MustCompile(`(?s)实验结果[:：]\s*(.*?)(?:未来|$)`),
	}},
	{"未来工作", []*regexp.Regexp{
		regexp.MustCompile(`(?s)Q5[:：]\s*(.*?)(?:Q6|$)`),
		regexp.MustCompile(`(?s)未来工作[:：]\s*(.*?)(?:总结|$)`),
	}},
	{"总结", []*regexp.Regexp{
		regexp.MustCompile(`(?s)Q6[:：]\s*(.*?)(?:关键词|$)`),
		regexp.MustCompile(`(?s)总结[:：]\s*(.*?)(?:关键词|$)`),
	}},
}

var contributionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)创新点[:：]\s*(.*?)(?:Q|$)`),
	regexp.MustCompile(`(?s)主要贡献[:：]\s*(.*?)(?:Q|$)`),
}

var (
	bulletSplit   = regexp.MustCompile(`[•\-\*]\s*`)
	numberedSplit = regexp.MustCompile(`\d+[.:）]\s*`)
)

// ParseHTML builds a summary from the structured FAQ markup the API
// endpoint serves: each question is a <p class="faq-q"> followed by a
// sibling <div class="faq-a"> holding the answer. Returns an empty
// summary (not an error) when the markup holds no FAQ content.
func ParseHTML(paperID, rawHTML string) (*types.KimiSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	out := types.NewKimiSummary(paperID)
	out.RawHTML = rawHTML

	var parts []string
	var methods string
	for i, section := range faqSections {
		label := "Q" + string(rune('1'+i))
		answer := answerFor(doc, label)
		if answer == "" {
			continue
		}
		parts = append(parts, section.label+"："+answer)
		if label == "Q3" {
			methods = answer
		}
	}
	out.Summary = strings.Join(parts, "\n\n")
	out.Methods = truncateRunes(methods, maxSectionLen)

	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if n := utf8.RuneCountInString(text); n > minKeyPointLen && n < maxKeyPointLen {
			out.KeyPoints = append(out.KeyPoints, text)
		}
	})

	return out, nil
}

// answerFor finds the faq-q paragraph whose text mentions label and
// returns the text of its faq-a sibling.
func answerFor(doc *goquery.Document, label string) string {
	answer := ""
	doc.Find("p.faq-q").EachWithBreak(func(_ int, q *goquery.Selection) bool {
		if !strings.Contains(q.Text(), label) {
			return true
		}
		a := q.NextFiltered("div.faq-a")
		if a.Length() > 0 {
			answer = strings.TrimSpace(a.Text())
		}
		return false
	})
	return answer
}

// FAQText flattens structured FAQ markup into question/answer text
// blocks, one per pair, for direct inclusion in a prompt.
func FAQText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var parts []string
	doc.Find("p.faq-q").Each(func(_ int, q *goquery.Selection) {
		a := q.NextFiltered("div.faq-a")
		if a.Length() == 0 {
			return
		}
		question := strings.TrimSpace(q.Text())
		answer := strings.TrimSpace(a.Text())
		parts = append(parts, question+"\n"+answer+"\n")
	})
	return strings.Join(parts, "\n\n")
}

// ParseFreeText builds a summary from rendered page text where the FAQ
// sections appear as labeled runs ("Q1: ..." or Chinese labels) rather
// than markup. Unmatched input falls back to a bounded prefix of the
// raw text so the caller always gets something to summarize.
func ParseFreeText(paperID, text string) *types.KimiSummary {
	out := types.NewKimiSummary(paperID)

	var parts []string
	var methods string
	for _, section := range faqSections {
		for _, pattern := range section.patterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			body := strings.TrimSpace(m[1])
			if body == "" {
				continue
			}
			parts = append(parts, body)
			if section.label == "方法" && methods == "" {
				methods = body
			}
			break
		}
	}

	if len(parts) > 0 {
		out.Summary = strings.Join(parts, "\n\n")
	} else {
		out.Summary = truncateRunes(text, fallbackSummaryLen)
	}

	out.KeyPoints = extractKeyPoints(out.Summary)
	out.Methods = truncateRunes(methods, maxSectionLen)

	for _, pattern := range contributionPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			out.Contributions = truncateRunes(strings.TrimSpace(m[1]), maxSectionLen)
			break
		}
	}

	return out
}

// extractKeyPoints pulls bulleted or numbered items out of the summary
// text, preferring bullets when both occur.
func extractKeyPoints(summary string) []string {
	for _, splitter := range []*regexp.Regexp{bulletSplit, numberedSplit} {
		pieces := splitter.Split(summary, -1)
		if len(pieces) < 2 {
			continue
		}

		points := make([]string, 0, maxKeyPoints)
		for _, piece := range pieces[1:] {
			// Items run to the next marker; keep just the first line
			// so trailing prose does not bloat the point.
			item := strings.TrimSpace(strings.SplitN(piece, "\n", 2)[0])
			if n := utf8.RuneCountInString(item); n > minKeyPointLen && n < maxKeyPointLen {
				points = append(points, item)
			}
			if len(points) == maxKeyPoints {
				break
			}
		}
		if len(points) > 0 {
			return points
		}
	}
	return []string{}
}

// truncateRunes bounds s at max runes without splitting a multi-byte
// character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

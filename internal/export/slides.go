// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns a generated markdown summary into a slide deck.
// Decks are rendered as a single standalone HTML file, one section per
// slide.
package export

import "strings"

// ItemKind classifies one line of slide content.
type ItemKind string

const (
	ItemBullet ItemKind = "bullet"
	ItemBold   ItemKind = "bold"
	ItemText   ItemKind = "text"
)

// Item is one content line on a slide.
type Item struct {
	Kind ItemKind
	Text string
}

// Slide is a heading plus its content lines.
type Slide struct {
	Title string
	Items []Item
}

// ParseSlides splits markdown into slides at heading boundaries. Every
// heading level starts a new slide; bullets and bold-only lines keep
// their emphasis, everything else is plain text. Blank lines are
// dropped.
func ParseSlides(content string) []Slide {
	var slides []Slide
	current := Slide{}

	flush := func() {
		if current.Title != "" || len(current.Items) > 0 {
			slides = append(slides, current)
		}
	}

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#"):
			flush()
			current = Slide{Title: strings.TrimSpace(strings.TrimLeft(line, "#"))}
		case strings.HasPrefix(line, "-"):
			current.Items = append(current.Items, Item{
				Kind: ItemBullet,
				Text: strings.TrimSpace(strings.TrimPrefix(line, "-")),
			})
		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4:
			current.Items = append(current.Items, Item{
				Kind: ItemBold,
				Text: strings.TrimSpace(strings.Trim(line, "*")),
			})
		default:
			current.Items = append(current.Items, Item{Kind: ItemText, Text: line})
		}
	}
	flush()

	return slides
}

// markdown reconstructs a slide body as markdown for rendering.
func (s Slide) markdown() string {
	var b strings.Builder
	for _, item := range s.Items {
		switch item.Kind {
		case ItemBullet:
			b.WriteString("- " + item.Text + "\n")
		case ItemBold:
			b.WriteString("**" + item.Text + "**\n\n")
		default:
			b.WriteString(item.Text + "\n\n")
		}
	}
	return b.String()
}

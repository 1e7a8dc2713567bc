// Package deck turns a markdown file into slides. A new slide starts at
// every thematic break and at every level 1 or 2 heading that follows
// content.
package deck

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	reelerrors "reel/internal/errors"
)

// LineKind is how a display line should be styled
type LineKind int

const (
	LineText LineKind = iota
	LineHeading
	LineBullet
	LineQuote
	LineCode
	LineBlank
)

// Line is one display line of a slide
type Line struct {
	Kind  LineKind
	Text  string
	Level int
}

// Slide is one page of a deck
type Slide struct {
	Index int
	Title string
	Lines []Line
}

// Text returns the slide as plain text
func (s Slide) Text() string {
	var b strings.Builder
	for _, l := range s.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Width is the display width of the widest line
func (s Slide) Width() int {
	w := 0
	for _, l := range s.Lines {
		w = max(w, ansi.StringWidth(l.Text))
	}
	return w
}

// Deck is a parsed markdown file
type Deck struct {
	Path   string
	Slides []Slide
}

// Titles lists the slide titles in order
func (d *Deck) Titles() []string {
	titles := make([]string, len(d.Slides))
	for i, s := range d.Slides {
		titles[i] = s.Title
	}
	return titles
}

// Load reads and parses the deck at path
func Load(path string) (*Deck, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, reelerrors.NewDeckNotFound(path, err)
	}
	return Parse(path, src)
}

// Parse splits src into slides
func Parse(path string, src []byte) (*Deck, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	b := &builder{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.ThematicBreak:
			b.flush()
		case *ast.Heading:
			if node.Level <= 2 && b.hasContent() {
				b.flush()
			}
			b.block()
			title := inlineText(node, src)
			b.add(Line{Kind: LineHeading, Text: title, Level: node.Level})
			if b.title == "" {
				b.title = title
			}
		default:
			b.block()
			b.addBlock(n, 0)
		}
	}
	b.flush()

	if len(b.slides) == 0 {
		return nil, reelerrors.NewDeckEmpty(path)
	}
	return &Deck{Path: path, Slides: b.slides}, nil
}

type builder struct {
	src    []byte
	slides []Slide
	lines  []Line
	title  string
}

func (b *builder) hasContent() bool {
	return len(b.lines) > 0
}

func (b *builder) add(l Line) {
	b.lines = append(b.lines, l)
}

// block separates consecutive blocks with a blank line
func (b *builder) block() {
	if b.hasContent() {
		b.add(Line{Kind: LineBlank})
	}
}

func (b *builder) flush() {
	if !b.hasContent() {
		return
	}
	index := len(b.slides)
	title := b.title
	if title == "" {
		title = fmt.Sprintf("Slide %d", index+1)
	}
	b.slides = append(b.slides, Slide{Index: index, Title: title, Lines: b.lines})
	b.lines = nil
	b.title = ""
}

func (b *builder) addBlock(n ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		for _, line := range strings.Split(inlineText(node, b.src), "\n") {
			b.add(Line{Kind: LineText, Text: indent + line})
		}
	case *ast.List:
		number := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "•"
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d.", number)
				number++
			}
			b.addListItem(item, depth, marker)
		}
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			for _, line := range strings.Split(inlineText(c, b.src), "\n") {
				b.add(Line{Kind: LineQuote, Text: indent + "│ " + line})
			}
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimRight(string(seg.Value(b.src)), "\r\n")
			b.add(Line{Kind: LineCode, Text: indent + strings.ReplaceAll(line, "\t", "    ")})
		}
	case *ast.HTMLBlock:
		// raw HTML has nothing to show in a terminal
	default:
		if t := inlineText(node, b.src); t != "" {
			b.add(Line{Kind: LineText, Text: indent + t})
		}
	}
}

func (b *builder) addListItem(item ast.Node, depth int, marker string) {
	indent := strings.Repeat("  ", depth)
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if list, ok := c.(*ast.List); ok {
			b.addBlock(list, depth+1)
			continue
		}
		for _, line := range strings.Split(inlineText(c, b.src), "\n") {
			prefix := strings.Repeat(" ", len(marker)+1)
			if first {
				prefix = marker + " "
				first = false
			}
			b.add(Line{Kind: LineBullet, Text: indent + prefix + line, Level: depth})
		}
	}
}

// inlineText flattens the inline children of n. Soft and hard line breaks
// become newlines.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimRight(b.String(), "\n")
}

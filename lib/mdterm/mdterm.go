// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package mdterm renders markdown as styled terminal text. Forum posts
// and AI answers are written in markdown; this produces readable output
// for them at any terminal width, with syntax-highlighted code fences.
package mdterm

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Theme is the color set used for rendered output.
type Theme struct {
	Text    lipgloss.TerminalColor
	Faint   lipgloss.TerminalColor
	Heading lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
}

// DefaultTheme returns the standard palette.
func DefaultTheme() Theme {
	return Theme{
		Text:    lipgloss.Color("252"),
		Faint:   lipgloss.Color("243"),
		Heading: lipgloss.Color("81"),
		Border:  lipgloss.Color("238"),
	}
}

// The parser is shared: its configuration never changes and goldmark
// parsers are safe for concurrent Parse calls. Tables are deliberately
// not enabled — forum content is prose and code, and pipe tables
// degrade more gracefully as literal text than as a dropped node.
var (
	parser     goldmark.Markdown
	parserOnce sync.Once
)

func getParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parser = goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Linkify,
				extension.TaskList,
			),
		)
	})
	return parser
}

// Render parses markdown and returns ANSI-styled text wrapped to
// width. Soft line breaks become spaces so hard-wrapped source reflows
// at the terminal's width.
func Render(input string, width int) string {
	return RenderWithTheme(input, width, DefaultTheme())
}

// RenderWithTheme is Render with a caller-supplied palette.
func RenderWithTheme(input string, width int, theme Theme) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getParser().Parser().Parse(text.NewReader(source))

	// Output always targets a terminal, so the color profile is forced
	// rather than auto-detected: detection sees no TTY under tests and
	// inside the TUI's output pipeline and would strip all color.
	lr := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lr.SetColorProfile(termenv.ANSI256)

	r := &renderer{source: source, theme: theme, width: width, styles: lr}
	ast.Walk(document, r.walk)
	return strings.TrimRight(r.out.String(), "\n")
}

// renderer walks the goldmark AST directly instead of implementing
// goldmark's renderer interface: paragraphs accumulate inline content
// and word-wrap as a unit when the block closes, which the streaming
// renderer callbacks do not accommodate.
type renderer struct {
	source []byte
	theme  Theme
	width  int
	styles *lipgloss.Renderer

	out    strings.Builder
	inline strings.Builder

	// prefix is the indent applied to every line of nested blocks
	// (blockquote bars, list continuations); bullet replaces it for
	// the first line of a list item only. pushed records each pushed
	// segment so pops unwind exactly (segment byte length and visible
	// width differ for the blockquote bar).
	prefix      string
	prefixWidth int
	pushed      []prefixSegment
	bullet      string

	bold   int
	italic int
	strike int

	lists []listLevel

	trailingNewlines int
}

type listLevel struct {
	ordered bool
	counter int
	tight   bool
}

type prefixSegment struct {
	bytes int
	width int
}

func (r *renderer) style() lipgloss.Style { return r.styles.NewStyle() }

func (r *renderer) contentWidth() int {
	width := r.width - r.prefixWidth
	if width < 8 {
		width = 8
	}
	return width
}

func (r *renderer) write(s string) {
	if s == "" {
		return
	}
	r.out.WriteString(s)

	trailing := 0
	allNewlines := true
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != '\n' {
			allNewlines = false
			break
		}
		trailing++
	}
	if allNewlines {
		r.trailingNewlines += trailing
	} else {
		r.trailingNewlines = trailing
	}
}

func (r *renderer) newline() {
	if r.trailingNewlines < 1 {
		r.write("\n")
	}
}

func (r *renderer) blankLine() {
	for r.trailingNewlines < 2 {
		r.write("\n")
	}
}

// firstLinePrefix returns the prefix for the next emitted line: the
// pending list bullet if one is armed, the regular prefix otherwise.
func (r *renderer) firstLinePrefix() string {
	if r.bullet != "" {
		b := r.bullet
		r.bullet = ""
		return b
	}
	return r.prefix
}

// prefixed indents every line of content, consuming the pending bullet
// on the first.
func (r *renderer) prefixed(content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(r.firstLinePrefix())
		} else {
			b.WriteString(r.prefix)
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// flushInline wraps and indents the accumulated inline content.
func (r *renderer) flushInline() string {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return ""
	}
	return r.prefixed(ansi.Wrap(content, r.contentWidth(), " ,.;-"))
}

func (r *renderer) styled(content string) string {
	style := r.style().Foreground(r.theme.Text)
	if r.bold > 0 {
		style = style.Bold(true)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	if r.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (r *renderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			r.inline.Reset()
		} else if flushed := r.flushInline(); flushed != "" {
			r.write(flushed)
			r.newline()
			if !r.inTightList() {
				r.blankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			r.inline.Reset()
		} else {
			r.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			r.writeCode(r.blockText(node), string(block.Language(r.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			r.writeCode(r.blockText(node), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			r.pushPrefix("│ ", 2)
		} else {
			r.popPrefix()
			r.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			level := listLevel{ordered: list.IsOrdered(), tight: list.IsTight}
			if level.ordered {
				level.counter = list.Start
			}
			r.lists = append(r.lists, level)
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if !r.inTightList() {
				r.blankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			r.enterListItem()
		} else {
			r.popPrefix()
			if r.inTightList() {
				r.newline()
			} else {
				r.blankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := r.style().Foreground(r.theme.Border).
				Render(strings.Repeat("─", r.contentWidth()))
			r.blankLine()
			r.write(r.prefixed(rule))
			r.newline()
			r.blankLine()
		}

	case ast.KindText:
		if entering {
			t := node.(*ast.Text)
			r.inline.WriteString(r.styled(string(t.Segment.Value(r.source))))
			if t.SoftLineBreak() {
				r.inline.WriteString(" ")
			}
			if t.HardLineBreak() {
				r.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			r.inline.WriteString(r.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			r.bold += delta
		} else {
			r.italic += delta
		}

	case extast.KindStrikethrough:
		if entering {
			r.strike++
		} else {
			r.strike--
		}

	case ast.KindCodeSpan:
		if entering {
			r.inline.WriteString(r.style().Foreground(r.theme.Faint).Render(r.spanText(node)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			r.inline.WriteString(r.childText(node))
			if url := string(link.Destination); url != "" {
				r.inline.WriteString(" " + r.style().Foreground(r.theme.Faint).Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(r.source))
			r.inline.WriteString(r.style().Foreground(r.theme.Faint).Render(url))
		}

	case ast.KindImage:
		if entering {
			image := node.(*ast.Image)
			faint := r.style().Foreground(r.theme.Faint)
			r.inline.WriteString(faint.Render("[" + r.childText(node) + "]"))
			if url := string(image.Destination); url != "" {
				r.inline.WriteString(" " + faint.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case extast.KindTaskCheckBox:
		if entering {
			box := "[ ] "
			if node.(*extast.TaskCheckBox).IsChecked {
				box = "[x] "
			}
			r.inline.WriteString(r.styled(box))
		}
	}

	return ast.WalkContinue, nil
}

func (r *renderer) leaveHeading(heading *ast.Heading) {
	// Headings carry their own style, so strip the per-fragment text
	// styling collected during the walk.
	content := ansi.Strip(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}

	style := r.style().Bold(true).Foreground(r.theme.Text)
	if heading.Level <= 2 {
		style = style.Foreground(r.theme.Heading)
	}

	r.blankLine()
	r.write(r.prefixed(ansi.Wrap(style.Render(content), r.contentWidth(), " ,.;-")))
	r.newline()
	r.blankLine()
}

// writeCode emits a code block, syntax-highlighted when the fence
// names a language Chroma knows.
func (r *renderer) writeCode(code, language string) {
	rendered := ""
	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, code, language, "terminal256", "monokai"); err == nil {
			rendered = highlighted.String()
		}
	}
	if rendered == "" {
		rendered = r.style().Foreground(r.theme.Faint).Render(code)
	}

	r.blankLine()
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		r.write(r.firstLinePrefix() + line)
		r.newline()
	}
	r.blankLine()
}

func (r *renderer) enterListItem() {
	if len(r.lists) == 0 {
		return
	}
	level := &r.lists[len(r.lists)-1]

	bullet := "- "
	if level.ordered {
		bullet = fmt.Sprintf("%d. ", level.counter)
		level.counter++
	}

	// The bullet replaces the whole prefix on the item's first line;
	// continuation lines indent by the bullet's width.
	r.bullet = r.prefix + bullet
	r.pushPrefix(strings.Repeat(" ", len(bullet)), len(bullet))
}

func (r *renderer) pushPrefix(text string, width int) {
	r.prefix += text
	r.prefixWidth += width
	r.pushed = append(r.pushed, prefixSegment{bytes: len(text), width: width})
}

func (r *renderer) popPrefix() {
	if len(r.pushed) == 0 {
		return
	}
	top := r.pushed[len(r.pushed)-1]
	r.pushed = r.pushed[:len(r.pushed)-1]
	r.prefix = r.prefix[:len(r.prefix)-top.bytes]
	r.prefixWidth -= top.width
}

func (r *renderer) inTightList() bool {
	return len(r.lists) > 0 && r.lists[len(r.lists)-1].tight
}

// blockText collects the raw source lines of a block node.
func (r *renderer) blockText(node ast.Node) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(r.source))
	}
	return b.String()
}

// spanText collects the literal text inside a code span.
func (r *renderer) spanText(node ast.Node) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(r.source))
		case *ast.String:
			b.Write(n.Value)
		}
	}
	return b.String()
}

// childText renders a node's inline children to plain styled text,
// preserving the caller's inline buffer and style counters.
func (r *renderer) childText(node ast.Node) string {
	saved := r.inline.String()
	savedBold, savedItalic, savedStrike := r.bold, r.italic, r.strike

	r.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, r.walk)
	}
	result := r.inline.String()

	r.inline.Reset()
	r.inline.WriteString(saved)
	r.bold, r.italic, r.strike = savedBold, savedItalic, savedStrike
	return result
}

package docxexport

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LooksLikeHTML reports whether s appears to hold markup from the rich-text
// editor rather than plain text.
func LooksLikeHTML(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "<") && strings.Contains(t, ">")
}

// ParseHTML converts editor HTML into blocks. Alignment comes from an inline
// text-align style or a ql-align-* class and is inherited from enclosing
// divs. Inline strong/b, em/i and u elements produce formatted runs.
func ParseHTML(source string) ([]Block, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	p := &htmlParser{}
	p.walk(doc, AlignLeft)
	p.flush()
	return p.blocks, nil
}

type htmlParser struct {
	blocks []Block
	// loose collects inline content that is not inside a block element.
	loose *Block
}

func (p *htmlParser) walk(n *html.Node, inherited string) {
	if n.Type == html.ElementNode {
		align := alignmentOf(n, inherited)
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			p.flush()
			p.emit(Block{Kind: KindHeading, Level: headingLevel(n.DataAtom), Alignment: align}, n)
			return
		case atom.P:
			p.flush()
			p.emit(Block{Kind: KindParagraph, Alignment: align}, n)
			return
		case atom.Li:
			p.flush()
			p.emit(Block{Kind: KindListItem, Alignment: align}, n)
			return
		case atom.Div, atom.Ul, atom.Ol, atom.Body, atom.Html, atom.Blockquote:
			p.flush()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				p.walk(c, align)
			}
			p.flush()
			return
		case atom.Head, atom.Script, atom.Style:
			return
		}
	}
	if n.Type == html.TextNode || n.Type == html.ElementNode && isInline(n.DataAtom) {
		if p.loose == nil {
			p.loose = &Block{Kind: KindParagraph, Alignment: inherited}
		}
		collectRuns(n, Run{}, &p.loose.Runs)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, inherited)
	}
}

func (p *htmlParser) emit(b Block, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRuns(c, Run{}, &b.Runs)
	}
	b.Runs = trimRuns(b.Runs)
	if len(b.Runs) > 0 {
		p.blocks = append(p.blocks, b)
	}
}

func (p *htmlParser) flush() {
	if p.loose == nil {
		return
	}
	p.loose.Runs = trimRuns(p.loose.Runs)
	if len(p.loose.Runs) > 0 {
		p.blocks = append(p.blocks, *p.loose)
	}
	p.loose = nil
}

func collectRuns(n *html.Node, style Run, runs *[]Run) {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return
		}
		r := style
		r.Text = n.Data
		*runs = append(*runs, r)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			*runs = append(*runs, Run{Break: true})
			return
		case atom.Strong, atom.B:
			style.Bold = true
		case atom.Em, atom.I:
			style.Italic = true
		case atom.U:
			style.Underline = true
		}
		css := attr(n, "style")
		if strings.Contains(css, "font-weight: bold") || strings.Contains(css, "font-weight:bold") {
			style.Bold = true
		}
		if strings.Contains(css, "font-style: italic") || strings.Contains(css, "font-style:italic") {
			style.Italic = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRuns(c, style, runs)
	}
}

// trimRuns drops whitespace-only runs at the edges and merges a break marker
// into the run that follows it.
func trimRuns(runs []Run) []Run {
	var out []Run
	pendingBreak := false
	for _, r := range runs {
		if r.Break && r.Text == "" {
			pendingBreak = len(out) > 0
			continue
		}
		if pendingBreak {
			r.Break = true
			pendingBreak = false
		}
		out = append(out, r)
	}
	for len(out) > 0 && strings.TrimSpace(out[0].Text) == "" {
		out = out[1:]
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1].Text) == "" {
		out = out[:len(out)-1]
	}
	if len(out) > 0 {
		out[0].Text = strings.TrimLeft(out[0].Text, " \t\n")
		last := len(out) - 1
		out[last].Text = strings.TrimRight(out[last].Text, " \t\n")
	}
	return out
}

func alignmentOf(n *html.Node, inherited string) string {
	css := strings.ReplaceAll(attr(n, "style"), " ", "")
	for _, a := range []string{AlignCenter, AlignRight, AlignJustify, AlignLeft} {
		if strings.Contains(css, "text-align:"+a) {
			return a
		}
	}
	for _, class := range strings.Fields(attr(n, "class")) {
		if a, ok := strings.CutPrefix(class, "ql-align-"); ok {
			return normalizeAlignment(a)
		}
	}
	return inherited
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	default:
		return 6
	}
}

func isInline(a atom.Atom) bool {
	switch a {
	case atom.Span, atom.Strong, atom.B, atom.Em, atom.I, atom.U, atom.Br, atom.A, atom.Sub, atom.Sup, atom.Code:
		return true
	}
	return false
}

package docxexport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"
)

// Options controls document-wide formatting.
type Options struct {
	Title      string
	FontFamily string
	FontSizePt int
	PageBreaks bool // start every page after the first on a new sheet
}

// ContentType is the MIME type of the produced file.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const corePropsPath = "docProps/core.xml"

// Write renders pages as a .docx package to w.
func Write(w io.Writer, pages []Page, opts Options) error {
	if opts.FontFamily == "" {
		opts.FontFamily = "Calibri"
	}
	if opts.FontSizePt <= 0 {
		opts.FontSizePt = 11
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("docxexport: new document: %w", err)
	}
	setDefaults(doc, opts)
	if err := setTitle(doc, opts.Title); err != nil {
		return err
	}

	for i, page := range pages {
		if opts.PageBreaks && i > 0 && len(page.Blocks) > 0 {
			doc.AddPageBreak()
		}
		for _, b := range page.Blocks {
			addBlock(doc, b)
		}
	}

	if err := doc.Write(w); err != nil {
		return fmt.Errorf("docxexport: write: %w", err)
	}
	return nil
}

func addBlock(doc *docx.RootDoc, b Block) {
	p := doc.AddEmptyParagraph()
	switch b.Kind {
	case KindHeading:
		level := b.Level
		if level < 1 || level > 6 {
			level = 1
		}
		p.Style(fmt.Sprintf("Heading%d", level))
	case KindListItem:
		p.Style("ListBullet")
		p.AddText("• ")
	}

	if jc, ok := justification(b.Alignment); ok {
		p.Justification(jc)
	}

	for _, r := range b.Runs {
		if r.Break {
			p.AddRun().AddBreak(nil)
		}
		run := p.AddText(stripControl(r.Text))
		if r.Bold {
			run.Bold(true)
		}
		if r.Italic {
			run.Italic(true)
		}
		if r.Underline {
			run.Underline(stypes.UnderlineSingle)
		}
	}
}

func justification(alignment string) (stypes.Justification, bool) {
	switch alignment {
	case AlignCenter:
		return stypes.JustificationCenter, true
	case AlignRight:
		return stypes.JustificationRight, true
	case AlignJustify:
		return stypes.JustificationBoth, true
	default:
		return "", false
	}
}

// setDefaults applies the body font to the document defaults so headings
// keep the sizes from their styles.
func setDefaults(doc *docx.RootDoc, opts Options) {
	if doc.DocStyles == nil {
		return
	}
	if doc.DocStyles.DocDefaults == nil {
		doc.DocStyles.DocDefaults = &ctypes.DocDefault{}
	}
	d := doc.DocStyles.DocDefaults
	if d.RunProp == nil {
		d.RunProp = &ctypes.RunPropDefault{}
	}
	if d.RunProp.RunProp == nil {
		d.RunProp.RunProp = &ctypes.RunProperty{}
	}
	rp := d.RunProp.RunProp
	rp.Fonts = &ctypes.RunFonts{Ascii: opts.FontFamily, HAnsi: opts.FontFamily, CS: opts.FontFamily}
	halfPoints := uint64(opts.FontSizePt * 2)
	rp.Size = ctypes.NewFontSize(halfPoints)
	rp.SizeCs = ctypes.NewFontSizeCS(halfPoints)
}

// setTitle fills dc:title in the template's core properties; godocx reads
// core properties but has no setter for them.
func setTitle(doc *docx.RootDoc, title string) error {
	raw, ok := doc.FileMap.Load(corePropsPath)
	if !ok {
		return nil
	}
	content, ok := raw.([]byte)
	if !ok {
		return nil
	}

	var esc bytes.Buffer
	if err := xml.EscapeText(&esc, []byte(stripControl(title))); err != nil {
		return fmt.Errorf("docxexport: escape title: %w", err)
	}
	content = bytes.Replace(content, []byte("<dc:title/>"), []byte("<dc:title>"+esc.String()+"</dc:title>"), 1)
	content = bytes.Replace(content, []byte("<dc:creator>gomutex</dc:creator>"), []byte("<dc:creator>DocRecon</dc:creator>"), 1)
	doc.FileMap.Store(corePropsPath, content)
	return nil
}

// XML 1.0 forbids most C0 control characters.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

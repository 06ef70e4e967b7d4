package docxexport_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/docxexport"
)

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestWrite(t *testing.T) {
	pages := []docxexport.Page{
		{Number: 1, Blocks: []docxexport.Block{
			{Kind: docxexport.KindHeading, Level: 1, Alignment: docxexport.AlignCenter, Runs: []docxexport.Run{{Text: "Title & <Co>"}}},
			{Kind: docxexport.KindParagraph, Runs: []docxexport.Run{{Text: "bold", Bold: true}, {Text: " plain"}}},
		}},
		{Number: 2, Blocks: docxexport.FromPlainText("page two")},
	}

	var buf bytes.Buffer
	require.NoError(t, docxexport.Write(&buf, pages, docxexport.Options{Title: "Report", FontFamily: "Arial", FontSizePt: 12, PageBreaks: true}))

	doc := readPart(t, buf.Bytes(), "word/document.xml")
	assert.Contains(t, doc, `<w:pStyle w:val="Heading1">`)
	assert.Contains(t, doc, `<w:jc w:val="center">`)
	assert.Contains(t, doc, "Title &amp; &lt;Co&gt;")
	assert.Contains(t, doc, `<w:b w:val="true">`)
	assert.Equal(t, 1, strings.Count(doc, `<w:br w:type="page">`))
	assert.Contains(t, doc, "page two")

	styles := readPart(t, buf.Bytes(), "word/styles.xml")
	assert.Contains(t, styles, `w:ascii="Arial"`)
	assert.Contains(t, styles, `<w:sz w:val="24">`)

	core := readPart(t, buf.Bytes(), "docProps/core.xml")
	assert.Contains(t, core, "<dc:title>Report</dc:title>")

	types := readPart(t, buf.Bytes(), "[Content_Types].xml")
	assert.Contains(t, types, "/word/document.xml")
}

func TestWrite_NoPageBreaks(t *testing.T) {
	pages := []docxexport.Page{
		{Number: 1, Blocks: docxexport.FromPlainText("one")},
		{Number: 2, Blocks: docxexport.FromPlainText("two")},
	}
	var buf bytes.Buffer
	require.NoError(t, docxexport.Write(&buf, pages, docxexport.Options{}))

	doc := readPart(t, buf.Bytes(), "word/document.xml")
	assert.NotContains(t, doc, `w:type="page"`)
	assert.Contains(t, doc, "one")
	assert.Contains(t, doc, "two")
}

func TestWrite_ListItemsAndFormatting(t *testing.T) {
	pages := []docxexport.Page{{Number: 1, Blocks: []docxexport.Block{
		{Kind: docxexport.KindListItem, Runs: []docxexport.Run{{Text: "item", Italic: true}}},
		{Kind: docxexport.KindParagraph, Alignment: docxexport.AlignJustify, Runs: []docxexport.Run{{Text: "under", Underline: true}, {Text: "next", Break: true}}},
	}}}
	var buf bytes.Buffer
	require.NoError(t, docxexport.Write(&buf, pages, docxexport.Options{}))

	doc := readPart(t, buf.Bytes(), "word/document.xml")
	assert.Contains(t, doc, `<w:pStyle w:val="ListBullet">`)
	assert.Contains(t, doc, `<w:i w:val="true">`)
	assert.Contains(t, doc, `<w:u w:val="single">`)
	assert.Contains(t, doc, `<w:jc w:val="both">`)
	assert.Contains(t, doc, "<w:br>")
}

func TestWrite_StripsControlCharacters(t *testing.T) {
	pages := []docxexport.Page{{Number: 1, Blocks: docxexport.FromPlainText("a\x00b\x07c")}}
	var buf bytes.Buffer
	require.NoError(t, docxexport.Write(&buf, pages, docxexport.Options{}))
	assert.Contains(t, readPart(t, buf.Bytes(), "word/document.xml"), ">abc<")
}

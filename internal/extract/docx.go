package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"
)

// docxExtractor unzips an OOXML document and strips word/document.xml down
// to its character data.
type docxExtractor struct{}

func (docxExtractor) Name() string { return "docx_xml" }

func (docxExtractor) Extract(ctx context.Context, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(data) == 0 {
		return Result{}, errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return Result{}, err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Result{}, errors.New("document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, err
	}

	return Result{Text: stripDocxXML(string(raw))}, nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// docBinaryScan is a crude legacy .doc reader: it collects printable runs
// from the binary stream. Good enough to feed the simplifier when the file
// is a genuine Word 97 document.
type docBinaryScan struct{}

func (docBinaryScan) Name() string { return "doc_binary_scan" }

const minPrintableRun = 4

func (docBinaryScan) Extract(ctx context.Context, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	var buf strings.Builder
	var run strings.Builder
	flush := func() {
		if run.Len() >= minPrintableRun {
			if buf.Len() > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(run.String())
		}
		run.Reset()
	}
	for _, b := range data {
		r := rune(b)
		if r == '\n' || r == '\t' || (unicode.IsPrint(r) && r < 127) {
			run.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return Result{}, errors.New("no printable text found in doc stream")
	}
	return Result{Text: text}, nil
}

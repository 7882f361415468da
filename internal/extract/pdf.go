package extract

import (
	"bytes"
	"context"
	"io"

	"github.com/ledongthuc/pdf"
)

// pdfTextLayer reads the embedded text layer of a PDF. Scanned PDFs have no
// text layer and fall through to OCR.
type pdfTextLayer struct{}

func (pdfTextLayer) Name() string { return "pdf_text_layer" }

func (pdfTextLayer) Extract(ctx context.Context, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return Result{}, err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return Result{}, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Result{}, err
	}
	return Result{Text: buf.String()}, nil
}

package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/telemetry"
)

// ErrNoText indicates every strategy in the chain ran and none produced text.
var ErrNoText = errors.New("no text could be extracted from the document")

// Extractor is one strategy for pulling text out of raw document bytes.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, data []byte) (Result, error)
}

// Result is the outcome of a successful extraction.
type Result struct {
	Text          string
	Method        string
	OCRConfidence *float64
	Language      string
}

// Engine runs the per-file-type strategy chain. Strategies are tried in
// order; the first one that yields non-empty text wins and later ones never
// run.
type Engine struct {
	OCR Extractor // nil when no Vision credentials are configured
}

// ChainFor returns the ordered strategy list for a file type.
func (e *Engine) ChainFor(fileType documents.FileType) []Extractor {
	switch fileType {
	case documents.FileTypePDF:
		chain := []Extractor{pdfTextLayer{}}
		if e.OCR != nil {
			chain = append(chain, e.OCR)
		}
		return chain
	case documents.FileTypeDocx:
		return []Extractor{docxExtractor{}}
	case documents.FileTypeDoc:
		// Some .doc uploads are really OOXML with the wrong extension, so
		// try the docx reader first, then scan for printable runs.
		return []Extractor{docxExtractor{}, docBinaryScan{}}
	case documents.FileTypeImage:
		if e.OCR != nil {
			return []Extractor{e.OCR}
		}
		return nil
	case documents.FileTypeText:
		return []Extractor{plainText{}}
	default:
		return nil
	}
}

// ExtractText runs the chain for fileType over data and returns the first
// non-empty result along with the name of the strategy that produced it.
func (e *Engine) ExtractText(ctx context.Context, data []byte, fileType documents.FileType) (Result, error) {
	chain := e.ChainFor(fileType)
	if len(chain) == 0 {
		return Result{}, fmt.Errorf("%w: no extraction strategy for file type %q", ErrNoText, fileType)
	}
	return runChain(ctx, chain, data, fileType)
}

func runChain(ctx context.Context, chain []Extractor, data []byte, fileType documents.FileType) (Result, error) {
	var lastErr error
	for i, strategy := range chain {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if i > 0 {
			metrics.IncExtractionFallback()
			telemetry.Warn("extract.fallback", map[string]any{
				"file_type": string(fileType),
				"strategy":  strategy.Name(),
				"error":     errString(lastErr),
			})
		}

		res, err := strategy.Extract(ctx, data)
		if err != nil {
			lastErr = err
			continue
		}
		res.Text = strings.TrimSpace(res.Text)
		if res.Text == "" {
			lastErr = fmt.Errorf("%s produced empty text", strategy.Name())
			continue
		}
		if res.Method == "" {
			res.Method = strategy.Name()
		}
		if res.Language == "" {
			res.Language = detectLanguage(res.Text)
		}
		return res, nil
	}

	if lastErr != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNoText, lastErr)
	}
	return Result{}, ErrNoText
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// detectLanguage is a coarse heuristic: text dominated by ASCII letters is
// tagged "en", anything else "unknown". Vision results carry their own tag.
func detectLanguage(text string) string {
	if text == "" {
		return "unknown"
	}
	var letters, ascii int
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			continue
		}
		letters++
		if r < 128 {
			ascii++
		}
	}
	if letters == 0 {
		return "unknown"
	}
	if float64(ascii)/float64(letters) >= 0.9 {
		return "en"
	}
	return "unknown"
}

package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const visionAPIURL = "https://vision.googleapis.com/v1/images:annotate"

// VisionClient performs OCR through the Google Cloud Vision REST API using
// DOCUMENT_TEXT_DETECTION. It satisfies Extractor so it can sit at the end
// of a strategy chain.
type VisionClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewVisionClient constructs a VisionClient.
func NewVisionClient(apiKey string) (*VisionClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("VISION_API_KEY is required")
	}
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("VISION_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &VisionClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    visionAPIURL,
	}, nil
}

func (c *VisionClient) Name() string { return "vision_ocr" }

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text  string `json:"text"`
			Pages []struct {
				Confidence float64 `json:"confidence"`
				Property   *struct {
					DetectedLanguages []struct {
						LanguageCode string  `json:"languageCode"`
						Confidence   float64 `json:"confidence"`
					} `json:"detectedLanguages"`
				} `json:"property"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends the image bytes for OCR and returns the recognized text with
// the page-average confidence.
func (c *VisionClient) Extract(ctx context.Context, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty image data")
	}

	reqBody := visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(data)},
			Features: []visionFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return Result{}, fmt.Errorf("vision request timeout: %w", err)
		}
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	var parsed visionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("vision response parse: %w", err)
	}
	if parsed.Error != nil {
		return Result{}, fmt.Errorf("vision error: %s (code %d)", parsed.Error.Message, parsed.Error.Code)
	}
	if len(parsed.Responses) == 0 {
		return Result{}, errors.New("vision response missing annotations")
	}
	annotated := parsed.Responses[0]
	if annotated.Error != nil {
		return Result{}, fmt.Errorf("vision error: %s (code %d)", annotated.Error.Message, annotated.Error.Code)
	}
	if annotated.FullTextAnnotation == nil || strings.TrimSpace(annotated.FullTextAnnotation.Text) == "" {
		return Result{}, errors.New("vision found no text")
	}

	res := Result{Text: annotated.FullTextAnnotation.Text}
	if pages := annotated.FullTextAnnotation.Pages; len(pages) > 0 {
		var sum float64
		for _, page := range pages {
			sum += page.Confidence
		}
		avg := sum / float64(len(pages))
		res.OCRConfidence = &avg

		if prop := pages[0].Property; prop != nil && len(prop.DetectedLanguages) > 0 {
			res.Language = prop.DetectedLanguages[0].LanguageCode
		}
	}
	return res, nil
}

var _ Extractor = (*VisionClient)(nil)

package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	_ "image/jpeg"
	_ "image/png"
)

// minPrimaryResultRunes is the quality gate: vision models sometimes return
// terse non-answers on low-quality input, so anything shorter than this is
// discarded in favor of the deterministic fallback.
const minPrimaryResultRunes = 10

// pageSeparator joins per-page results of a multi-page document.
const pageSeparator = "\n\n"

// VisionBackend extracts text from an image file with a vision model.
type VisionBackend interface {
	ExtractImageText(ctx context.Context, imagePath string) (string, error)
}

// TextRecognizer is the deterministic local fallback engine.
type TextRecognizer interface {
	RecognizeBytes(ctx context.Context, imageData []byte) (string, error)
}

// PageDecoder turns a document file into ordered page images. The PDF
// implementation lives in pdf.go; plain images decode to a single page.
type PageDecoder interface {
	DecodePages(path string) ([]image.Image, error)
}

// Pipeline extracts text from images and PDFs: preprocess, primary vision
// OCR, quality-gated fallback to tesseract. Transient buffers and files are
// released on every exit path.
type Pipeline struct {
	vision     VisionBackend
	fallback   TextRecognizer
	pdfDecoder PageDecoder
	tempDir    string
	logger     zerolog.Logger
}

func NewPipeline(vision VisionBackend, fallback TextRecognizer, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		vision:     vision,
		fallback:   fallback,
		pdfDecoder: &pdfPageDecoder{},
		tempDir:    os.TempDir(),
		logger:     logger,
	}
}

// ExtractFile extracts text from an image or PDF file on disk.
func (p *Pipeline) ExtractFile(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return p.extractPDF(ctx, path)
	case ".png", ".jpg", ".jpeg":
		return p.extractImageFile(ctx, path)
	default:
		return "", &Error{Kind: KindInvalidInput, Cause: fmt.Errorf("unsupported file type %q", filepath.Ext(path))}
	}
}

func (p *Pipeline) extractImageFile(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &Error{Kind: KindInvalidInput, Cause: fmt.Errorf("open image: %w", err)}
	}
	img, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		return "", &Error{Kind: KindInvalidInput, Cause: fmt.Errorf("decode image: %w", err)}
	}

	text, err := p.extractPage(ctx, img)
	if err != nil {
		return "", &Error{Kind: KindExtractionFailed, Cause: err}
	}
	return text, nil
}

func (p *Pipeline) extractPDF(ctx context.Context, path string) (string, error) {
	pages, err := p.pdfDecoder.DecodePages(path)
	if err != nil {
		return "", &Error{Kind: KindExtractionFailed, Cause: fmt.Errorf("decode pdf pages: %w", err)}
	}
	return p.extractPages(ctx, pages)
}

// extractPages runs per-page extraction strictly in page order and joins the
// results with a blank line. Any page failure aborts the whole job; there
// are no partial results.
func (p *Pipeline) extractPages(ctx context.Context, pages []image.Image) (string, error) {
	pageTexts := make([]string, 0, len(pages))
	for i, page := range pages {
		if page == nil {
			pageTexts = append(pageTexts, "")
			continue
		}
		text, err := p.extractPage(ctx, page)
		if err != nil {
			return "", &Error{Kind: KindExtractionFailed, Cause: fmt.Errorf("page %d: %w", i+1, err)}
		}
		pageTexts = append(pageTexts, text)
	}
	return strings.Join(pageTexts, pageSeparator), nil
}

// extractPage preprocesses one page image, runs the primary vision backend
// over a transient JPEG, and applies the quality gate. The transient file is
// removed on every exit path.
func (p *Pipeline) extractPage(ctx context.Context, page image.Image) (string, error) {
	encoded, err := preprocess(page)
	if err != nil {
		return "", err
	}

	transient, err := os.CreateTemp(p.tempDir, "polyglot-page-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create transient page file: %w", err)
	}
	transientPath := transient.Name()
	defer os.Remove(transientPath)

	if _, err := transient.Write(encoded); err != nil {
		transient.Close()
		return "", fmt.Errorf("write transient page file: %w", err)
	}
	if err := transient.Close(); err != nil {
		return "", fmt.Errorf("close transient page file: %w", err)
	}

	primary, primaryErr := p.vision.ExtractImageText(ctx, transientPath)
	if primaryErr == nil && utf8.RuneCountInString(strings.TrimSpace(primary)) >= minPrimaryResultRunes {
		return strings.TrimSpace(primary), nil
	}

	if primaryErr != nil {
		p.logger.Warn().Err(primaryErr).Msg("primary ocr backend failed, using local fallback")
	} else {
		p.logger.Info().Msg("primary ocr result too short, using local fallback")
	}

	secondary, err := p.fallback.RecognizeBytes(ctx, encoded)
	if err != nil {
		if primaryErr != nil {
			return "", fmt.Errorf("primary ocr: %v; fallback ocr: %w", primaryErr, err)
		}
		return "", fmt.Errorf("fallback ocr: %w", err)
	}
	return strings.TrimSpace(secondary), nil
}

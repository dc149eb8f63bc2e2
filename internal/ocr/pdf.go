package ocr

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfPageDecoder pulls page images out of a PDF with pdfcpu. Scanned
// documents carry one raster image per page, which is the OCR use case; a
// page without image content decodes to nil and contributes an empty page.
type pdfPageDecoder struct{}

func (d *pdfPageDecoder) DecodePages(path string) ([]image.Image, error) {
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("count pdf pages: %w", err)
	}

	workDir, err := os.MkdirTemp("", "polyglot-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("create pdf work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	pages := make([]image.Image, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		img, err := extractPageImage(path, page, workDir)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

func extractPageImage(path string, page int, workDir string) (image.Image, error) {
	pageDir := filepath.Join(workDir, "page-"+strconv.Itoa(page))
	if err := os.Mkdir(pageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create page dir: %w", err)
	}
	defer os.RemoveAll(pageDir)

	if err := api.ExtractImagesFile(path, pageDir, []string{strconv.Itoa(page)}, nil); err != nil {
		return nil, fmt.Errorf("extract page images: %w", err)
	}

	entries, err := os.ReadDir(pageDir)
	if err != nil {
		return nil, fmt.Errorf("list page images: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		file, err := os.Open(filepath.Join(pageDir, name))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(file)
		file.Close()
		if err == nil {
			return img, nil
		}
	}
	return nil, nil
}

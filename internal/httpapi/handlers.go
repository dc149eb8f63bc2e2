package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/polyglot/internal/language"
	"horse.fit/polyglot/internal/ocr"
	"horse.fit/polyglot/internal/translation"
)

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	Provider       string `json:"provider"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	ProviderUsed   string `json:"provider_used"`
}

type ocrResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":           "ok",
		"service":          "polyglot",
		"ollama_available": s.settings.Available(c.Request().Context()),
	})
}

func (s *Server) handleOCR(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".pdf":
	default:
		return badRequest(c, fmt.Sprintf("unsupported file type %q, expected png, jpg, jpeg or pdf", ext))
	}

	src, err := fileHeader.Open()
	if err != nil {
		s.logger.Error().Err(err).Msg("open uploaded file failed")
		return internalError(c, "Failed to read upload")
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "polyglot-upload-*"+ext)
	if err != nil {
		s.logger.Error().Err(err).Msg("create upload temp file failed")
		return internalError(c, "Failed to read upload")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		s.logger.Error().Err(err).Msg("write upload temp file failed")
		return internalError(c, "Failed to read upload")
	}
	if err := tmp.Close(); err != nil {
		s.logger.Error().Err(err).Msg("close upload temp file failed")
		return internalError(c, "Failed to read upload")
	}

	text, err := s.extractor.ExtractFile(c.Request().Context(), tmpPath)
	if err != nil {
		if ocr.IsKind(err, ocr.KindInvalidInput) {
			return badRequest(c, err.Error())
		}
		s.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("text extraction failed")
		return internalError(c, "Text extraction failed")
	}

	return c.JSON(http.StatusOK, ocrResponse{Text: text})
}

func (s *Server) handleTranslate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	result, err := s.translator.Translate(
		c.Request().Context(),
		req.Text,
		req.TargetLanguage,
		translation.ResolveProvider(req.Provider),
	)
	if err != nil {
		if translation.IsKind(err, translation.KindInvalidInput) {
			return badRequest(c, err.Error())
		}
		s.logger.Error().Err(err).Str("provider", req.Provider).Msg("translation failed")
		return internalError(c, "Translation failed")
	}

	return c.JSON(http.StatusOK, translateResponse{
		TranslatedText: result.Text,
		ProviderUsed:   string(result.Provider),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("provider"))

	var entries []language.Entry
	if raw == "" {
		entries = language.List()
	} else {
		entries = translation.LanguagesFor(translation.ResolveProvider(raw))
	}

	languages := make(map[string]string, len(entries))
	for _, entry := range entries {
		languages[entry.Code] = entry.Name
	}
	return c.JSON(http.StatusOK, languages)
}

func (s *Server) handleProviders(c echo.Context) error {
	return c.JSON(http.StatusOK, translation.ProviderDisplayNames())
}

func (s *Server) handleGetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, s.settings.Settings())
}

func (s *Server) handleUpdateConfig(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest(c, "failed to read request body")
	}

	if err := validateSettingsPayload(body); err != nil {
		return badRequest(c, err.Error())
	}

	// Absent fields keep their current values; the schema already rejected
	// wrong-typed ones, so nothing is applied on a bad payload.
	next := s.settings.Settings()
	if err := json.Unmarshal(body, &next); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	s.settings.UpdateSettings(next)
	s.logger.Info().
		Str("base_url", next.BaseURL).
		Str("ocr_model", next.OCRModel).
		Str("translation_model", next.TranslationModel).
		Bool("enable_local_ollama", next.EnableLocal).
		Msg("ollama settings updated")

	return c.JSON(http.StatusOK, s.settings.Settings())
}

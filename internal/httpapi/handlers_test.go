package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/backend"
	"horse.fit/polyglot/internal/translation"
)

type stubTranslator struct {
	calls  int
	result *translation.Result
	err    error
}

func (s *stubTranslator) Translate(_ context.Context, _, _ string, _ translation.Provider) (*translation.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubExtractor struct {
	calls   int
	gotPath string
	text    string
	err     error
}

func (s *stubExtractor) ExtractFile(_ context.Context, path string) (string, error) {
	s.calls++
	s.gotPath = path
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubSettings struct {
	current backend.Settings
	updates int
}

func (s *stubSettings) Settings() backend.Settings {
	return s.current
}

func (s *stubSettings) UpdateSettings(settings backend.Settings) {
	s.updates++
	s.current = settings
}

func (s *stubSettings) Available(context.Context) bool {
	return true
}

func newTestServer(t *testing.T, tr translator, ex textExtractor, st settingsStore) *echoHarness {
	t.Helper()
	if tr == nil {
		tr = &stubTranslator{result: &translation.Result{}}
	}
	if ex == nil {
		ex = &stubExtractor{}
	}
	if st == nil {
		st = &stubSettings{current: backend.Settings{
			BaseURL:          "http://localhost:11434",
			OCRModel:         "llava",
			TranslationModel: "mistral",
			EnableLocal:      true,
			Temperature:      0.3,
			TopP:             0.9,
			MaxTokens:        1000,
		}}
	}
	srv := NewServer(tr, ex, st, zerolog.Nop(), Options{})
	return &echoHarness{handler: srv.buildEcho()}
}

type echoHarness struct {
	handler http.Handler
}

func (h *echoHarness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHandleTranslate(t *testing.T) {
	t.Parallel()

	tr := &stubTranslator{result: &translation.Result{
		Text:     "Bonjour",
		Provider: translation.ProviderPons,
	}}
	h := newTestServer(t, tr, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/translate",
		strings.NewReader(`{"text":"Hello","target_language":"french","provider":"pons"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := h.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp translateResponse
	decodeBody(t, rec, &resp)
	if resp.TranslatedText != "Bonjour" {
		t.Fatalf("translated_text = %q, want %q", resp.TranslatedText, "Bonjour")
	}
	if resp.ProviderUsed != "pons" {
		t.Fatalf("provider_used = %q, want %q", resp.ProviderUsed, "pons")
	}
	if tr.calls != 1 {
		t.Fatalf("translator calls = %d, want 1", tr.calls)
	}
}

func TestHandleTranslateInvalidInput(t *testing.T) {
	t.Parallel()

	tr := &stubTranslator{err: &translation.Error{
		Kind:     translation.KindInvalidInput,
		Provider: translation.ProviderGoogle,
		Cause:    errors.New("text must not be empty"),
	}}
	h := newTestServer(t, tr, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/translate",
		strings.NewReader(`{"text":"","target_language":"de"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := h.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestHandleTranslateExhausted(t *testing.T) {
	t.Parallel()

	tr := &stubTranslator{err: &translation.Error{
		Kind:     translation.KindAllProvidersExhausted,
		Provider: translation.ProviderGoogle,
		Cause:    errors.New("upstream down"),
	}}
	h := newTestServer(t, tr, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/translate",
		strings.NewReader(`{"text":"Hello","target_language":"de"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := h.do(req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "Translation failed" {
		t.Fatalf("error = %q, want %q", resp.Error, "Translation failed")
	}
}

func TestHandleOCR(t *testing.T) {
	t.Parallel()

	ex := &stubExtractor{text: "extracted text"}
	h := newTestServer(t, nil, ex, nil)

	body, contentType := multipartUpload(t, "scan.png", []byte("not a real png"))
	req := httptest.NewRequest(http.MethodPost, "/api/ocr", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := h.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp ocrResponse
	decodeBody(t, rec, &resp)
	if resp.Text != "extracted text" {
		t.Fatalf("text = %q, want %q", resp.Text, "extracted text")
	}
	if ex.calls != 1 {
		t.Fatalf("extractor calls = %d, want 1", ex.calls)
	}
	if !strings.HasSuffix(ex.gotPath, ".png") {
		t.Fatalf("upload temp path %q should keep the .png extension", ex.gotPath)
	}
	if _, err := os.Stat(ex.gotPath); !os.IsNotExist(err) {
		t.Fatalf("upload temp file %q should be removed after the request", ex.gotPath)
	}
}

func TestHandleOCRRejectsUnknownExtension(t *testing.T) {
	t.Parallel()

	ex := &stubExtractor{text: "should never run"}
	h := newTestServer(t, nil, ex, nil)

	body, contentType := multipartUpload(t, "notes.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/ocr", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := h.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ex.calls != 0 {
		t.Fatalf("extractor calls = %d, want 0", ex.calls)
	}
}

func TestHandleOCRCleansUpOnFailure(t *testing.T) {
	t.Parallel()

	ex := &stubExtractor{err: errors.New("vision model unreachable")}
	h := newTestServer(t, nil, ex, nil)

	body, contentType := multipartUpload(t, "scan.jpg", []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/ocr", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := h.do(req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if _, err := os.Stat(ex.gotPath); !os.IsNotExist(err) {
		t.Fatalf("upload temp file %q should be removed after a failed request", ex.gotPath)
	}
}

func TestHandleLanguagesFiltersByProvider(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/languages?provider=pons", nil)
	rec := h.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var languages map[string]string
	decodeBody(t, rec, &languages)
	if len(languages) != 7 {
		t.Fatalf("pons languages = %d, want 7 (%v)", len(languages), languages)
	}
	if _, ok := languages["ja"]; ok {
		t.Fatal("pons must not list japanese")
	}
	if languages["de"] != "German" {
		t.Fatalf("de = %q, want German", languages["de"])
	}
}

func TestHandleLanguagesUnfiltered(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	rec := h.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var languages map[string]string
	decodeBody(t, rec, &languages)
	if len(languages) != 31 {
		t.Fatalf("catalog size = %d, want 31", len(languages))
	}
}

func TestHandleProviders(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	rec := h.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var providers map[string]string
	decodeBody(t, rec, &providers)
	if len(providers) != 7 {
		t.Fatalf("providers = %d, want 7", len(providers))
	}
	if providers["google"] == "" {
		t.Fatal("google must have a display name")
	}
}

func TestHandleUpdateConfigPartial(t *testing.T) {
	t.Parallel()

	st := &stubSettings{current: backend.Settings{
		BaseURL:          "http://localhost:11434",
		OCRModel:         "llava",
		TranslationModel: "mistral",
		EnableLocal:      true,
		Temperature:      0.3,
		TopP:             0.9,
		MaxTokens:        1000,
	}}
	h := newTestServer(t, nil, nil, st)

	req := httptest.NewRequest(http.MethodPost, "/api/config/ollama",
		strings.NewReader(`{"temperature":0.7,"ocr_model":"bakllava"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := h.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if st.updates != 1 {
		t.Fatalf("updates = %d, want 1", st.updates)
	}
	if st.current.Temperature != 0.7 {
		t.Fatalf("temperature = %v, want 0.7", st.current.Temperature)
	}
	if st.current.OCRModel != "bakllava" {
		t.Fatalf("ocr_model = %q, want bakllava", st.current.OCRModel)
	}
	// Absent fields keep their previous values.
	if st.current.TranslationModel != "mistral" {
		t.Fatalf("translation_model = %q, want mistral", st.current.TranslationModel)
	}
	if !st.current.EnableLocal {
		t.Fatal("enable_local_ollama should be unchanged")
	}
}

func TestHandleUpdateConfigRejectsWrongType(t *testing.T) {
	t.Parallel()

	st := &stubSettings{current: backend.Settings{BaseURL: "http://localhost:11434"}}
	h := newTestServer(t, nil, nil, st)

	req := httptest.NewRequest(http.MethodPost, "/api/config/ollama",
		strings.NewReader(`{"temperature":"hot"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := h.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if st.updates != 0 {
		t.Fatalf("updates = %d, want 0 (nothing may be applied)", st.updates)
	}
}

func TestHandleUpdateConfigRejectsUnknownField(t *testing.T) {
	t.Parallel()

	st := &stubSettings{current: backend.Settings{BaseURL: "http://localhost:11434"}}
	h := newTestServer(t, nil, nil, st)

	req := httptest.NewRequest(http.MethodPost, "/api/config/ollama",
		strings.NewReader(`{"bogus":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := h.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if st.updates != 0 {
		t.Fatalf("updates = %d, want 0", st.updates)
	}
}

func TestHandleGetConfig(t *testing.T) {
	t.Parallel()

	st := &stubSettings{current: backend.Settings{
		BaseURL:   "http://ollama:11434",
		OCRModel:  "llava",
		MaxTokens: 1000,
	}}
	h := newTestServer(t, nil, nil, st)

	req := httptest.NewRequest(http.MethodGet, "/api/config/ollama", nil)
	rec := h.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got backend.Settings
	decodeBody(t, rec, &got)
	if got.BaseURL != "http://ollama:11434" {
		t.Fatalf("ollama_base_url = %q, want http://ollama:11434", got.BaseURL)
	}
}

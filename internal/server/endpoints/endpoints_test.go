package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/every-mentor/mentorai/internal/certs"
	"github.com/every-mentor/mentorai/internal/company"
	"github.com/every-mentor/mentorai/internal/curriculum"
	"github.com/every-mentor/mentorai/internal/ocr"
	"github.com/every-mentor/mentorai/internal/providers"
	"github.com/every-mentor/mentorai/internal/svcctx"
)

// stubEngine returns fixed text for every recognition call.
type stubEngine struct {
	text string
}

func (e *stubEngine) Recognize(_ context.Context, _ []byte, _ ocr.Options) (string, error) {
	return e.text, nil
}

func (e *stubEngine) Name() string { return "stub" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServices wires the endpoint dependencies around a stub OCR engine
// and a mock LLM client.
func newTestServices(t *testing.T, ocrText string, mock *providers.MockClient) *svcctx.Services {
	t.Helper()
	logger := testLogger()

	registry := providers.NewRegistry()
	registry.SetLogger(logger)
	if mock != nil {
		// Registered under the local-fallback name so "auto" selects it.
		registry.Register(providers.SelectionLMStudio, mock)
	}

	resolver := certs.NewResolver(certs.NewTaxonomy(), certs.NewLevenshteinMatcher())
	inferrer := certs.NewInferrer(certs.InferrerConfig{
		Client:          mock,
		FallbackEnabled: mock != nil,
		Logger:          logger,
	})
	extractor := company.NewExtractor(logger)

	return &svcctx.Services{
		Selector:  ocr.NewSelector(&stubEngine{text: ocrText}, ocr.DefaultPreprocessConfig(), logger),
		Resolver:  resolver,
		Inferrer:  inferrer,
		Extractor: extractor,
		Orchestrator: curriculum.NewOrchestrator(curriculum.OrchestratorConfig{
			Resolver:  resolver,
			Inferrer:  inferrer,
			Extractor: extractor,
			Registry:  registry,
			Logger:    logger,
		}),
		Registry: registry,
		Logger:   logger,
	}
}

// serve runs one request through the endpoint with services in context.
func serve(t *testing.T, ep interface {
	Route() (string, string, http.HandlerFunc)
}, req *http.Request, services *svcctx.Services) *httptest.ResponseRecorder {
	t.Helper()
	_, _, handler := ep.Route()
	if services != nil {
		req = req.WithContext(svcctx.WithServices(req.Context(), services))
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// testPNG encodes a small white image.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(2, 2, color.NRGBA{A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload builds a multipart body with one file and form fields.
func multipartUpload(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	rec := serve(t, &HealthEndpoint{}, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeJSON[HealthResponse](t, rec)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("engine not initialized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		rec := serve(t, &ReadyEndpoint{}, req, &svcctx.Services{})

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		resp := decodeJSON[HealthResponse](t, rec)
		if resp.Status != "degraded" || resp.Engine != "not_initialized" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("no services in context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		rec := serve(t, &ReadyEndpoint{}, req, nil)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestStatusEndpoint(t *testing.T) {
	services := newTestServices(t, "", providers.NewMockClient())
	req := httptest.NewRequest("GET", "/status", nil)
	rec := serve(t, &StatusEndpoint{}, req, services)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeJSON[StatusResponse](t, rec)
	if resp.Server != "running" {
		t.Errorf("expected server running, got %q", resp.Server)
	}
	if resp.Engine.Name != "not_initialized" {
		t.Errorf("expected engine not_initialized, got %q", resp.Engine.Name)
	}
	if len(resp.Providers) != 1 || resp.Providers[0] != providers.SelectionLMStudio {
		t.Errorf("unexpected providers: %v", resp.Providers)
	}
}

func TestOCREndpoint(t *testing.T) {
	ep := &OCREndpoint{}

	t.Run("missing file field", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.Close()
		req := httptest.NewRequest("POST", "/api/ocr", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := serve(t, ep, req, newTestServices(t, "text", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("non-image content type", func(t *testing.T) {
		body, ct := multipartUpload(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4"), nil)
		req := httptest.NewRequest("POST", "/api/ocr", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(t, ep, req, newTestServices(t, "text", nil))

		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d", rec.Code)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		body, ct := multipartUpload(t, "scan.png", "image/png", nil, nil)
		req := httptest.NewRequest("POST", "/api/ocr", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(t, ep, req, newTestServices(t, "text", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid psm override", func(t *testing.T) {
		body, ct := multipartUpload(t, "scan.png", "image/png", testPNG(t), map[string]string{"psm": "four"})
		req := httptest.NewRequest("POST", "/api/ocr", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(t, ep, req, newTestServices(t, "text", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("undecodable image", func(t *testing.T) {
		body, ct := multipartUpload(t, "scan.png", "image/png", []byte("not a png"), nil)
		req := httptest.NewRequest("POST", "/api/ocr", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(t, ep, req, newTestServices(t, "text", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("masks resident numbers by default", func(t *testing.T) {
		body, ct := multipartUpload(t, "scan.png", "image/png", testPNG(t), nil)
		req := httptest.NewRequest("POST", "/api/ocr", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(t, ep, req, newTestServices(t, "성명 홍길동 880101-1234567", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeJSON[OCRResponse](t, rec)
		if !resp.Masked {
			t.Error("expected masked response")
		}
		if !strings.Contains(resp.Text, "880101-*******") {
			t.Errorf("expected masked resident number, got %q", resp.Text)
		}
		if resp.SelectedVariant == "" {
			t.Error("expected a selected variant")
		}
		if len(resp.Candidates) == 0 {
			t.Error("expected variant candidates")
		}
	})

	t.Run("mask=false returns raw text", func(t *testing.T) {
		body, ct := multipartUpload(t, "scan.png", "image/png", testPNG(t), map[string]string{"mask": "false"})
		req := httptest.NewRequest("POST", "/api/ocr", body)
		req.Header.Set("Content-Type", ct)
		rec := serve(t, ep, req, newTestServices(t, "880101-1234567", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		resp := decodeJSON[OCRResponse](t, rec)
		if resp.Masked {
			t.Error("expected unmasked response")
		}
		if !strings.Contains(resp.Text, "880101-1234567") {
			t.Errorf("expected raw resident number, got %q", resp.Text)
		}
	})
}

func TestResolveEndpoint(t *testing.T) {
	ep := &ResolveEndpoint{}
	services := newTestServices(t, "", nil)

	post := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest("POST", "/api/certificates/resolve", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(t, ep, req, services)
	}

	t.Run("invalid body", func(t *testing.T) {
		if rec := post(t, "{"); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("empty request", func(t *testing.T) {
		if rec := post(t, "{}"); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("resolves names", func(t *testing.T) {
		rec := post(t, `{"names":["전기기능사","굴삭기운전기능사","없는자격증이름"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		resp := decodeJSON[ResolveResponse](t, rec)
		if len(resp.Resolutions) != 3 {
			t.Fatalf("expected 3 resolutions, got %d", len(resp.Resolutions))
		}
		if resp.Resolutions[0].Source != certs.SourceExact {
			t.Errorf("expected exact match, got %s", resp.Resolutions[0].Source)
		}
		if !strings.HasPrefix(resp.Resolutions[0].SubjectLine, "전기기능사 - ") {
			t.Errorf("expected subject line, got %q", resp.Resolutions[0].SubjectLine)
		}
		if resp.Resolutions[1].Canonical != "굴착기운전기능사" {
			t.Errorf("expected alias resolution, got %+v", resp.Resolutions[1])
		}
		if resp.Resolutions[2].Resolved() {
			t.Errorf("expected unresolved, got %+v", resp.Resolutions[2])
		}
	})

	t.Run("extracts candidates from text", func(t *testing.T) {
		rec := post(t, `{"text":"자격증: 정보처리기사 취득"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		resp := decodeJSON[ResolveResponse](t, rec)
		if len(resp.Resolutions) == 0 {
			t.Fatal("expected resolutions from text")
		}
		found := false
		for _, res := range resp.Resolutions {
			if res.Canonical == "정보처리기사" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected 정보처리기사 among %+v", resp.Resolutions)
		}
	})
}

func TestExtractCompaniesEndpoint(t *testing.T) {
	ep := &ExtractCompaniesEndpoint{}
	services := newTestServices(t, "", nil)

	post := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest("POST", "/api/companies/extract", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(t, ep, req, services)
	}

	t.Run("empty text", func(t *testing.T) {
		if rec := post(t, `{"text":"  "}`); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("dedupes across corporate markers", func(t *testing.T) {
		rec := post(t, `{"text":"1 (주) 이레특장 2020-01-01 2021-01-01\n이레특장 2021-02-01 2022-01-01"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeJSON[ExtractCompaniesResponse](t, rec)
		if len(resp.Companies) != 1 {
			t.Fatalf("expected 1 candidate, got %d: %+v", len(resp.Companies), resp.Companies)
		}
		if resp.Companies[0].Frequency != 2 {
			t.Errorf("expected frequency 2, got %d", resp.Companies[0].Frequency)
		}
	})
}

func TestSubjectsEndpoint(t *testing.T) {
	services := newTestServices(t, "", nil)
	req := httptest.NewRequest("GET", "/api/subjects", nil)
	rec := serve(t, &SubjectsEndpoint{}, req, services)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeJSON[SubjectsResponse](t, rec)
	if len(resp.Subjects) != 15 {
		t.Fatalf("expected 15 subject lines, got %d", len(resp.Subjects))
	}
	if !strings.HasPrefix(resp.Subjects[0], "전기기능사 - ") {
		t.Errorf("unexpected first line: %q", resp.Subjects[0])
	}
}

func TestCurriculumEndpoint(t *testing.T) {
	ep := &CurriculumEndpoint{}

	post := func(t *testing.T, services *svcctx.Services, fields map[string]string) *httptest.ResponseRecorder {
		t.Helper()
		body, ct := multipartUpload(t, "scan.png", "image/png", testPNG(t), fields)
		req := httptest.NewRequest("POST", "/api/curriculum", body)
		req.Header.Set("Content-Type", ct)
		return serve(t, ep, req, services)
	}

	t.Run("invalid weeks", func(t *testing.T) {
		services := newTestServices(t, "text", providers.NewMockClient())
		rec := post(t, services, map[string]string{"weeks": "0"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid result type", func(t *testing.T) {
		services := newTestServices(t, "text", providers.NewMockClient())
		rec := post(t, services, map[string]string{"result": "everything"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("subjects result needs no LLM", func(t *testing.T) {
		mock := providers.NewMockClient()
		services := newTestServices(t, "자격종목 : 전기기능사\n합격", mock)
		rec := post(t, services, map[string]string{"result": "subjects"})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeJSON[CurriculumResponse](t, rec)
		if !strings.Contains(resp.Text, "전기이론") {
			t.Errorf("expected subject line in %q", resp.Text)
		}
		if mock.RequestCount() != 0 {
			t.Errorf("expected no LLM calls, got %d", mock.RequestCount())
		}
	})

	t.Run("curriculum text result", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "1주차: 전기이론 기초 학습"
		services := newTestServices(t, "자격종목 : 전기기능사\n합격", mock)
		rec := post(t, services, map[string]string{"weeks": "4", "goal": "전기기사 취득"})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeJSON[CurriculumResponse](t, rec)
		if resp.Text != mock.ResponseText {
			t.Errorf("expected model text, got %q", resp.Text)
		}
		if resp.Facts == nil || len(resp.Facts.Certifications) == 0 {
			t.Errorf("expected certification facts, got %+v", resp.Facts)
		}
	})

	t.Run("rejects non-image insurance upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for _, f := range []struct{ field, name, ct string }{
			{"file", "cert.png", "image/png"},
			{"insurance", "record.pdf", "application/pdf"},
		} {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
			h.Set("Content-Type", f.ct)
			part, err := mw.CreatePart(h)
			if err != nil {
				t.Fatalf("create part: %v", err)
			}
			if _, err := part.Write(testPNG(t)); err != nil {
				t.Fatalf("write part: %v", err)
			}
		}
		mw.Close()

		services := newTestServices(t, "text", providers.NewMockClient())
		req := httptest.NewRequest("POST", "/api/curriculum", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := serve(t, ep, req, services)

		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("upstream timeout maps to 504", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ShouldFail = true
		mock.FailWith = &providers.UpstreamTimeoutError{Provider: "lmstudio", Err: context.DeadlineExceeded}
		services := newTestServices(t, "text", mock)
		rec := post(t, services, nil)

		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected 504, got %d", rec.Code)
		}
	})

	t.Run("upstream connection failure maps to 502", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ShouldFail = true
		mock.FailWith = &providers.UpstreamConnectionError{Provider: "lmstudio", Err: context.Canceled}
		services := newTestServices(t, "text", mock)
		rec := post(t, services, nil)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("malformed json output maps to 500 with raw text", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "이건 JSON이 아닙니다"
		services := newTestServices(t, "text", mock)
		rec := post(t, services, map[string]string{"format": "json"})

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeJSON[malformedOutputResponse](t, rec)
		if resp.Raw != mock.ResponseText {
			t.Errorf("expected raw model text, got %q", resp.Raw)
		}
	})
}

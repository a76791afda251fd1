package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"github.com/mikey/netsereno/internal/report"
	"github.com/mikey/netsereno/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const invoiceReply = `{"score": 85, "verdict": "PELIGROSO", "summary": "Urgent payment request", "reasons": ["urgency", "unknown sender"]}`

type testServer struct {
	*Server
	calls *int32
}

func newTestServer(t *testing.T, reply string, maxUpload int64) testServer {
	t.Helper()
	logger := zap.NewNop()
	tp := utils.NewTextProcessor(logger)

	var calls int32
	gen := core.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return reply, nil
	})

	tpl, err := core.LookupPromptTemplate("es")
	require.NoError(t, err)
	service := core.NewAnalysisService(
		core.NewNormalizer(logger, tp),
		core.NewAssessor(gen, tpl, logger, tp),
		logger,
	)

	renderer, err := report.NewRenderer("NetSereno", "es", logger)
	require.NoError(t, err)

	srv := NewServer(service, renderer, config.ServerConfig{
		ListenAddress:   "127.0.0.1:0",
		Mode:            gin.TestMode,
		AnalysisTimeout: 5 * time.Second,
		ShutdownTimeout: time.Second,
		MaxUploadBytes:  maxUpload,
	}, logger)

	return testServer{Server: srv, calls: &calls}
}

func (ts testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func (ts testServer) generatorCalls() int {
	return int(atomic.LoadInt32(ts.calls))
}

func multipartRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" || content != nil {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["error"]
}

func TestAnalyze(t *testing.T) {
	eml := []byte("From: billing@example.com\r\nSubject: Invoice Due\r\n\r\nPay now")

	t.Run("Should analyze an uploaded mail container", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		w := ts.do(multipartRequest(t, "invoice.eml", eml, nil))

		require.Equal(t, http.StatusOK, w.Code)
		var analysis core.Analysis
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
		assert.Equal(t, core.EmailRecord{Subject: "Invoice Due", Sender: "billing@example.com", Body: "Pay now"}, analysis.Meta)
		assert.Equal(t, core.AssessmentRecord{
			Score:   85,
			Verdict: "PELIGROSO",
			Summary: "Urgent payment request",
			Reasons: []string{"urgency", "unknown sender"},
		}, analysis.Analysis)
		assert.Equal(t, 1, ts.generatorCalls())
		assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	})

	t.Run("Should analyze pasted text from a urlencoded form", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		form := url.Values{"text_content": {"Su cuenta ha sido bloqueada"}}
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := ts.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		var analysis core.Analysis
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
		assert.Equal(t, core.SubjectManual, analysis.Meta.Subject)
		assert.Equal(t, core.SenderManual, analysis.Meta.Sender)
		assert.Equal(t, "Su cuenta ha sido bloqueada", analysis.Meta.Body)
	})

	t.Run("Should prefer the file over pasted text", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		w := ts.do(multipartRequest(t, "invoice.eml", eml, map[string]string{"text_content": "ignored"}))

		require.Equal(t, http.StatusOK, w.Code)
		var analysis core.Analysis
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
		assert.Equal(t, "Invoice Due", analysis.Meta.Subject)
	})

	t.Run("Should reject a request without content before analysis", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		w := ts.do(httptest.NewRequest(http.MethodPost, "/analyze", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errNoContent, decodeError(t, w))
		assert.Equal(t, 0, ts.generatorCalls())
	})

	t.Run("Should reject blank text and unnamed files", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		w := ts.do(multipartRequest(t, "", []byte{}, map[string]string{"text_content": "   \n"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errNoContent, decodeError(t, w))
		assert.Equal(t, 0, ts.generatorCalls())
	})

	t.Run("Should reject unsupported files without contacting the service", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		w := ts.do(multipartRequest(t, "factura.pdf", []byte("%PDF-1.4"), nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errUnsupportedFile, decodeError(t, w))
		assert.Equal(t, 0, ts.generatorCalls())
	})

	t.Run("Should reject oversized uploads", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1024)

		w := ts.do(multipartRequest(t, "big.txt", bytes.Repeat([]byte("a"), 4096), nil))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, 0, ts.generatorCalls())
	})

	t.Run("Should return an error record when the reply is unusable", func(t *testing.T) {
		ts := newTestServer(t, "not json at all", 1<<20)

		w := ts.do(multipartRequest(t, "invoice.eml", eml, nil))

		require.Equal(t, http.StatusOK, w.Code)
		var analysis core.Analysis
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
		assert.Equal(t, core.VerdictError, analysis.Analysis.Verdict)
		assert.Equal(t, 0, analysis.Analysis.Score)
		assert.NotEmpty(t, analysis.Analysis.Reasons)
	})
}

func TestDownloadReport(t *testing.T) {
	post := func(ts testServer, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/download_report", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return ts.do(req)
	}

	t.Run("Should return a PDF attachment", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		w := post(ts, invoiceReply)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="NetSereno_Report.pdf"`, w.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("Should accept a zero score and no reasons", func(t *testing.T) {
		ts := newTestServer(t, invoiceReply, 1<<20)

		w := post(ts, `{"score": 0, "verdict": "ERROR", "summary": "failed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	invalid := map[string]string{
		"missing score":   `{"verdict": "SAFE"}`,
		"missing verdict": `{"score": 10}`,
		"score too high":  `{"score": 150, "verdict": "SAFE"}`,
		"negative score":  `{"score": -1, "verdict": "SAFE"}`,
		"not json":        `verdict=SAFE`,
	}
	for name, body := range invalid {
		t.Run("Should reject "+name, func(t *testing.T) {
			ts := newTestServer(t, invoiceReply, 1<<20)

			w := post(ts, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuxiliaryRoutes(t *testing.T) {
	ts := newTestServer(t, invoiceReply, 1<<20)

	t.Run("Should serve the upload page", func(t *testing.T) {
		w := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), `name="text_content"`)
	})

	t.Run("Should report health", func(t *testing.T) {
		w := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
	})

	t.Run("Should expose metrics", func(t *testing.T) {
		w := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "netsereno_http_request_duration_seconds")
	})

	t.Run("Should keep a caller supplied request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "abc-123")

		w := ts.do(req)

		assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	})
}

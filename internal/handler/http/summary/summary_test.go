package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/domain/entity"
	"doc-summarizer/internal/handler/http/respond"
	"doc-summarizer/internal/resilience/circuitbreaker"
	"doc-summarizer/internal/usecase/summarize"
)

type call struct {
	words     int
	maxLength int
	minLength int
}

// recordingSummarizer answers with the first maxLength words of its input.
type recordingSummarizer struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (s *recordingSummarizer) Summarize(_ context.Context, text string, maxLength, minLength int) (string, error) {
	words := strings.Fields(text)
	s.mu.Lock()
	s.calls = append(s.calls, call{words: len(words), maxLength: maxLength, minLength: minLength})
	s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	if len(words) > maxLength {
		words = words[:maxLength]
	}
	return strings.Join(words, " "), nil
}

func newService(s *recordingSummarizer) *summarize.Service {
	return summarize.NewService(s, config.DefaultReductionConfig())
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func postJSON(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, "/summaries", &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var body respond.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

/* ───────── POST /summaries ───────── */

func TestCreateHandler_ShortDocument(t *testing.T) {
	fake := &recordingSummarizer{}
	h := CreateHandler{Svc: newService(fake)}

	rr := postJSON(t, h, CreateRequest{Text: words(300)})

	require.Equal(t, http.StatusOK, rr.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 300, resp.OriginalWords)
	assert.Equal(t, 150, resp.SummaryWords)
	require.NotNil(t, resp.CompressionPercent)
	assert.Equal(t, 50, *resp.CompressionPercent)
	assert.Equal(t, 0, resp.Chunks)
	assert.False(t, resp.Recombined)
	assert.Equal(t, 1, resp.SummarizerCalls)
	assert.Equal(t, []call{{words: 300, maxLength: 150, minLength: 50}}, fake.calls)
}

func TestCreateHandler_LongDocumentRecombines(t *testing.T) {
	fake := &recordingSummarizer{}
	h := CreateHandler{Svc: newService(fake)}

	rr := postJSON(t, h, CreateRequest{Text: words(1200)})

	require.Equal(t, http.StatusOK, rr.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Chunks)
	assert.True(t, resp.Recombined)
	assert.Equal(t, 4, resp.SummarizerCalls)
	assert.Equal(t, 150, resp.SummaryWords)
	assert.Equal(t, call{words: 300, maxLength: 150, minLength: 50}, fake.calls[3])
}

func TestCreateHandler_OptionOverrides(t *testing.T) {
	fake := &recordingSummarizer{}
	h := CreateHandler{Svc: newService(fake)}
	chunk, short := 100, 100

	rr := postJSON(t, h, CreateRequest{
		Text:    words(250),
		Options: &Options{MaxWordsPerChunk: &chunk, ShortThreshold: &short},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Chunks)
	assert.Equal(t, 100, fake.calls[0].maxLength)
}

func TestCreateHandler_ClientErrors(t *testing.T) {
	tooSmall := 10
	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
	}{
		{name: "empty body", body: "", wantCode: http.StatusBadRequest, wantErr: CodeInvalidRequest},
		{name: "malformed json", body: `{"text": `, wantCode: http.StatusBadRequest, wantErr: CodeInvalidRequest},
		{name: "empty text", body: CreateRequest{Text: ""}, wantCode: http.StatusBadRequest, wantErr: CodeEmptyInput},
		{name: "whitespace text", body: CreateRequest{Text: " \n\t "}, wantCode: http.StatusBadRequest, wantErr: CodeEmptyInput},
		{name: "invalid utf-8", body: "{\"text\":\"caf\xe9 au lait\"}", wantCode: http.StatusBadRequest, wantErr: CodeInvalidEncoding},
		{name: "unpaired surrogate escape", body: `{"text":"caf\ud800 au lait"}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidEncoding},
		{
			name:     "invalid options",
			body:     CreateRequest{Text: "hello", Options: &Options{FinalMaxLength: &tooSmall}},
			wantCode: http.StatusBadRequest,
			wantErr:  CodeInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &recordingSummarizer{}
			h := CreateHandler{Svc: newService(fake)}

			rr := postJSON(t, h, tt.body)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, rr).Code)
			assert.Empty(t, fake.calls)
		})
	}
}

func TestCreateHandler_ReplacementCharacterSentByClient(t *testing.T) {
	for _, body := range []string{
		"{\"text\":\"broken \uFFFD glyph\"}",
		`{"text":"broken \ufffd glyph"}`,
	} {
		fake := &recordingSummarizer{}
		h := CreateHandler{Svc: newService(fake)}

		rr := postJSON(t, h, body)

		assert.Equal(t, http.StatusOK, rr.Code, body)
		assert.Len(t, fake.calls, 1)
	}
}

func TestReplacedRune(t *testing.T) {
	assert.Equal(t, -1, replacedRune(`{"text":"plain"}`, "plain"))
	assert.Equal(t, 3, replacedRune(`{"text":"caf\ud800"}`, "caf\uFFFD"))
	assert.Equal(t, -1, replacedRune(`{"text":"caf\uFFFD"}`, "caf\uFFFD"))
	assert.Equal(t, -1, replacedRune("{\"text\":\"caf\uFFFD\"}", "caf\uFFFD"))
}

func TestCreateHandler_SummarizerFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		text     string
		wantCode int
		wantErr  string
		wantMsg  string
	}{
		{
			name:     "chunk failure",
			err:      errors.New("upstream exploded"),
			text:     words(900),
			wantCode: http.StatusBadGateway,
			wantErr:  CodeSummarizationFailed,
			wantMsg:  "summarization failed at chunk 1 of 3",
		},
		{
			name:     "circuit open",
			err:      circuitbreaker.ErrOpen,
			text:     words(10),
			wantCode: http.StatusServiceUnavailable,
			wantErr:  CodeSummarizerUnavailable,
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			text:     words(10),
			wantCode: http.StatusGatewayTimeout,
			wantErr:  CodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CreateHandler{Svc: newService(&recordingSummarizer{err: tt.err})}

			rr := postJSON(t, h, CreateRequest{Text: tt.text})

			assert.Equal(t, tt.wantCode, rr.Code)
			body := decodeError(t, rr)
			assert.Equal(t, tt.wantErr, body.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error)
			}
			assert.NotContains(t, body.Error, "upstream exploded")
		})
	}
}

/* ───────── POST /summaries/upload ───────── */

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/summaries/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newUploadHandler(fake *recordingSummarizer) UploadHandler {
	return UploadHandler{
		Svc:               newService(fake),
		AllowedExtensions: []string{".txt"},
		MaxBytes:          1 << 20,
	}
}

func TestUploadHandler_Success(t *testing.T) {
	fake := &recordingSummarizer{}
	h := newUploadHandler(fake)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, "notes.TXT", []byte(words(500)), map[string]string{
		"recombine_threshold": "50",
	}))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "notes.TXT", resp.Filename)
	assert.Equal(t, 500, resp.OriginalWords)
	assert.Equal(t, 2, resp.Chunks)
	assert.True(t, resp.Recombined)
	assert.Equal(t, 3, resp.SummarizerCalls)
}

func TestUploadHandler_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		maxBytes int64
		wantCode int
		wantErr  string
	}{
		{name: "missing file", wantCode: http.StatusBadRequest, wantErr: CodeInvalidRequest},
		{
			name:     "wrong extension",
			filename: "report.pdf",
			content:  []byte("%PDF"),
			wantCode: http.StatusUnsupportedMediaType,
			wantErr:  CodeUnsupportedFileType,
		},
		{
			name:     "invalid utf-8",
			filename: "bad.txt",
			content:  []byte{'o', 'k', ' ', 0xff, 0xfe},
			wantCode: http.StatusBadRequest,
			wantErr:  CodeInvalidEncoding,
		},
		{
			name:     "empty file",
			filename: "empty.txt",
			content:  []byte("   \n"),
			wantCode: http.StatusBadRequest,
			wantErr:  CodeEmptyInput,
		},
		{
			name:     "too large",
			filename: "big.txt",
			content:  []byte(words(100)),
			maxBytes: 64,
			wantCode: http.StatusRequestEntityTooLarge,
			wantErr:  CodeBodyTooLarge,
		},
		{
			name:     "non-numeric option",
			filename: "ok.txt",
			content:  []byte("hello"),
			fields:   map[string]string{"chunk_max_length": "lots"},
			wantCode: http.StatusBadRequest,
			wantErr:  CodeInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &recordingSummarizer{}
			h := newUploadHandler(fake)
			if tt.maxBytes > 0 {
				h.MaxBytes = tt.maxBytes
			}

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, uploadRequest(t, tt.filename, tt.content, tt.fields))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, rr).Code)
			assert.Empty(t, fake.calls)
		})
	}
}

/* ───────── Options ───────── */

func TestOptions_Apply(t *testing.T) {
	base := config.DefaultReductionConfig()

	got, err := (*Options)(nil).Apply(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	chunkMax := 120
	got, err = (&Options{ChunkMaxLength: &chunkMax}).Apply(base)
	require.NoError(t, err)
	assert.Equal(t, 120, got.ChunkMaxLength)
	assert.Equal(t, base.FinalMaxLength, got.FinalMaxLength)

	chunkMin := 500
	_, err = (&Options{ChunkMinLength: &chunkMin}).Apply(base)
	require.Error(t, err)
	var valErr *entity.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "options", valErr.Field)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "summarization failed while recombining chunk summaries",
		failureMessage(&summarize.SummarizationError{Stage: summarize.StageRecombine, Chunk: -1, Chunks: 4}))
	assert.Equal(t, "summarization failed",
		failureMessage(&summarize.SummarizationError{Stage: summarize.StageDirect, Chunk: -1}))
}

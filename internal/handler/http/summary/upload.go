package summary

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"doc-summarizer/internal/handler/http/respond"
	"doc-summarizer/internal/usecase/summarize"
)

// UploadHandler summarizes an uploaded plain-text file.
// The file is read from the multipart field "file"; option overrides may be
// sent as additional form fields named like the JSON options.
type UploadHandler struct {
	Svc               Service
	AllowedExtensions []string
	MaxBytes          int64
}

// ServeHTTP ファイル要約
// @Summary      Summarize an uploaded text file
// @Tags         summaries
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "UTF-8 encoded .txt file"
// @Success      200 {object} Response
// @Failure      400 {object} respond.ErrorBody "Missing file, invalid UTF-8 or empty text"
// @Failure      413 {object} respond.ErrorBody "File too large"
// @Failure      415 {object} respond.ErrorBody "Unsupported file type"
// @Failure      502 {object} respond.ErrorBody "Summarizer failed"
// @Router       /summaries/upload [post]
func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(min(h.MaxBytes, 32<<20)); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Fail(w, r, toAppError(err))
			return
		}
		respond.Fail(w, r, respond.NewAppError(http.StatusBadRequest, CodeInvalidRequest, "invalid multipart form", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Fail(w, r, respond.NewAppError(http.StatusBadRequest, CodeInvalidRequest, "file is required", err))
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(h.AllowedExtensions, ext) {
		respond.Fail(w, r, respond.NewAppError(http.StatusUnsupportedMediaType, CodeUnsupportedFileType,
			fmt.Sprintf("unsupported file type %q: allowed %s", ext, strings.Join(h.AllowedExtensions, ", ")), nil))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.MaxBytes+1))
	if err != nil {
		respond.Fail(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	if int64(len(data)) > h.MaxBytes {
		respond.Fail(w, r, toAppError(&http.MaxBytesError{Limit: h.MaxBytes}))
		return
	}

	text, err := summarize.DecodeText(data)
	if err != nil {
		respond.Fail(w, r, toAppError(err))
		return
	}

	opts, err := optionsFromForm(r.MultipartForm.Value)
	if err != nil {
		respond.Fail(w, r, toAppError(err))
		return
	}
	cfg, err := opts.Apply(h.Svc.Config())
	if err != nil {
		respond.Fail(w, r, toAppError(err))
		return
	}

	res, err := h.Svc.Summarize(r.Context(), text, summarizeOptions(r, cfg)...)
	if err != nil {
		respond.Fail(w, r, toAppError(err))
		return
	}

	resp := toResponse(res)
	resp.Filename = filepath.Base(header.Filename)
	respond.JSON(w, http.StatusOK, resp)
}

package http

import (
	"mime"
	"net/http"

	"doc-summarizer/internal/handler/http/respond"
)

// InputValidation returns middleware that rejects malformed requests before they
// reach a handler. It enforces:
//   - URI path length (2KB)
//   - a JSON or multipart Content-Type on requests with a body
func InputValidation() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > 2048 {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "URI too long"})
				return
			}

			if r.Method == http.MethodPost || r.Method == http.MethodPut {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || !acceptedMediaType(mediaType) {
					respond.JSON(w, http.StatusUnsupportedMediaType, respond.ErrorBody{
						Error: "content type must be application/json or multipart/form-data",
						Code:  "unsupported_media_type",
					})
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func acceptedMediaType(mediaType string) bool {
	return mediaType == "application/json" || mediaType == "multipart/form-data"
}

package rest

import "net/http"

// NewRouter assembles the API routes. Method patterns need Go 1.22+.
// Middleware (request id, logging, recovery, CORS, auth) wraps the returned
// mux at the app layer.
func NewRouter(memes *MemeHandler, tags *TagHandler, uploads *UploadHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/memes", memes.Create)
	mux.HandleFunc("GET /api/memes", memes.Feed)
	mux.HandleFunc("GET /api/memes/dashboard", memes.Dashboard)
	mux.HandleFunc("PATCH /api/memes/{id}", memes.Update)
	mux.HandleFunc("DELETE /api/memes/{id}", memes.Delete)
	mux.HandleFunc("POST /api/memes/bulk-delete", memes.BulkDelete)
	mux.HandleFunc("POST /api/memes/bulk-tag", memes.BulkTag)

	mux.HandleFunc("GET /api/tags", tags.List)
	mux.HandleFunc("GET /api/upload-url", uploads.Get)

	mux.HandleFunc("GET /healthz", health.Live)
	mux.HandleFunc("GET /readyz", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	return mux
}

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/logging"

	"github.com/go-chi/chi/v5"
)

// DownloadFile handles GET /files/{token}. The token alone authorizes the
// download; it is issued by the policy and resume link endpoints and expires
// after the configured ttl.
func (h *Handlers) DownloadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		log := logging.FromContext(r.Context())

		signed, err := h.deps.Services.URLSigner.ValidateToken(chi.URLParam(r, "token"))
		if err != nil {
			log.Infow("rejected file token", "error", err)
			respondUnauthorized(w, initTime)
			return
		}

		f, err := h.deps.Services.Files.Open(r.Context(), signed.Path)
		if errors.Is(err, common.ErrFileNotFound) {
			common.RespondError(w, initTime, constants.MsgNotFound, http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorw("failed to open file", "path", signed.Path, "error", err)
			common.RespondError(w, initTime, constants.MsgInternal, http.StatusInternalServerError)
			return
		}
		defer f.Close()

		contentType := mime.TypeByExtension(path.Ext(signed.Path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `inline; filename="`+path.Base(signed.Path)+`"`)
		w.Header().Set("Cache-Control", "private, no-store")
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, f); err != nil {
			log.Warnw("file download interrupted", "path", signed.Path, "user_id", signed.UserID, "error", err)
		}
	}
}

package upload

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/princekumarofficial/upload-service/internal/config"
	"github.com/princekumarofficial/upload-service/internal/http/middleware"
	"github.com/princekumarofficial/upload-service/internal/upload"
	"github.com/princekumarofficial/upload-service/internal/utils/response"
)

// PostUpload handles a single-file upload form submission
// @Summary Upload a file
// @Description Validates the declared media type and size of the "file" field and stores it in the upload directory.
// @Description The default response is the HTML fragment of the outcome; send Accept: application/json for the JSON envelope.
// @Tags uploads
// @Accept multipart/form-data
// @Produce html,json
// @Param file formData file true "File to upload"
// @Success 200 {string} string "Outcome fragment"
// @Success 201 {object} response.Response "Stored"
// @Success 204 "No file field in the request"
// @Failure 400 {object} response.Response "Rejected or transfer failed"
// @Failure 409 {object} response.Response "File already exists"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /upload [post]
func PostUpload(uploads *upload.Handler, cfg config.Upload) http.HandlerFunc {
	opts := receiveOptions{
		field:    cfg.FieldName,
		maxBytes: cfg.MaxRequestBytes,
		tempDir:  cfg.TempDir,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		attempt, cleanup := receiveAttempt(r, opts)
		defer cleanup()

		if attempt != nil {
			attempt.Origin = originFromRequest(r)
		}

		outcome, err := uploads.Handle(r.Context(), attempt)
		if err != nil {
			slog.Error("failed to handle upload",
				slog.String("request_id", requestID(r)),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to store upload")))
			return
		}

		if outcome == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !response.WantsJSON(r) {
			response.WriteHTML(w, http.StatusOK, outcome.HTML())
			return
		}

		switch outcome.Kind {
		case upload.OutcomeStored:
			response.WriteJSON(w, http.StatusCreated, response.RequestOK(outcome.String(), outcome))
		case upload.OutcomeAlreadyExists:
			response.WriteJSON(w, http.StatusConflict, response.OutcomeError(outcome.String(), outcome))
		default:
			response.WriteJSON(w, http.StatusBadRequest, response.OutcomeError(outcome.String(), outcome))
		}
	}
}

func originFromRequest(r *http.Request) upload.Origin {
	clientAddr, ok := middleware.GetClientAddrFromContext(r.Context())
	if !ok {
		clientAddr = middleware.ClientAddr(r)
	}

	return upload.Origin{
		RequestID:  requestID(r),
		ClientAddr: clientAddr,
		ReceivedAt: time.Now(),
	}
}

func requestID(r *http.Request) string {
	id, _ := middleware.GetRequestIDFromContext(r.Context())
	return id
}

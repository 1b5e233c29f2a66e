package uploads

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/upload-service/internal/http/middleware"
	"github.com/princekumarofficial/upload-service/internal/storage"
	"github.com/princekumarofficial/upload-service/internal/types"
	"github.com/princekumarofficial/upload-service/internal/utils/response"
)

const DefaultLimit = 50

// ListUploads returns the most recent ledger records
// @Summary List recorded uploads
// @Description Lists stored uploads from the ledger, newest first. Status accepts a comma separated list.
// @Tags uploads
// @Produce json
// @Param limit query int false "Maximum number of records (1-500)" default(50)
// @Param status query string false "Status filter: stored, missing"
// @Success 200 {object} response.Response "Uploads fetched successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /uploads [get]
func ListUploads(ledger storage.Ledger) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseListQuery(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validate.Struct(query); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		records, err := ledger.ListUploads(r.Context(), query.Status, query.Limit)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		if records == nil {
			records = []types.UploadRecord{}
		}

		subject, _ := middleware.GetSubjectFromContext(r.Context())
		slog.Debug("ledger listed",
			slog.String("subject", subject),
			slog.Int("limit", query.Limit),
			slog.Int("records", len(records)))

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Uploads fetched successfully", records))
	}
}

func parseListQuery(r *http.Request) (types.UploadListQuery, error) {
	q := types.UploadListQuery{Limit: DefaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("limit must be an integer")
		}
		q.Limit = limit
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			q.Status = append(q.Status, types.UploadStatus(strings.TrimSpace(s)))
		}
	}

	return q, nil
}

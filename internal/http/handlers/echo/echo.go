package echo

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/princekumarofficial/upload-service/internal/types"
	"github.com/princekumarofficial/upload-service/internal/utils/response"
)

const (
	maxRequestBytes = 8 << 20
	maxMemoryBytes  = 1 << 20
)

// Echo reports the details of the incoming request
// @Summary Echo request details
// @Description Returns the method, URL, query and form values, file part headers, raw body and request headers.
// @Tags diagnostics
// @Produce plain,json
// @Success 200 {object} types.RequestDetails "Request details"
// @Failure 400 {object} response.Response "Unreadable body"
// @Failure 413 {object} response.Response "Body too large"
// @Router /echo [get]
// @Router /echo [post]
func Echo() http.HandlerFunc {
	return echoWithLimit(maxRequestBytes)
}

func echoWithLimit(limit int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}

		details, err := collect(r)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.GeneralError(
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)))
			return
		} else if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if response.WantsJSON(r) {
			response.WriteJSON(w, http.StatusOK, details)
			return
		}

		response.WriteText(w, http.StatusOK, render(details))
	}
}

func collect(r *http.Request) (*types.RequestDetails, error) {
	details := &types.RequestDetails{
		Method:     r.Method,
		URL:        r.URL.RequestURI(),
		Protocol:   r.Proto,
		Host:       r.Host,
		Query:      r.URL.Query(),
		Headers:    r.Header.Clone(),
		RemoteAddr: r.RemoteAddr,
		Timestamp:  time.Now().Unix(),
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
			return nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		details.Form = r.MultipartForm.Value
		for field, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				details.Files = append(details.Files, types.FileDetails{
					Field:     field,
					Name:      fh.Filename,
					MediaType: fh.Header.Get("Content-Type"),
					Size:      fh.Size,
				})
			}
		}
		sort.Slice(details.Files, func(i, j int) bool {
			return details.Files[i].Field < details.Files[j].Field
		})
		return details, nil
	}

	if r.Body == nil {
		return details, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	details.Body = string(body)

	if mediaType == "application/x-www-form-urlencoded" {
		form, err := url.ParseQuery(details.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse form: %w", err)
		}
		details.Form = form
	}

	return details, nil
}

func render(d *types.RequestDetails) string {
	var b strings.Builder

	fmt.Fprintf(&b, "method -> %s\n", d.Method)
	fmt.Fprintf(&b, "url -> %s\n", d.URL)
	fmt.Fprintf(&b, "protocol -> %s\n", d.Protocol)
	fmt.Fprintf(&b, "host -> %s\n", d.Host)

	writeValues(&b, "query", d.Query)
	writeValues(&b, "form", d.Form)

	if len(d.Files) > 0 {
		b.WriteString("files:\n")
		for _, f := range d.Files {
			fmt.Fprintf(&b, "  %s -> %s (%s, %d bytes)\n", f.Field, f.Name, f.MediaType, f.Size)
		}
	}

	if d.Body != "" {
		fmt.Fprintf(&b, "body:\n%s\n", d.Body)
	}

	writeValues(&b, "headers", d.Headers)

	fmt.Fprintf(&b, "remote_addr -> %s\n", d.RemoteAddr)
	fmt.Fprintf(&b, "%d  client request details\n", d.Timestamp)

	return b.String()
}

func writeValues(b *strings.Builder, title string, values map[string][]string) {
	if len(values) == 0 {
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s -> %s\n", k, strings.Join(values[k], ", "))
	}
}

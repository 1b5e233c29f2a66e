package echo

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/princekumarofficial/upload-service/internal/types"
)

func TestEcho_TextDump(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/echo?b=2&a=1", strings.NewReader("name=value"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Trace", "abc")
	rr := httptest.NewRecorder()

	Echo().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"method -> POST\n",
		"url -> /echo?b=2&a=1\n",
		"query:\n  a -> 1\n  b -> 2\n",
		"form:\n  name -> value\n",
		"body:\nname=value\n",
		"  X-Trace -> abc\n",
		"client request details\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, body)
		}
	}
}

func TestEcho_MultipartJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	mw.WriteField("caption", "holiday")
	fw, _ := mw.CreateFormFile("file", "a.png")
	fw.Write([]byte("12345"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/echo", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()

	Echo().ServeHTTP(rr, req)

	var details types.RequestDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &details); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if got := details.Form["caption"]; len(got) != 1 || got[0] != "holiday" {
		t.Errorf("Expected caption form value, got %v", got)
	}
	if len(details.Files) != 1 {
		t.Fatalf("Expected one file, got %d", len(details.Files))
	}
	f := details.Files[0]
	if f.Field != "file" || f.Name != "a.png" || f.Size != 5 {
		t.Errorf("Unexpected file details %+v", f)
	}
	if details.Body != "" {
		t.Errorf("Expected multipart body not to be echoed, got %q", details.Body)
	}
	if details.Timestamp == 0 {
		t.Error("Expected timestamp to be set")
	}
}

func TestEcho_GetHasNoBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	rr := httptest.NewRecorder()

	Echo().ServeHTTP(rr, req)

	if strings.Contains(rr.Body.String(), "body:") {
		t.Errorf("Expected no body section, got:\n%s", rr.Body.String())
	}
}

func TestEcho_BodyOverLimit(t *testing.T) {
	h := echoWithLimit(64)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("a", 128)))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413 for raw body, got %d", rr.Code)
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, _ := mw.CreateFormFile("file", "big.png")
	fw.Write(bytes.Repeat([]byte("p"), 1024))
	mw.Close()

	req = httptest.NewRequest(http.MethodPost, "/echo", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge && rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected multipart body over the limit to be refused, got %d", rr.Code)
	}
}

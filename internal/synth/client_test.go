package synth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSynthesizeSendsExpectedRequest(t *testing.T) {
	var got request
	var gotPath, gotMethod, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body is not valid JSON: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, WithVoice("zf_xiaoxiao"), WithLangCode("z"))
	audio, err := c.Synthesize(context.Background(), "你好", 0.7)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q, want %q", audio, "mp3-bytes")
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/v1/audio/speech" {
		t.Errorf("path = %s, want /v1/audio/speech", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %s, want application/json", gotContentType)
	}

	if got.Model != "kokoro" {
		t.Errorf("model = %q, want kokoro", got.Model)
	}
	if got.Input != "你好" {
		t.Errorf("input = %q, want 你好", got.Input)
	}
	if got.Voice != "zf_xiaoxiao" {
		t.Errorf("voice = %q, want zf_xiaoxiao", got.Voice)
	}
	if got.LangCode != "z" {
		t.Errorf("lang_code = %q, want z", got.LangCode)
	}
	if got.Speed != 0.7 {
		t.Errorf("speed = %v, want 0.7", got.Speed)
	}
	if got.ResponseFormat != "mp3" || got.DownloadFormat != "mp3" {
		t.Errorf("formats = %q/%q, want mp3/mp3", got.ResponseFormat, got.DownloadFormat)
	}
	if got.Stream || got.ReturnDownloadLink {
		t.Error("stream and return_download_link must be false")
	}
	if !got.Normalization.Normalize || got.Normalization.UnitNormalization {
		t.Errorf("unexpected normalization flags: %+v", got.Normalization)
	}
}

func TestSynthesizeArgumentValidation(t *testing.T) {
	c := New("http://localhost:1") // never reached

	if _, err := c.Synthesize(context.Background(), "  ", 1.0); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text: err = %v, want ErrEmptyText", err)
	}
	if _, err := c.Synthesize(context.Background(), "hi", 0); !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("zero speed: err = %v, want ErrInvalidSpeed", err)
	}
	if _, err := c.Synthesize(context.Background(), "hi", -0.5); !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("negative speed: err = %v, want ErrInvalidSpeed", err)
	}
}

func TestSynthesizeServiceError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", http.StatusInternalServerError, `{"detail":"model not loaded"}`, "model not loaded"},
		{"object detail", http.StatusUnprocessableEntity, `{"detail":{"msg":"bad voice"}}`, `{"msg":"bad voice"}`},
		{"plain body", http.StatusBadGateway, "upstream died", "upstream died"},
		{"empty body", http.StatusServiceUnavailable, "", "no detail provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body) //nolint:errcheck
			}))
			defer srv.Close()

			_, err := New(srv.URL).Synthesize(context.Background(), "hi", 1.0)
			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatalf("err = %v, want *ServiceError", err)
			}
			if svcErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", svcErr.StatusCode, tt.status)
			}
			if svcErr.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", svcErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestSynthesizeContentTypePolicy(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantOK      bool
	}{
		{"mpeg", "audio/mpeg", true},
		{"mpeg with params", "audio/mpeg; charset=utf-8", true},
		{"octet stream", "application/octet-stream", true},
		{"missing header", "", true},
		{"html", "text/html", false},
		{"json", "application/json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				} else {
					// Suppress the detection Go would otherwise do.
					w.Header()["Content-Type"] = nil
				}
				w.Write([]byte("data")) //nolint:errcheck
			}))
			defer srv.Close()

			_, err := New(srv.URL).Synthesize(context.Background(), "hi", 1.0)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("err = %v, want nil", err)
				}
				return
			}
			var fmtErr *FormatError
			if !errors.As(err, &fmtErr) {
				t.Fatalf("err = %v, want *FormatError", err)
			}
			if fmtErr.ContentType != tt.contentType {
				t.Errorf("content type = %q, want %q", fmtErr.ContentType, tt.contentType)
			}
		})
	}
}

func TestSynthesizeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL).Synthesize(context.Background(), "hi", 1.0)
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}

func TestSynthesizeContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).Synthesize(ctx, "hi", 1.0)
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}

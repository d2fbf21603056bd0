// Package synth provides an HTTP client for Kokoro-compatible speech
// synthesis services. The client is a thin, stateless wrapper around the
// /v1/audio/speech endpoint: it sends text plus voice parameters and hands
// back raw MP3 bytes or a typed failure. Retry policy belongs to callers.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const speechPath = "/v1/audio/speech"

// Defaults match a locally hosted Kokoro server with a Mandarin voice.
const (
	DefaultBaseURL = "http://localhost:8880"
	DefaultVoice   = "zf_xiaoxiao"
	DefaultLang    = "z"
	DefaultModel   = "kokoro"

	defaultTimeout = 60 * time.Second

	// Cap on how much of an error response body is read for the detail.
	maxErrorBody = 4 << 10
)

// Argument errors, returned before any request goes out.
var (
	ErrEmptyText    = errors.New("synth: text is empty")
	ErrInvalidSpeed = errors.New("synth: speed must be greater than zero")
)

// TransportError wraps network-level failures, including timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("synth: transport: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError is a non-success response from the synthesis service.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("synth: service returned %d: %s", e.StatusCode, e.Detail)
}

// FormatError is a success response whose content type is not recognized
// audio.
type FormatError struct {
	ContentType string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("synth: unexpected response content type %q", e.ContentType)
}

// request is the speech endpoint payload. The normalization flags are fixed;
// the server applies them before synthesis.
type request struct {
	Model              string        `json:"model"`
	Input              string        `json:"input"`
	Voice              string        `json:"voice"`
	ResponseFormat     string        `json:"response_format"`
	DownloadFormat     string        `json:"download_format"`
	Speed              float64       `json:"speed"`
	Stream             bool          `json:"stream"`
	ReturnDownloadLink bool          `json:"return_download_link"`
	LangCode           string        `json:"lang_code"`
	Normalization      normalization `json:"normalization_options"`
}

type normalization struct {
	Normalize                          bool `json:"normalize"`
	UnitNormalization                  bool `json:"unit_normalization"`
	URLNormalization                   bool `json:"url_normalization"`
	EmailNormalization                 bool `json:"email_normalization"`
	OptionalPluralizationNormalization bool `json:"optional_pluralization_normalization"`
	PhoneNormalization                 bool `json:"phone_normalization"`
}

func defaultNormalization() normalization {
	return normalization{
		Normalize:                          true,
		UnitNormalization:                  false,
		URLNormalization:                   true,
		EmailNormalization:                 true,
		OptionalPluralizationNormalization: true,
		PhoneNormalization:                 true,
	}
}

// Client calls a Kokoro-compatible TTS endpoint.
type Client struct {
	baseURL string
	voice   string
	lang    string
	model   string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithVoice sets the voice id sent with every request.
func WithVoice(voice string) Option {
	return func(c *Client) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// WithLangCode sets the language code sent with every request.
func WithLangCode(code string) Option {
	return func(c *Client) {
		if code != "" {
			c.lang = code
		}
	}
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPTimeout overrides the request timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// New returns a Client for the service at baseURL. An empty baseURL selects
// the local default.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		voice:   DefaultVoice,
		lang:    DefaultLang,
		model:   DefaultModel,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Voice returns the configured voice id.
func (c *Client) Voice() string { return c.voice }

// Synthesize converts text to MP3 audio at the given playback speed. It
// blocks until the service responds, the HTTP timeout fires, or ctx is done.
func (c *Client) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if speed <= 0 {
		return nil, ErrInvalidSpeed
	}

	payload := request{
		Model:          c.model,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: "mp3",
		DownloadFormat: "mp3",
		Speed:          speed,
		LangCode:       c.lang,
		Normalization:  defaultNormalization(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("synth: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("synth: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(resp.Body),
		}
	}

	if ct := resp.Header.Get("Content-Type"); !recognizedAudio(ct) {
		return nil, &FormatError{ContentType: ct}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return audio, nil
}

// errorDetail extracts the service's "detail" field from an error response,
// falling back to the raw body.
func errorDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return "no detail provided"
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(body))
}

// recognizedAudio reports whether a response content type is one the service
// is known to use for audio payloads. Some deployments omit the header
// entirely, which is accepted.
func recognizedAudio(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "audio/mpeg" || mt == "application/octet-stream"
}

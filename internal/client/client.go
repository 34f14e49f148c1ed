// Package client is the Go client for the lingomap service: an API
// client plus the map-view, submission-form, and recording components
// the terminal frontend is built from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lingomap/lingomap/internal/geo"
	"github.com/lingomap/lingomap/internal/services"
)

// ErrSubmissionFailed covers any non-2xx response to a submission POST.
// The caller may retry manually; nothing retries automatically.
var ErrSubmissionFailed = errors.New("submission failed")

type Client struct {
	base string
	http *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type apiMessage struct {
	Message string `json:"message"`
}

// Signup registers a new account. The server returns no token; sign in
// separately.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	var out apiMessage
	if err := c.postJSON(ctx, "/api/signup", map[string]string{"email": email, "password": password}, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

type SigninResponse struct {
	Result services.PublicUser `json:"result"`
	Token  string              `json:"token"`
}

func (c *Client) Signin(ctx context.Context, email, password string) (*SigninResponse, error) {
	var out SigninResponse
	if err := c.postJSON(ctx, "/api/signin", map[string]string{"email": email, "password": password}, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, wantStatus int, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		var msg apiMessage
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		if msg.Message == "" {
			msg.Message = resp.Status
		}
		return errors.New(msg.Message)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SubmissionRequest is the payload the submission form sends: the
// phrase, the selected country, and the optional finished recording.
type SubmissionRequest struct {
	Phrase    string
	Language  string
	Country   geo.Country
	Timestamp time.Time
	Audio     []byte
}

// Submit POSTs one submission as multipart form data. The audio part is
// attached as recording.wav only when a recording exists; the region
// field duplicates the country name, as the form has always sent it.
func (c *Client) Submit(ctx context.Context, sub *SubmissionRequest) (*services.Submission, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"phrase":      strings.TrimSpace(sub.Phrase),
		"language":    strings.TrimSpace(sub.Language),
		"country":     sub.Country.Name,
		"countryCode": sub.Country.Code,
		"region":      sub.Country.Name,
		"lat":         strconv.FormatFloat(sub.Country.Lat, 'f', -1, 64),
		"lng":         strconv.FormatFloat(sub.Country.Lng, 'f', -1, 64),
		"timestamp":   sub.Timestamp.UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if sub.Audio != nil {
		fw, err := mw.CreateFormFile("audio", "recording.wav")
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(sub.Audio); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/submissions", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSubmissionFailed, resp.StatusCode)
	}
	var stored services.Submission
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	return &stored, nil
}

// Submissions lists stored submissions for marker rendering.
func (c *Client) Submissions(ctx context.Context) ([]*services.Submission, error) {
	var out []*services.Submission
	if err := c.getJSON(ctx, "/api/submissions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Countries fetches the server's country index.
func (c *Client) Countries(ctx context.Context) ([]geo.Country, error) {
	var out []geo.Country
	if err := c.getJSON(ctx, "/api/countries", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

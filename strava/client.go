package strava

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// DefaultBaseURL is the Strava v3 API root.
const DefaultBaseURL = "https://www.strava.com/api/v3"

const defaultPollInterval = 2 * time.Second

// Client calls the Strava v3 API. HTTPClient should carry an authenticating
// transport (see NewHTTPClient).
type Client struct {
	HTTPClient *http.Client
	// BaseURL overrides the API root, for tests. Empty means DefaultBaseURL.
	BaseURL string
	// PollInterval is the delay between upload status polls. Zero means 2s.
	PollInterval time.Duration
}

func NewClient(httpClient *http.Client) *Client {
	return &Client{HTTPClient: httpClient}
}

// UploadOptions describes the activity being uploaded.
type UploadOptions struct {
	// DataType is Strava's format tag, e.g. "tcx.gz" or "fit".
	DataType    string
	Name        string
	Description string
	// ActivityType is Strava's legacy type string, e.g. "ride".
	ActivityType string
	ExternalID   string
	Trainer      bool
	Commute      bool
}

// Upload is Strava's view of one upload. ActivityID stays zero until
// processing finishes; Error is set when processing fails.
type Upload struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	ActivityID int64  `json:"activity_id"`
	Status     string `json:"status"`
	Error      string `json:"error"`
}

// Athlete is the authenticated athlete's identity.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// APIError is a non-2xx response from the Strava API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strava: api status %d: %s", e.StatusCode, e.Body)
}

// GzipBytes compresses data for a ".gz" upload data type.
func GzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadActivity posts one activity file as multipart form data and returns
// Strava's initial upload record. Processing is asynchronous; poll with
// UploadStatus or WaitForActivity.
func (c *Client) UploadActivity(ctx context.Context, file io.Reader, filename string, opts UploadOptions) (*Upload, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"data_type":     opts.DataType,
		"name":          opts.Name,
		"description":   opts.Description,
		"activity_type": opts.ActivityType,
		"external_id":   opts.ExternalID,
		"trainer":       boolField(opts.Trainer),
		"commute":       boolField(opts.Commute),
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/uploads", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var upload Upload
	if err := c.do(req, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

// UploadStatus fetches the current processing state of an upload.
func (c *Client) UploadStatus(ctx context.Context, uploadID int64) (*Upload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/uploads/"+strconv.FormatInt(uploadID, 10), nil)
	if err != nil {
		return nil, err
	}
	var upload Upload
	if err := c.do(req, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

// WaitForActivity polls an upload until Strava finishes processing it,
// returning the final record once an activity id is assigned. A processing
// error from Strava is returned as an error; cancellation is honored
// between polls.
func (c *Client) WaitForActivity(ctx context.Context, uploadID int64) (*Upload, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	for {
		upload, err := c.UploadStatus(ctx, uploadID)
		if err != nil {
			return nil, err
		}
		if upload.Error != "" {
			return nil, fmt.Errorf("strava: upload %d failed: %s", uploadID, upload.Error)
		}
		if upload.ActivityID != 0 {
			return upload, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Athlete fetches the authenticated athlete.
func (c *Client) Athlete(ctx context.Context) (*Athlete, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/athlete", nil)
	if err != nil {
		return nil, err
	}
	var athlete Athlete
	if err := c.do(req, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}

func (c *Client) do(req *http.Request, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("strava: decoding response: %w", err)
	}
	return nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return ""
}

// Package discord posts messages and files to Discord webhooks.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const userAgent = "candyctl (https://github.com/theballaam96/candyctl)"

// Boundary is the multipart boundary used for file uploads.
const Boundary = "xxxxxxxx"

// MaxAttachmentBytes is the largest file a webhook accepts.
const MaxAttachmentBytes = 25 * 1024 * 1024

// ErrNoWebhook is returned when a message is sent to an empty webhook URL.
var ErrNoWebhook = errors.New("no webhook URL configured")

// Client sends webhook requests.
type Client struct {
	http *http.Client
}

// New creates a client with a default timeout.
func New() *Client {
	return &Client{http: &http.Client{Timeout: 2 * time.Minute}}
}

// Execute posts msg as JSON. Messages with components are sent with
// wait=true&with_components=true so Discord renders the buttons.
func (c *Client) Execute(ctx context.Context, webhookURL string, msg Message) error {
	if webhookURL == "" {
		return ErrNoWebhook
	}
	target := webhookURL
	if len(msg.Components) > 0 {
		u, err := url.Parse(webhookURL)
		if err != nil {
			return fmt.Errorf("parse webhook URL: %w", err)
		}
		q := u.Query()
		q.Set("wait", "true")
		q.Set("with_components", "true")
		u.RawQuery = q.Encode()
		target = u.String()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode webhook message: %w", err)
	}
	return c.post(ctx, target, "application/json", body)
}

// Upload posts data as a single file attachment. An empty contentType is
// detected from the data.
func (c *Client) Upload(ctx context.Context, webhookURL, filename, contentType string, data []byte) error {
	if webhookURL == "" {
		return ErrNoWebhook
	}
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(Boundary); err != nil {
		return err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.post(ctx, webhookURL, w.FormDataContentType(), buf.Bytes())
}

func (c *Client) post(ctx context.Context, target, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// AttachmentName is the file name a preview is uploaded under: the song
// name without spaces or double quotes, plus the extension (mp3 when
// unknown).
func AttachmentName(song, ext string) string {
	name := strings.NewReplacer(" ", "", `"`, "").Replace(song)
	if ext == "" {
		ext = "mp3"
	}
	return name + "." + ext
}

package telegram

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://api.telegram.org"

const (
	maxAttempts = 5
	backoffBase = 2 * time.Second
)

// Client uploads finalized archives to a Telegram chat via sendDocument. It
// owns its own retry schedule; callers just hand off the blob.
type Client struct {
	baseURL    string
	botToken   string
	chatID     string
	backoff    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL string, botToken string, chatID string) *Client {
	return &Client{
		baseURL:  baseURL,
		botToken: botToken,
		chatID:   chatID,
		backoff:  backoffBase,
		httpClient: &http.Client{
			// uploads can be large and the bot API is slow to accept them
			Timeout: 10 * time.Minute,
		},
	}
}

// SendDocument uploads one named document. Retries on transport errors, 429
// and 5xx; other HTTP failures are final.
func (c *Client) SendDocument(name string, data []byte) error {
	url := fmt.Sprintf("%s/bot%s/sendDocument", c.baseURL, c.botToken)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.backoff * time.Duration(1<<(attempt-2))
			log.Warnf("SendDocument: retrying %s in %v: %v", name, delay, lastErr)
			time.Sleep(delay)
		}

		retryable, err := c.upload(url, name, data)
		if err == nil {
			log.Infof("sent %s to Telegram", name)
			return nil
		}

		lastErr = err
		if !retryable {
			break
		}
	}

	return fmt.Errorf("SendDocument: failed to send %s: %w", name, lastErr)
}

func (c *Client) upload(url string, name string, data []byte) (retryable bool, err error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("chat_id", c.chatID); err != nil {
		return false, fmt.Errorf("upload: failed to write chat_id field: %w", err)
	}

	part, err := writer.CreateFormFile("document", name)
	if err != nil {
		return false, fmt.Errorf("upload: failed to create document part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return false, fmt.Errorf("upload: failed to write document: %w", err)
	}

	if err := writer.Close(); err != nil {
		return false, fmt.Errorf("upload: failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return false, fmt.Errorf("upload: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("upload: request failed: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return false, nil
	}

	payload, _ := io.ReadAll(io.LimitReader(res.Body, 1024))

	retryable = res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500
	return retryable, fmt.Errorf("upload: http code %v: %s", res.Status, string(payload))
}

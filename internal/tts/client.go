package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Synthesizer converts text to spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// Client wraps the Google Translate speech endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client. baseURL defaults to the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://translate.google.com"
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Synthesize fetches an MP3 rendition of the text.
func (c *Client) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("tl", lang)
	params.Set("client", "tw-ob")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/translate_tts?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("tts request failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var _ Synthesizer = (*Client)(nil)

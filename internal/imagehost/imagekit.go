// Package imagehost wraps the hosted image service the check-in pipeline
// uploads photos to. The wire contract is the ImageKit upload API: a
// multipart POST authenticated with the private key as basic-auth username,
// answering with a JSON body whose "url" field is the public location of the
// stored file.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Client uploads image bytes and returns a public URL.
type Client struct {
	client     *http.Client
	publicKey  string
	privateKey string
	uploadURL  string
}

// uploadResponse is the subset of the upload API payload we read.
type uploadResponse struct {
	URL string `json:"url"`
}

// New constructs a Client for the given upload endpoint and key pair.
// Pass an *http.Client with an explicit Timeout.
func New(client *http.Client, publicKey, privateKey, uploadURL string) *Client {
	return &Client{
		client:     client,
		publicKey:  publicKey,
		privateKey: privateKey,
		uploadURL:  uploadURL,
	}
}

// Upload sends the image bytes under fileName and returns the hosted URL.
// A 2xx response without a URL is an error: the caller has nothing to store.
func (c *Client) Upload(ctx context.Context, data []byte, fileName string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("imagehost.Client.Upload: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("imagehost.Client.Upload: build form: %w", err)
	}
	if err := mw.WriteField("fileName", fileName); err != nil {
		return "", fmt.Errorf("imagehost.Client.Upload: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("imagehost.Client.Upload: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("imagehost.Client.Upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	// ImageKit authenticates server-side uploads with the private key as the
	// basic-auth username and an empty password.
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagehost.Client.Upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for a useful message without echoing
		// arbitrary upstream content at full length.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("imagehost.Client.Upload: unexpected status %d: %s", resp.StatusCode, snippet)
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("imagehost.Client.Upload: decode: %w", err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("imagehost.Client.Upload: response carries no url")
	}

	return body.URL, nil
}

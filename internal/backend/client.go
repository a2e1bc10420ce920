package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Credentials identify the signed in user towards the REST backend.
type Credentials struct {
	Token  string
	UserID string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

// NewClient builds a client for the backend at baseURL. cache may be nil.
func NewClient(baseURL string, httpClient *http.Client, cache *Cache) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
		cache:      cache,
	}
}

func (c *Client) Get(ctx context.Context, creds Credentials, path string, out interface{}) error {
	if body, ok := c.cache.Get(creds.UserID, path); ok {
		return decodeBody(body, out)
	}
	body, err := c.do(ctx, creds, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := decodeBody(body, out); err != nil {
		return errors.Wrapf(err, "unable to decode response of GET %s", path)
	}
	// a failed cache write only costs a round trip next time
	_ = c.cache.Set(creds.UserID, path, body)
	return nil
}

func (c *Client) Post(ctx context.Context, creds Credentials, path string, in, out interface{}) error {
	return c.write(ctx, creds, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, creds Credentials, path string, in, out interface{}) error {
	return c.write(ctx, creds, http.MethodPut, path, in, out)
}

func (c *Client) Patch(ctx context.Context, creds Credentials, path string, in, out interface{}) error {
	return c.write(ctx, creds, http.MethodPatch, path, in, out)
}

func (c *Client) Delete(ctx context.Context, creds Credentials, path string) error {
	return c.write(ctx, creds, http.MethodDelete, path, nil, nil)
}

func (c *Client) write(ctx context.Context, creds Credentials, method, path string, in, out interface{}) error {
	body, err := c.do(ctx, creds, method, path, in)
	if err != nil {
		return err
	}
	c.cache.Invalidate()
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := decodeBody(body, out); err != nil {
		return errors.Wrapf(err, "unable to decode response of %s %s", method, path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, creds Credentials, method, path string, in interface{}) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode request for %s %s", method, path)
		}
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create request %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}
	if creds.UserID != "" {
		req.Header.Set("x-user-id", creds.UserID)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &APIError{
			Status:  res.StatusCode,
			Method:  method,
			Path:    path,
			Message: errorMessage(body, res.StatusCode),
		}
	}
	return body, nil
}

// decodeBody accepts either a bare JSON value or one wrapped in a
// {"data": ...} envelope, both shapes are served by the backend.
func decodeBody(body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		envelope := struct {
			Data json.RawMessage `json:"data"`
		}{}
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			data := bytes.TrimSpace(envelope.Data)
			if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
				return json.Unmarshal(data, out)
			}
		}
	}
	return json.Unmarshal(trimmed, out)
}

func errorMessage(body []byte, status int) string {
	parsed := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, m := range []string{parsed.Message, parsed.Error, parsed.Msg} {
			if strings.TrimSpace(m) != "" {
				return strings.TrimSpace(m)
			}
		}
	}
	raw := strings.TrimSpace(string(body))
	if raw != "" && !strings.HasPrefix(raw, "<") && len(raw) <= 200 {
		return raw
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}

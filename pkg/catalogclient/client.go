// Package catalogclient is an HTTP client for the product catalog API.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("catalog product not found")
	ErrBadRequest  = errors.New("catalog rejected request")
	ErrBadStatus   = errors.New("catalog bad status")
	ErrUnavailable = errors.New("catalog unavailable")
)

type Client struct {
	BaseURL string
	Client  *http.Client
}

type productResp struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

type failure struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func New(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *Client) Ping(ctx context.Context) error {
	var s string
	if err := c.do(ctx, http.MethodGet, "/products/ping", nil, &s); err != nil {
		return err
	}
	if s != "healthy" {
		return fmt.Errorf("%w: ping returned %q", ErrBadStatus, s)
	}
	return nil
}

func (c *Client) List(ctx context.Context) (map[int64]string, error) {
	var resp struct {
		Products map[int64]string `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products/", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Products == nil {
		resp.Products = map[int64]string{}
	}
	return resp.Products, nil
}

func (c *Client) Get(ctx context.Context, id int64) (string, error) {
	var resp productResp
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

func (c *Client) Put(ctx context.Context, id int64, name string) (string, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return "", err
	}

	var resp productResp
	if err := c.do(ctx, http.MethodPost, "/products/"+strconv.FormatInt(id, 10), body, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, failureMessage(resp.Body))
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, failureMessage(resp.Body))
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrUnavailable, failureMessage(resp.Body))
	default:
		return fmt.Errorf("%w: status=%d %s", ErrBadStatus, resp.StatusCode, failureMessage(resp.Body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func failureMessage(r io.Reader) string {
	var f failure
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&f); err != nil {
		return "unreadable failure body"
	}
	return f.Message
}

package kvclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/0xRadioAc7iv/kvstore/internal"
)

// ErrNotFound is returned when the server responds 404 to a Get, Merge, or
// Keys.
var ErrNotFound = errors.New("kvclient: not found")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(opts ...Option) *Client {
	cfg := internal.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		baseURL: "http://" + net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		http:    &http.Client{},
	}
}

// Get fetches the value and recorded MIME type stored under key in store.
func (c *Client) Get(store, key string) ([]byte, string, error) {
	resp, err := c.http.Get(c.baseURL + "/kv/" + url.PathEscape(store) + "/" + url.PathEscape(key))
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("kvclient: get %s/%s: server returned %d: %s", store, key, resp.StatusCode, body)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// Put stores value under key in store, tagged with the given MIME type.
// The store is created on the server if it doesn't already exist.
func (c *Client) Put(store, key string, value []byte, mime string) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/kv/"+url.PathEscape(store)+"/"+url.PathEscape(key), bytes.NewReader(value))
	if err != nil {
		return err
	}
	if mime != "" {
		req.Header.Set("Content-Type", mime)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("kvclient: put %s/%s: server returned %d: %s", store, key, resp.StatusCode, body)
	}

	return nil
}

// Merge triggers compaction of store and returns the server's before/after
// size report.
func (c *Client) Merge(store string) (string, error) {
	resp, err := c.http.Get(c.baseURL + "/merge/" + url.PathEscape(store))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kvclient: merge %s: server returned %d: %s", store, resp.StatusCode, body)
	}

	return string(body), nil
}

// Keys lists every key currently held in store.
func (c *Client) Keys(store string) ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/all-keys/"+url.PathEscape(store), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("kvclient: keys %s: server returned %d: %s", store, resp.StatusCode, body)
	}

	var keys []string
	if err := json.NewDecoder(resp.Body).Decode(&keys); err != nil {
		return nil, err
	}

	return keys, nil
}

// Package cms talks to the Directus item-collection API that backs the
// catalog and stores quote requests.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/princinho/catalogsite/config"
)

// maxErrorBody caps how much of an upstream error body is kept for logs.
const maxErrorBody = 4 << 10

// StatusError is returned when the CMS answers with a non-2xx status.
type StatusError struct {
	Collection string
	Status     int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cms %s: unexpected status %d", e.Collection, e.Status)
}

// Client is a thin HTTP client for one CMS instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for cfg.URL. The URL must already be trimmed
// of its trailing slash (config.Load does that).
func NewClient(cfg config.DirectusConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// AssetURL returns the public URL of a CMS file, or "" when id is empty so
// callers can render a placeholder.
func (c *Client) AssetURL(fileID string) string {
	if fileID == "" {
		return ""
	}
	return c.baseURL + "/assets/" + fileID
}

// Collection returns a handle on an item collection.
func (c *Client) Collection(name string) *Collection {
	return &Collection{client: c, name: name}
}

// Collection performs item queries on one CMS collection.
type Collection struct {
	client *Client
	name   string
	token  string
}

// WithToken returns a copy of the collection that authenticates with a
// bearer token.
func (col *Collection) WithToken(token string) *Collection {
	cp := *col
	cp.token = token
	return &cp
}

func (col *Collection) Name() string {
	return col.name
}

func (col *Collection) itemsURL(q *Query) string {
	u := col.client.baseURL + "/items/" + col.name
	if q != nil {
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}
	}
	return u
}

// Find runs q and decodes the envelope's data array into dest, which must
// be a pointer to a slice. A data field that is not an array leaves dest
// untouched.
func (col *Collection) Find(ctx context.Context, q *Query, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, col.itemsURL(q), nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	body, err := col.do(req)
	if err != nil {
		return err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.Wrapf(err, "decode %s response", col.name)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(err, "decode %s items", col.name)
	}
	return nil
}

// InsertOne creates one item from doc.
func (col *Collection) InsertOne(ctx context.Context, doc interface{}) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encode item")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, col.itemsURL(nil), bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = col.do(req)
	return err
}

func (col *Collection) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if col.token != "" {
		req.Header.Set("Authorization", "Bearer "+col.token)
	}
	res, err := col.client.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, col.name)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &StatusError{Collection: col.name, Status: res.StatusCode, Body: string(msg)}
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", col.name)
	}
	return body, nil
}

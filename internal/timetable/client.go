// Package timetable reads the lecture timetable from Campus Dual.
package timetable

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/graffic/campusbot/internal/observability"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const entriesKey = "entries"

var (
	// ErrUnauthorized is returned when Campus Dual rejects the user id or hash.
	// It answers such requests with 200 and a null body.
	ErrUnauthorized = errors.New("timetable: campus dual rejected credentials")

	errStatus = errors.New("timetable: unexpected status")
)

// Entry is one timetable event
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Room        string `json:"room"`
	Instructor  string `json:"instructor"`
	Remarks     string `json:"remarks"`
}

// StartTime returns the start of the entry in loc
func (e Entry) StartTime(loc *time.Location) time.Time {
	return time.Unix(e.Start, 0).In(loc)
}

// EndTime returns the end of the entry in loc
func (e Entry) EndTime(loc *time.Location) time.Time {
	return time.Unix(e.End, 0).In(loc)
}

// ClientConfig configures the Campus Dual client
type ClientConfig struct {
	BaseURL            string
	User               string
	Hash               string
	InsecureSkipVerify bool
	Timeout            time.Duration
	// CacheTTL is how long fetched entries are served without a new request.
	CacheTTL time.Duration
}

// Client fetches and caches the Campus Dual timetable
type Client struct {
	config ClientConfig
	client *http.Client
	cache  *gocache.Cache
	group  singleflight.Group
}

// NewClient creates a Campus Dual client
func NewClient(config ClientConfig) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		cache: gocache.New(config.CacheTTL, 2*config.CacheTTL),
	}
}

// Entries returns the cached timetable, fetching it when the cache is empty.
func (c *Client) Entries(ctx context.Context) ([]Entry, error) {
	if cached, ok := c.cache.Get(entriesKey); ok {
		return cached.([]Entry), nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches the timetable and replaces the cached copy. Concurrent
// callers share one request.
func (c *Client) Refresh(ctx context.Context) ([]Entry, error) {
	v, err, _ := c.group.Do(entriesKey, func() (interface{}, error) {
		entries, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.SetDefault(entriesKey, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

func (c *Client) fetch(ctx context.Context) ([]Entry, error) {
	values := url.Values{}
	values.Set("userid", c.config.User)
	values.Set("hash", c.config.Hash)
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/room/json?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	observability.UpstreamRequestDuration.WithLabelValues("campusdual").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("timetable request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read timetable response: %w", err)
	}
	return decodeEntries(body)
}

// decodeEntries accepts a plain list or an object with an entries list.
func decodeEntries(body []byte) ([]Entry, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrUnauthorized
	}

	if body[0] == '{' {
		var wrapped struct {
			Entries []Entry `json:"entries"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("decode timetable response: %w", err)
		}
		return wrapped.Entries, nil
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode timetable response: %w", err)
	}
	return entries, nil
}

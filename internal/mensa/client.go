// Package mensa fetches canteen menus from OpenMensa and posts them to a chat.
package mensa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/graffic/campusbot/internal/observability"
	"golang.org/x/time/rate"
)

const defaultHTTPTimeout = 20 * time.Second

// ErrNoMenu is returned when OpenMensa has no menu for the requested day.
var ErrNoMenu = errors.New("mensa: no menu for this day")

var errStatus = errors.New("mensa: unexpected status")

// RawMeal is a meal as returned by the OpenMensa API
type RawMeal struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Notes    []string `json:"notes"`
	Prices   struct {
		Students  *float64 `json:"students"`
		Employees *float64 `json:"employees"`
		Others    *float64 `json:"others"`
	} `json:"prices"`
}

// Client talks to the OpenMensa v2 API
type Client struct {
	baseURL   string
	canteenID int
	limiter   *rate.Limiter
	client    *http.Client
}

// NewClient creates a client for one canteen. requestsPerSecond <= 0 means 1.
func NewClient(baseURL string, canteenID int, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		canteenID: canteenID,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		client: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// Meals returns the meals served on the given day
func (c *Client) Meals(ctx context.Context, day time.Time) ([]RawMeal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("mensa rate limit: %w", err)
	}

	endpoint := fmt.Sprintf("%s/canteens/%d/days/%s/meals", c.baseURL, c.canteenID, day.Format(time.DateOnly))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	observability.UpstreamRequestDuration.WithLabelValues("openmensa").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("mensa request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoMenu
	default:
		return nil, fmt.Errorf("%w: %d", errStatus, resp.StatusCode)
	}

	var meals []RawMeal
	if err := json.NewDecoder(resp.Body).Decode(&meals); err != nil {
		return nil, fmt.Errorf("decode mensa response: %w", err)
	}
	return meals, nil
}

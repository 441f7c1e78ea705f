// Package client is a typed Go SDK for the daily diet HTTP API.
package client

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// sessionCookie matches the cookie the service issues on registration.
const sessionCookie = "sessionId"

type Client struct {
	rc *resty.Client

	mu      sync.RWMutex
	session string
}

// New constructs a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errBaseURL
	}
	c := &Client{
		rc: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second).
			SetLogger(zerologAdapter{}).
			// the session travels as an explicit cookie, see request
			SetCookieJar(nil),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SessionID returns the session the client currently authenticates with.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(id string) {
	c.mu.Lock()
	c.session = id
	c.mu.Unlock()
}

// request prepares a resty request that carries the session cookie and
// decodes error bodies into *APIError.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.rc.R().SetContext(ctx).SetError(&APIError{})
	if s := c.SessionID(); s != "" {
		req.SetCookie(&http.Cookie{Name: sessionCookie, Value: s})
	}
	return req
}

// check converts a transport error or non-2xx response into an error and
// records the outcome.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		requestsTotal.WithLabelValues(op, "transport_error").Inc()
		return err
	}
	if resp.IsError() || resp.StatusCode() >= 300 {
		requestsTotal.WithLabelValues(op, "api_error").Inc()
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr == nil {
			apiErr = &APIError{}
		}
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}
	requestsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

// Register creates a user and adopts the session id the service returns.
func (c *Client) Register(ctx context.Context, name, email string) (string, error) {
	resp, err := c.request(ctx).
		SetBody(map[string]string{"name": name, "email": email}).
		Post("/users")
	if err := check("register", resp, err); err != nil {
		return "", err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie && ck.Value != "" {
			c.setSession(ck.Value)
		}
	}
	return c.SessionID(), nil
}

// CreateMeal logs a meal and returns its id.
func (c *Client) CreateMeal(ctx context.Context, m NewMeal) (string, error) {
	resp, err := c.request(ctx).SetBody(m).Post("/meals")
	if err := check("create_meal", resp, err); err != nil {
		return "", err
	}
	loc := resp.Header().Get("Location")
	return loc[strings.LastIndex(loc, "/")+1:], nil
}

// ListMeals returns the caller's meals, oldest date first.
func (c *Client) ListMeals(ctx context.Context) ([]Meal, error) {
	var out struct {
		Meals []Meal `json:"meals"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/meals")
	if err := check("list_meals", resp, err); err != nil {
		return nil, err
	}
	return out.Meals, nil
}

// GetMeal fetches one meal by id.
func (c *Client) GetMeal(ctx context.Context, id string) (*Meal, error) {
	var out struct {
		Meal Meal `json:"meal"`
	}
	resp, err := c.request(ctx).SetResult(&out).SetPathParam("mealId", id).Get("/meals/{mealId}")
	if err := check("get_meal", resp, err); err != nil {
		return nil, err
	}
	return &out.Meal, nil
}

// UpdateMeal applies a partial update.
func (c *Client) UpdateMeal(ctx context.Context, id string, p MealPatch) error {
	resp, err := c.request(ctx).SetBody(p).SetPathParam("mealId", id).Put("/meals/{mealId}")
	return check("update_meal", resp, err)
}

// DeleteMeal removes a meal.
func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	resp, err := c.request(ctx).SetPathParam("mealId", id).Delete("/meals/{mealId}")
	return check("delete_meal", resp, err)
}

// Metrics returns the caller's diet-adherence summary.
func (c *Client) Metrics(ctx context.Context) (*Metrics, error) {
	var out Metrics
	resp, err := c.request(ctx).SetResult(&out).Get("/meals/metrics")
	if err := check("metrics", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agleymelo/daily-diet-api/internal/adherence"
	"github.com/agleymelo/daily-diet-api/internal/auth"
	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/services"
	"github.com/agleymelo/daily-diet-api/internal/store/sqlite"
)

type staticHealth bool

func (s staticHealth) IsHealthy() bool             { return bool(s) }
func (s staticHealth) Components() map[string]bool { return map[string]bool{"store": bool(s)} }

func newTestServer(t *testing.T, deps func(*RouterDeps)) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.EnsureSchema(ctx, db))
	st := sqlite.NewWithDB(db)
	t.Cleanup(func() { _ = st.Close() })

	d := RouterDeps{
		Users:             services.NewUserService(st),
		Meals:             services.NewMealService(st, adherence.Chronological),
		Health:            staticHealth(true),
		Log:               zerolog.Nop(),
		SessionMaxAge:     7 * 24 * time.Hour,
		RegisterRateLimit: 1000,
	}
	if deps != nil {
		deps(&d)
	}
	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(srv.Close)
	return srv
}

// apiClient keeps the sessionId cookie between calls like a browser would.
type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newAPIClient(t *testing.T, srv *httptest.Server) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *apiClient) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c *apiClient) register(name, email string) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/users", map[string]string{"name": name, "email": email})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
}

func (c *apiClient) createMeal(name, date string, isDiet bool) string {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/meals", map[string]interface{}{
		"name": name, "description": "desc " + name, "date": date, "isDiet": isDiet,
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.True(c.t, strings.HasPrefix(loc, "/meals/"), "location %q", loc)
	return strings.TrimPrefix(loc, "/meals/")
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestEndToEnd_Metrics(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newAPIClient(t, srv)
	c.register("Ana", "ana@example.com")

	c.createMeal("Breakfast", "2024-01-01", true)
	c.createMeal("Lunch", "2024-01-02", true)
	c.createMeal("Pizza", "2024-01-03", false)

	resp := c.do(http.MethodGet, "/meals/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]int](t, resp)
	assert.Equal(t, map[string]int{
		"totalMeals":        3,
		"totalMealsOnDiet":  2,
		"totalMealsOffDiet": 1,
		"bestOnDiet":        2,
	}, got)
}

func TestMetrics_EmptyAndStreakOrder(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newAPIClient(t, srv)
	c.register("Ana", "ana@example.com")

	resp := c.do(http.MethodGet, "/meals/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, adherence.Summary{}, decode[adherence.Summary](t, resp))

	// created out of order; the streak follows dates, not insertion
	c.createMeal("d3", "2024-01-03", true)
	c.createMeal("d1", "2024-01-01", true)
	c.createMeal("d2", "2024-01-02", false)
	c.createMeal("d4", "2024-01-04", true)

	resp = c.do(http.MethodGet, "/meals/metrics", nil)
	sum := decode[adherence.Summary](t, resp)
	assert.Equal(t, 4, sum.TotalMeals)
	assert.Equal(t, 2, sum.BestOnDietStreak)
}

func TestMealsCRUD(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newAPIClient(t, srv)
	c.register("Ana", "ana@example.com")

	late := c.createMeal("Dinner", "2024-02-02", true)
	early := c.createMeal("Lunch", "2024-02-01T15:04:05Z", false)

	resp := c.do(http.MethodGet, "/meals", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Meals []model.Meal `json:"meals"`
	}](t, resp)
	require.Len(t, list.Meals, 2)
	assert.Equal(t, early, list.Meals[0].MealID, "ascending by date")
	assert.Equal(t, "2024-02-01", list.Meals[0].Date.String())
	assert.Equal(t, late, list.Meals[1].MealID)

	resp = c.do(http.MethodGet, "/meals/"+late, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	one := decode[struct {
		Meal model.Meal `json:"meal"`
	}](t, resp)
	assert.Equal(t, "Dinner", one.Meal.Name)
	assert.True(t, one.Meal.IsDiet)

	// partial update: only date and isDiet change
	resp = c.do(http.MethodPut, "/meals/"+late, map[string]interface{}{"date": "2024-02-05", "isDiet": false})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = c.do(http.MethodGet, "/meals/"+late, nil)
	one = decode[struct {
		Meal model.Meal `json:"meal"`
	}](t, resp)
	assert.Equal(t, "2024-02-05", one.Meal.Date.String())
	assert.False(t, one.Meal.IsDiet)
	assert.Equal(t, "Dinner", one.Meal.Name)
	assert.Equal(t, "desc Dinner", one.Meal.Description)

	resp = c.do(http.MethodDelete, "/meals/"+early, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = c.do(http.MethodGet, "/meals/"+early, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUnknownMeal(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newAPIClient(t, srv)
	c.register("Ana", "ana@example.com")
	c.createMeal("Lunch", "2024-01-01", true)

	for _, id := range []string{uuid.New().String(), "not-a-uuid"} {
		resp := c.do(http.MethodDelete, "/meals/"+id, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, map[string]string{"error": "Meal not found"}, decode[map[string]string](t, resp))
	}

	resp := c.do(http.MethodGet, "/meals", nil)
	list := decode[map[string][]model.Meal](t, resp)
	assert.Len(t, list["meals"], 1, "table unchanged")
}

func TestOtherUsersMealsAreInvisible(t *testing.T) {
	srv := newTestServer(t, nil)
	owner := newAPIClient(t, srv)
	owner.register("Ana", "ana@example.com")
	id := owner.createMeal("Secret", "2024-01-01", true)

	intruder := newAPIClient(t, srv)
	intruder.register("Bia", "bia@example.com")

	assert.Equal(t, http.StatusNotFound, intruder.do(http.MethodGet, "/meals/"+id, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, intruder.do(http.MethodPut, "/meals/"+id, map[string]string{"name": "mine"}).StatusCode)
	assert.Equal(t, http.StatusNotFound, intruder.do(http.MethodDelete, "/meals/"+id, nil).StatusCode)

	resp := intruder.do(http.MethodGet, "/meals", nil)
	assert.Empty(t, decode[map[string][]model.Meal](t, resp)["meals"])

	resp = owner.do(http.MethodGet, "/meals/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]model.Meal](t, resp)["meal"]
	assert.Equal(t, "Secret", got.Name)
}

func TestMealsRequireSession(t *testing.T) {
	srv := newTestServer(t, nil)
	anon := newAPIClient(t, srv)
	id := uuid.New().String()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/meals"},
		{http.MethodPost, "/meals"},
		{http.MethodGet, "/meals/metrics"},
		{http.MethodGet, "/meals/" + id},
		{http.MethodPut, "/meals/" + id},
		{http.MethodDelete, "/meals/" + id},
	}
	for _, rt := range routes {
		resp := anon.do(rt.method, rt.path, "{}")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", rt.method, rt.path)
		assert.Equal(t, map[string]string{"error": "Unauthorized"}, decode[map[string]string](t, resp))
	}

	// an unknown cookie is just as unauthorized
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/meals", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: uuid.New().String()})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newAPIClient(t, srv)

	resp := c.do(http.MethodPost, "/users", map[string]string{"name": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName {
			session = ck
		}
	}
	require.NotNil(t, session, "sessionId cookie must be set")
	assert.True(t, session.HttpOnly)
	assert.Equal(t, 7*24*60*60, session.MaxAge)
	assert.NoError(t, uuid.Validate(session.Value))

	other := newAPIClient(t, srv)
	resp = other.do(http.MethodPost, "/users", map[string]string{"name": "Copy", "email": "ana@example.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, map[string]string{"error": "User already exists"}, decode[map[string]string](t, resp))
}

func TestRegister_ReusesIncomingSession(t *testing.T) {
	srv := newTestServer(t, nil)
	session := uuid.New().String()
	body := strings.NewReader(`{"name":"Ana","email":"ana@example.com"}`)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/users", body)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: session})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got string
	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName {
			got = ck.Value
		}
	}
	assert.Equal(t, session, got)
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newAPIClient(t, srv)

	resp := c.do(http.MethodPost, "/users", map[string]string{"name": "Ana", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email must be a valid email", decode[map[string]interface{}](t, resp)["message"])

	c.register("Ana", "ana@example.com")
	id := c.createMeal("Lunch", "2024-01-01", true)

	cases := []struct {
		name        string
		method      string
		path        string
		body        interface{}
		wantMessage string
	}{
		{"bad json", http.MethodPost, "/meals", "{", "invalid json"},
		{"missing name", http.MethodPost, "/meals", map[string]interface{}{"description": "", "date": "2024-01-01", "isDiet": true}, "name is required"},
		{"missing isDiet", http.MethodPost, "/meals", map[string]interface{}{"name": "x", "description": "", "date": "2024-01-01"}, "isDiet is required"},
		{"bad date", http.MethodPost, "/meals", map[string]interface{}{"name": "x", "description": "", "date": "soon", "isDiet": true}, "date must be YYYY-MM-DD or an RFC 3339 date-time"},
		{"empty update", http.MethodPut, "/meals/" + id, map[string]interface{}{}, "at least one field must be provided"},
		{"bad update date", http.MethodPut, "/meals/" + id, map[string]interface{}{"date": "2024-13-01"}, "date must be YYYY-MM-DD or an RFC 3339 date-time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := c.do(tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[map[string]interface{}](t, resp)
			assert.Equal(t, "Bad Request", body["error"])
			assert.Equal(t, tc.wantMessage, body["message"])
		})
	}
}

func TestRegisterRateLimited(t *testing.T) {
	srv := newTestServer(t, func(d *RouterDeps) { d.RegisterRateLimit = 1 })
	c := newAPIClient(t, srv)
	c.register("Ana", "ana@example.com")
	resp := c.do(http.MethodPost, "/users", map[string]string{"name": "Bia", "email": "bia@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newAPIClient(t, srv)

	resp := c.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UP", decode[map[string]interface{}](t, resp)["status"])

	down := newTestServer(t, func(d *RouterDeps) { d.Health = staticHealth(false) })
	resp = newAPIClient(t, down).do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	c.do(http.MethodGet, "/api/health", nil)
	resp = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), `daily_diet_http_requests_total{code="200",method="get",route="/api/health"}`)
}

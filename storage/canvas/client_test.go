package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kazi/core"
)

const testToken = "s3cret"

// fakeCanvas serves a minimal Canvas API and records every request URI.
type fakeCanvas struct {
	mutex    sync.Mutex
	requests []string
	courses  int
}

func (f *fakeCanvas) record(c echo.Context) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.requests = append(f.requests, c.Request().URL.RequestURI())
}

func (f *fakeCanvas) Requests() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeCanvas) handler() http.Handler {
	e := echo.New()
	e.HideBanner = true

	e.Pre(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			f.record(c)
			if c.Request().Header.Get(echo.HeaderAuthorization) != "Bearer "+testToken {
				return c.JSONBlob(http.StatusUnauthorized, []byte(`{"errors":[{"message":"Invalid access token."}],"status":"unauthenticated"}`))
			}
			return next(c)
		}
	})

	e.GET("/api/v1/courses", func(c echo.Context) error {
		perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
		page, _ := strconv.Atoi(c.QueryParam("page"))
		courses := make([]map[string]interface{}, 0, perPage)
		for id := (page-1)*perPage + 1; id <= page*perPage && id <= f.courses; id++ {
			courses = append(courses, map[string]interface{}{
				"id":             id,
				"name":           fmt.Sprintf("Course %d", id),
				"workflow_state": "available",
			})
		}
		return c.JSON(http.StatusOK, courses)
	})
	e.GET("/api/v1/courses/:id/assignment_groups", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`[{"id":5,"name":"Labs","group_weight":25}]`))
	})
	e.GET("/api/v1/courses/:id/assignments", func(c echo.Context) error {
		if c.QueryParam("include[]") != "submission" {
			return c.JSONBlob(http.StatusBadRequest, []byte(`{"errors":[{"message":"submission not included"}]}`))
		}
		return c.JSONBlob(http.StatusOK, []byte(`[{
			"id": 30, "name": "Lab Report", "due_at": "2024-03-13T17:00:00Z", "points_possible": 40,
			"assignment_group_id": 5,
			"submission": {"submitted_at": null, "workflow_state": "unsubmitted", "missing": true, "score": null}
		}]`))
	})
	e.GET("/api/v1/users/self", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"id": 42, "name": "Alice"}`))
	})
	e.GET("/api/v1/broken", func(c echo.Context) error {
		// Canvas may report errors with a 200
		return c.JSONBlob(http.StatusOK, []byte(`{"errors":[{"message":"The specified resource does not exist."}]}`))
	})
	return e
}

func setup(t *testing.T, courses int, token string) (*Client, *fakeCanvas) {
	t.Helper()
	fake := &fakeCanvas{courses: courses}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := NewClient("school.instructure.com", token, WithBaseURL(srv.URL+"/api/v1/"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client, fake
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		token   string
		wantErr bool
	}{
		{name: "valid", domain: "school.instructure.com", token: "t0k"},
		{name: "no domain", token: "t0k", wantErr: true},
		{name: "no token", domain: "school.instructure.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.domain, tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && client.baseURL != "https://school.instructure.com/api/v1" {
				t.Errorf("NewClient() baseURL = %s", client.baseURL)
			}
		})
	}
}

func TestClient_Get_pagination(t *testing.T) {
	tests := []struct {
		name         string
		courses      int
		wantRequests []string
	}{
		{
			name:    "single short page",
			courses: 3,
			wantRequests: []string{
				"/api/v1/courses?enrollment_state=active&per_page=50&page=1",
			},
		},
		{
			name:    "full page then short page",
			courses: 53,
			wantRequests: []string{
				"/api/v1/courses?enrollment_state=active&per_page=50&page=1",
				"/api/v1/courses?enrollment_state=active&per_page=50&page=2",
			},
		},
		{
			name:    "exactly one full page",
			courses: 50,
			wantRequests: []string{
				"/api/v1/courses?enrollment_state=active&per_page=50&page=1",
				"/api/v1/courses?enrollment_state=active&per_page=50&page=2",
			},
		},
		{
			name:    "empty",
			courses: 0,
			wantRequests: []string{
				"/api/v1/courses?enrollment_state=active&per_page=50&page=1",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := setup(t, tt.courses, testToken)

			courses, err := NewRepository(client).ListCourses(context.Background())
			require.NoError(t, err)
			require.Len(t, courses, tt.courses)
			for i, c := range courses {
				assert.Equal(t, int64(i+1), c.ID)
				assert.True(t, c.IsActive())
			}
			assert.Equal(t, tt.wantRequests, fake.Requests())
		})
	}
}

func TestClient_Get_object(t *testing.T) {
	client, fake := setup(t, 0, testToken)

	var user struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "/users/self", &user))
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, []string{"/api/v1/users/self?per_page=50&page=1"}, fake.Requests())
}

func TestClient_Get_errors(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		endpoint   string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid token",
			token:      "nope",
			endpoint:   "/courses",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"errors":[{"message":"Invalid access token."}],"status":"unauthenticated"}`,
		},
		{
			name:       "errors field with 200",
			token:      testToken,
			endpoint:   "/broken",
			wantStatus: http.StatusOK,
			wantBody:   `{"errors":[{"message":"The specified resource does not exist."}]}`,
		},
		{
			name:       "not found",
			token:      testToken,
			endpoint:   "/nope",
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := setup(t, 0, tt.token)

			var v interface{}
			err := client.Get(context.Background(), tt.endpoint, &v)
			apiErr, ok := core.AsAPIError(err)
			if !ok {
				t.Fatalf("Get() error = %v, want an APIError", err)
			}
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, string(apiErr.Body))
			}
			assert.Len(t, fake.Requests(), 1, "errors are never retried")
		})
	}
}

func TestRepository(t *testing.T) {
	client, fake := setup(t, 1, testToken)
	repo := NewRepository(client)
	ctx := context.Background()

	groups, err := repo.ListAssignmentGroups(ctx, 1)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 25.0, groups[0].GroupWeight)

	assignments, err := repo.ListAssignments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	a := assignments[0]
	assert.Equal(t, "Lab Report", a.Name)
	assert.True(t, a.DueAt.Valid)
	assert.True(t, a.IsScorable())
	assert.True(t, a.IsMissing())
	assert.False(t, a.IsSubmitted())
	assert.False(t, a.Submission.Score.Valid)

	_, err = repo.ListCourses(ctx, "total_scores")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/v1/courses/1/assignment_groups?per_page=50&page=1",
		"/api/v1/courses/1/assignments?include[]=submission&per_page=50&page=1",
		"/api/v1/courses?enrollment_state=active&include[]=total_scores&per_page=50&page=1",
	}, fake.Requests())
}

package padel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:       srv.URL,
		RetryInterval: time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "https", baseURL: "https://api.example.com"},
		{name: "http with path", baseURL: "http://localhost:5000/prefix/"},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "relative", baseURL: "/api", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestClient_ListClubs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/padel-clubs", r.URL.Path)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"totalCount":2,"clubs":[
			{"clubId":"c1","name":"Padel Warsaw","provider":"Playtomic","pagesCount":3,"timeZone":"Europe/Warsaw"},
			{"clubId":"c2","name":"London Padel","provider":"Matchi","timeZone":null}
		]}`)
	})

	resp, err := client.ListClubs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalCount)
	require.Len(t, resp.Clubs, 2)
	assert.Equal(t, "Europe/Warsaw", resp.Clubs[0].TimeZone)
	require.NotNil(t, resp.Clubs[0].PagesCount)
	assert.Equal(t, 3, *resp.Clubs[0].PagesCount)
	assert.Empty(t, resp.Clubs[1].TimeZone)
	assert.Nil(t, resp.Clubs[1].PagesCount)
}

func TestClient_ListCourtAvailabilities_Query(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prefix/api/court-availabilities", r.URL.Path)
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"totalCount":1,"courtAvailabilities":[
			{"id":"s1","clubId":"c1","clubName":"Padel Warsaw","courtName":"Court 1",
			 "dateTime":"2024-01-15T14:00:00Z","price":99.9,"bookingUrl":"https://b/s1",
			 "provider":"Playtomic","durationInMinutes":60,"courtType":0}
		]}`)
	}, func(c *Config) { c.BaseURL += "/prefix/" })

	indoor := CourtTypeIndoor
	q := AvailabilityQuery{
		Start:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 1, 15, 23, 59, 59, 999999999, time.UTC),
		Durations: []int{60},
		ClubIDs:   []string{"c1"},
		CourtType: &indoor,
	}

	resp, err := client.ListCourtAvailabilities(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, q.Encode(), gotQuery)
	require.Len(t, resp.CourtAvailabilities, 1)
	assert.Equal(t, "s1", resp.CourtAvailabilities[0].ID)
}

func TestClient_ResponseErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   "no such route",
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
				assert.Equal(t, "no such route", statusErr.Body)
			},
		},
		{
			name:   "null body",
			status: http.StatusOK,
			body:   " null\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyResponse)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `{"totalCount": "many"`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			},
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			body:   "",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.ListCourtAvailabilities(context.Background(), AvailabilityQuery{})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "list_court_availabilities", apiErr.Op)
			tt.check(t, err)
		})
	}
}

func TestClient_RetriesGatewayErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"totalCount":0,"clubs":[]}`)
	})

	resp, err := client.ListClubs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalCount)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(c *Config) { c.MaxRetries = 1 })

	_, err := client.ListClubs(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.ListClubs(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesDisabled(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(c *Config) { c.MaxRetries = -1 })

	_, err := client.ListClubs(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.ListClubs(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "expected deadline exceeded, got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}, func(c *Config) { c.Timeout = 50 * time.Millisecond })
	defer close(release)

	_, err := client.ListClubs(context.Background())
	require.Error(t, err)

	var timeoutErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &timeoutErr)
	assert.True(t, timeoutErr.Timeout())
}

func TestAPIError(t *testing.T) {
	inner := errors.New("boom")
	err := &APIError{Op: "list_clubs", Err: inner}

	assert.Equal(t, "padel list_clubs: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, "unexpected status 503 Service Unavailable", (&StatusError{StatusCode: 503}).Error())
	assert.Equal(t, "unexpected status 400 Bad Request: bad", (&StatusError{StatusCode: 400, Body: "bad"}).Error())
	assert.True(t, (&StatusError{StatusCode: 504}).Retryable())
	assert.False(t, (&StatusError{StatusCode: 500}).Retryable())
}

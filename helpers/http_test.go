package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	neturl "net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.Equal(t, "value", r.Header.Get("X-Custom"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var payload map[string]string
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "bar", payload["foo"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	body, err := PostJSON(context.Background(), server.URL, map[string]string{"X-Custom": "value"}, []byte(`{"foo":"bar"}`))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestPostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "hello world", r.PostForm.Get("status"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer server.Close()

	values := neturl.Values{}
	values.Set("status", "hello world")

	body, err := PostForm(context.Background(), server.URL, nil, values)
	assert.NoError(t, err)
	assert.Contains(t, string(body), `"id"`)
}

func TestPostJSONErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	_, err := PostJSON(context.Background(), server.URL, nil, []byte(`{}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestPostJSONRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := PostJSON(context.Background(), server.URL, nil, []byte(`{}`))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Contains(t, err.Error(), "retry after 60")
}

func TestPostJSONInvalidURL(t *testing.T) {
	_, err := PostJSON(context.Background(), "http://invalid.url.that.does.not.exist", nil, []byte(`{}`))
	assert.Error(t, err)
}

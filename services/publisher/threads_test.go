package publisher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadsPublish(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		calls = append(calls, r.URL.Path)

		switch r.URL.Path {
		case "/12345/threads":
			assert.Equal(t, "token", r.PostForm.Get("access_token"))
			assert.Equal(t, "TEXT", r.PostForm.Get("media_type"))
			assert.Equal(t, "新着セール情報", r.PostForm.Get("text"))
			w.Write([]byte(`{"id":"container-1"}`))
		case "/12345/threads_publish":
			assert.Equal(t, "container-1", r.PostForm.Get("creation_id"))
			w.Write([]byte(`{"id":"post-1"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	pub := NewThreadsPublisher("token", "12345").WithBaseURL(server.URL)
	result, err := pub.Publish(context.Background(), Post{Text: "新着セール情報"})
	assert.NoError(t, err)
	assert.Equal(t, "threads", result.Platform)
	assert.Equal(t, "post-1", result.PostID)
	assert.Equal(t, []string{"/12345/threads", "/12345/threads_publish"}, calls)
}

func TestThreadsPublishWithImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.URL.Path == "/12345/threads" {
			assert.Equal(t, "IMAGE", r.PostForm.Get("media_type"))
			assert.Equal(t, "https://img.example.com/p.jpg", r.PostForm.Get("image_url"))
			w.Write([]byte(`{"id":"container-2"}`))
			return
		}
		w.Write([]byte(`{"id":"post-2"}`))
	}))
	defer server.Close()

	pub := NewThreadsPublisher("token", "12345").WithBaseURL(server.URL)
	result, err := pub.Publish(context.Background(), Post{
		Text:     "画像つき",
		ImageURL: "https://img.example.com/p.jpg",
	})
	assert.NoError(t, err)
	assert.Equal(t, "post-2", result.PostID)
}

func TestThreadsPublishContainerError(t *testing.T) {
	published := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/12345/threads_publish" {
			published = true
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid token"}}`))
	}))
	defer server.Close()

	pub := NewThreadsPublisher("token", "12345").WithBaseURL(server.URL)
	_, err := pub.Publish(context.Background(), Post{Text: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "threads")
	assert.False(t, published, "publish step must not run when the container failed")
}

func TestThreadsPublishMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	pub := NewThreadsPublisher("token", "12345").WithBaseURL(server.URL)
	_, err := pub.Publish(context.Background(), Post{Text: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

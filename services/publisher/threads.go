package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"discountfinder/helpers"
	apperrors "discountfinder/pkg/errors"
)

const defaultThreadsBaseURL = "https://graph.threads.net/v1.0"

// ThreadsPublisher posts to Threads via the Graph API. Publishing is a
// two-step flow: create a media container, then publish it.
type ThreadsPublisher struct {
	accessToken string
	userID      string
	baseURL     string
}

// NewThreadsPublisher creates a publisher from a Graph API access token and
// the Threads user ID
func NewThreadsPublisher(accessToken, userID string) *ThreadsPublisher {
	return &ThreadsPublisher{
		accessToken: accessToken,
		userID:      userID,
		baseURL:     defaultThreadsBaseURL,
	}
}

// WithBaseURL overrides the API base URL, used by tests
func (t *ThreadsPublisher) WithBaseURL(baseURL string) *ThreadsPublisher {
	t.baseURL = baseURL
	return t
}

// Platform returns the platform name
func (t *ThreadsPublisher) Platform() string {
	return "threads"
}

// Publish creates a media container for the post and publishes it
func (t *ThreadsPublisher) Publish(ctx context.Context, post Post) (Result, error) {
	creationID, err := t.createContainer(ctx, post)
	if err != nil {
		return Result{}, err
	}

	postID, err := t.publishContainer(ctx, creationID)
	if err != nil {
		return Result{}, err
	}

	return Result{Platform: t.Platform(), PostID: postID}, nil
}

// Close implements Publisher
func (t *ThreadsPublisher) Close() error {
	return nil
}

func (t *ThreadsPublisher) createContainer(ctx context.Context, post Post) (string, error) {
	params := url.Values{}
	params.Set("access_token", t.accessToken)
	params.Set("text", post.Text)
	if post.ImageURL != "" {
		params.Set("media_type", "IMAGE")
		params.Set("image_url", post.ImageURL)
	} else {
		params.Set("media_type", "TEXT")
	}

	endpoint := fmt.Sprintf("%s/%s/threads", t.baseURL, t.userID)
	body, err := helpers.PostForm(ctx, endpoint, nil, params)
	if err != nil {
		return "", apperrors.NewPublish(t.Platform(), "failed to create media container", err)
	}

	id, err := parseID(body)
	if err != nil {
		return "", apperrors.NewPublish(t.Platform(), "container response missing id", err)
	}
	return id, nil
}

func (t *ThreadsPublisher) publishContainer(ctx context.Context, creationID string) (string, error) {
	params := url.Values{}
	params.Set("access_token", t.accessToken)
	params.Set("creation_id", creationID)

	endpoint := fmt.Sprintf("%s/%s/threads_publish", t.baseURL, t.userID)
	body, err := helpers.PostForm(ctx, endpoint, nil, params)
	if err != nil {
		return "", apperrors.NewPublish(t.Platform(), "failed to publish media container", err)
	}

	id, err := parseID(body)
	if err != nil {
		return "", apperrors.NewPublish(t.Platform(), "publish response missing id", err)
	}
	return id, nil
}

func parseID(body []byte) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("empty id in response: %s", string(body))
	}
	return resp.ID, nil
}

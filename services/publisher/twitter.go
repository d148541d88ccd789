package publisher

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"discountfinder/helpers"
	apperrors "discountfinder/pkg/errors"
)

const (
	// StatusLimit is the X/Twitter post length ceiling in characters
	StatusLimit = 280

	defaultTwitterAPIURL = "https://api.twitter.com/1.1/statuses/update.json"
)

// TwitterPublisher posts to X/Twitter via the v1.1 statuses API with OAuth1
// request signing
type TwitterPublisher struct {
	consumerKey    string
	consumerSecret string
	accessToken    string
	accessSecret   string
	apiURL         string
	now            func() time.Time
	nonce          func() string
}

// NewTwitterPublisher creates a publisher from the four OAuth1 credentials
func NewTwitterPublisher(consumerKey, consumerSecret, accessToken, accessSecret string) *TwitterPublisher {
	return &TwitterPublisher{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		accessToken:    accessToken,
		accessSecret:   accessSecret,
		apiURL:         defaultTwitterAPIURL,
		now:            time.Now,
		nonce: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

// WithAPIURL overrides the API endpoint, used by tests
func (t *TwitterPublisher) WithAPIURL(apiURL string) *TwitterPublisher {
	t.apiURL = apiURL
	return t
}

// Platform returns the platform name
func (t *TwitterPublisher) Platform() string {
	return "twitter"
}

// Publish posts a status update. Posts over the length ceiling are first
// shortened at the title and then hard truncated.
func (t *TwitterPublisher) Publish(ctx context.Context, post Post) (Result, error) {
	text := post.Text
	if utf8.RuneCountInString(text) > StatusLimit {
		text = FitToLimit(text, post.Title, StatusLimit)
	}

	form := url.Values{}
	form.Set("status", text)

	headers := map[string]string{
		"Authorization": t.authorizationHeader("POST", t.apiURL, form),
	}

	body, err := helpers.PostForm(ctx, t.apiURL, headers, form)
	if err != nil {
		return Result{}, apperrors.NewPublish(t.Platform(), "status update failed", err)
	}

	var resp struct {
		IDStr string `json:"id_str"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{}, apperrors.NewPublish(t.Platform(), "failed to decode response", err)
	}

	return Result{Platform: t.Platform(), PostID: resp.IDStr}, nil
}

// Close implements Publisher
func (t *TwitterPublisher) Close() error {
	return nil
}

// authorizationHeader builds the OAuth1 HMAC-SHA1 Authorization header for
// a form-encoded request
func (t *TwitterPublisher) authorizationHeader(method, rawURL string, form url.Values) string {
	oauthParams := map[string]string{
		"oauth_consumer_key":     t.consumerKey,
		"oauth_nonce":            t.nonce(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(t.now().Unix(), 10),
		"oauth_token":            t.accessToken,
		"oauth_version":          "1.0",
	}

	// Signature base: all oauth and body parameters, percent encoded,
	// sorted by key
	params := make(map[string]string, len(oauthParams)+len(form))
	for k, v := range oauthParams {
		params[k] = v
	}
	for k := range form {
		params[k] = form.Get(k)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	paramString := strings.Join(pairs, "&")

	base := strings.Join([]string{
		method,
		percentEncode(rawURL),
		percentEncode(paramString),
	}, "&")

	signingKey := percentEncode(t.consumerSecret) + "&" + percentEncode(t.accessSecret)
	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(base))
	oauthParams["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	headerKeys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)

	headerPairs := make([]string, 0, len(headerKeys))
	for _, k := range headerKeys {
		headerPairs = append(headerPairs, fmt.Sprintf("%s=\"%s\"", percentEncode(k), percentEncode(oauthParams[k])))
	}
	return "OAuth " + strings.Join(headerPairs, ", ")
}

// percentEncode implements RFC 3986 encoding as required by OAuth1, which
// differs from url.QueryEscape in its handling of spaces and tildes
func percentEncode(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

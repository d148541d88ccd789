package search

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignHeaders(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 30, 45, 0, time.UTC)
	payload := []byte(`{"ItemIds":["B000000001"]}`)

	headers := signHeaders("AKIDEXAMPLE", "secret", "webservices.amazon.co.jp",
		"/paapi5/getitems", "us-west-2", "GetItems", payload, now)

	assert.Equal(t, "webservices.amazon.co.jp", headers["host"])
	assert.Equal(t, "20230601T123045Z", headers["x-amz-date"])
	assert.Equal(t, "amz-1.0", headers["content-encoding"])
	assert.Equal(t, "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems", headers["x-amz-target"])

	auth := headers["Authorization"]
	assert.Contains(t, auth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20230601/us-west-2/ProductAdvertisingAPI/aws4_request")
	assert.Contains(t, auth, "SignedHeaders=content-encoding;content-type;host;x-amz-date;x-amz-target")
	assert.Regexp(t, regexp.MustCompile(`Signature=[0-9a-f]{64}$`), auth)
}

func TestSignHeadersDeterministic(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 30, 45, 0, time.UTC)
	payload := []byte(`{"Keywords":"セール"}`)

	first := signHeaders("AKIDEXAMPLE", "secret", "webservices.amazon.co.jp",
		"/paapi5/searchitems", "us-west-2", "SearchItems", payload, now)
	second := signHeaders("AKIDEXAMPLE", "secret", "webservices.amazon.co.jp",
		"/paapi5/searchitems", "us-west-2", "SearchItems", payload, now)

	assert.Equal(t, first["Authorization"], second["Authorization"])
}

func TestSignHeadersVariesWithInput(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 30, 45, 0, time.UTC)

	base := signHeaders("AKIDEXAMPLE", "secret", "webservices.amazon.co.jp",
		"/paapi5/searchitems", "us-west-2", "SearchItems", []byte(`{"a":1}`), now)
	otherPayload := signHeaders("AKIDEXAMPLE", "secret", "webservices.amazon.co.jp",
		"/paapi5/searchitems", "us-west-2", "SearchItems", []byte(`{"a":2}`), now)
	otherSecret := signHeaders("AKIDEXAMPLE", "other", "webservices.amazon.co.jp",
		"/paapi5/searchitems", "us-west-2", "SearchItems", []byte(`{"a":1}`), now)

	assert.NotEqual(t, base["Authorization"], otherPayload["Authorization"])
	assert.NotEqual(t, base["Authorization"], otherSecret["Authorization"])
}

package search

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PA-API v5 uses AWS Signature Version 4
const (
	serviceName  = "ProductAdvertisingAPI"
	algorithm    = "AWS4-HMAC-SHA256"
	targetPrefix = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1."
)

// signHeaders builds the signed header set for a PA-API POST request.
// The target is the operation name, e.g. "SearchItems" or "GetItems".
func signHeaders(accessKey, secretKey, host, path, region, target string, payload []byte, now time.Time) map[string]string {
	amzDate := now.UTC().Format("20060102T150405Z")
	datestamp := now.UTC().Format("20060102")

	headers := map[string]string{
		"host":             host,
		"x-amz-date":       amzDate,
		"content-encoding": "amz-1.0",
		"content-type":     "application/json; charset=utf-8",
		"x-amz-target":     targetPrefix + target,
	}

	// Canonical request
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var canonicalHeaders strings.Builder
	for _, k := range keys {
		canonicalHeaders.WriteString(k + ":" + headers[k] + "\n")
	}
	signedHeaders := strings.Join(keys, ";")

	payloadHash := sha256Hex(payload)
	canonicalRequest := strings.Join([]string{
		"POST",
		path,
		"", // empty query string
		canonicalHeaders.String(),
		signedHeaders,
		payloadHash,
	}, "\n")

	// String to sign
	credentialScope := datestamp + "/" + region + "/" + serviceName + "/aws4_request"
	stringToSign := strings.Join([]string{
		algorithm,
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	// Signing key derivation
	signingKey := hmacSHA256([]byte("AWS4"+secretKey), datestamp)
	signingKey = hmacSHA256(signingKey, region)
	signingKey = hmacSHA256(signingKey, serviceName)
	signingKey = hmacSHA256(signingKey, "aws4_request")

	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	headers["Authorization"] = fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, accessKey, credentialScope, signedHeaders, signature,
	)

	return headers
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, message string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

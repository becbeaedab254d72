// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package s3

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

func sha256MAC(message, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// signV4 signs req with AWS Signature Version 4, extending
// plugins/rest/aws.go's signV4 to canonicalise the query string (S3's
// ListObjectsV2 is a GET with query parameters, which the original
// single-purpose signer left unimplemented).
func signV4(req *http.Request, region string, creds Credentials, now time.Time) error {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("s3: reading request body: %w", err)
		}
		body = b
	}
	bodyHash := fmt.Sprintf("%x", sha256.Sum256(body))

	now = now.UTC()
	dateNow := now.Format("20060102")
	iso8601Now := now.Format("20060102T150405Z")

	headers := map[string]string{
		"host":                 req.URL.Hostname(),
		"x-amz-content-sha256": bodyHash,
		"x-amz-date":           iso8601Now,
	}
	if creds.SessionToken != "" {
		headers["x-amz-security-token"] = creds.SessionToken
	}

	canonicalReq := req.Method + "\n"
	canonicalReq += req.URL.EscapedPath() + "\n"
	canonicalReq += canonicalQueryString(req.URL.Query()) + "\n"

	orderedKeys := sortedKeys(headers)
	for _, k := range orderedKeys {
		canonicalReq += k + ":" + headers[k] + "\n"
	}
	canonicalReq += "\n"

	headerList := strings.Join(orderedKeys, ";")
	canonicalReq += headerList + "\n"
	canonicalReq += bodyHash

	strToSign := "AWS4-HMAC-SHA256\n"
	strToSign += iso8601Now + "\n"
	strToSign += dateNow + "/" + region + "/s3/aws4_request\n"
	strToSign += fmt.Sprintf("%x", sha256.Sum256([]byte(canonicalReq)))

	signingKey := sha256MAC([]byte(dateNow), []byte("AWS4"+creds.SecretKey))
	signingKey = sha256MAC([]byte(region), signingKey)
	signingKey = sha256MAC([]byte("s3"), signingKey)
	signingKey = sha256MAC([]byte("aws4_request"), signingKey)

	signature := sha256MAC([]byte(strToSign), signingKey)

	authHdr := "AWS4-HMAC-SHA256 Credential=" + creds.AccessKey + "/" + dateNow
	authHdr += "/" + region + "/s3/aws4_request,"
	authHdr += "SignedHeaders=" + headerList + ","
	authHdr += "Signature=" + fmt.Sprintf("%x", signature)

	req.Header.Set("Authorization", authHdr)
	for _, k := range orderedKeys {
		req.Header.Set(k, headers[k])
	}
	return nil
}

// canonicalQueryString renders query parameters URI-encoded and
// sorted by key, per AWS SigV4's canonical query string rules.
func canonicalQueryString(q map[string][]string) string {
	keys := sortedKeys(flattenFirst(q))
	var parts []string
	for _, k := range keys {
		for _, v := range q[k] {
			parts = append(parts, uriEncode(k)+"="+uriEncode(v))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

func flattenFirst(q map[string][]string) map[string]string {
	out := make(map[string]string, len(q))
	for k := range q {
		out[k] = ""
	}
	return out
}

func uriEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

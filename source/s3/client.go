// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package s3

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nixar0x0/amadeus/errs"
	"github.com/nixar0x0/amadeus/logging"
	"github.com/nixar0x0/amadeus/metrics"
	"github.com/nixar0x0/amadeus/retry"
	"github.com/nixar0x0/amadeus/source"
)

// retryLog rate-limits the warnings logged when range-GETs or
// listings need to retry against S3, so a sustained outage produces
// one log line every few seconds instead of one per in-flight page.
var retryLog = logging.NewRetryLogger(5 * time.Second)

// Directory lists S3 objects under Bucket/Prefix, per spec.md §4.2's
// object-store listing contract. Grounded on amadeus-aws/src/file.rs's
// S3Directory.
type Directory struct {
	Region      string
	Bucket      string
	Prefix      string
	Credentials Credentials

	// Endpoint overrides the default https://bucket.s3.region.amazonaws.com
	// base URL, for S3-compatible stores and tests.
	Endpoint string
}

var _ source.Directory = Directory{}

// lenCache caches HEAD-probed page lengths keyed by bucket/key, so
// repeated opens of the same partition (e.g. across retries) skip a
// redundant HEAD round-trip.
var lenCache, _ = lru.New[string, uint64](4096)

// Partitions lists every object under d's prefix, with no filtering.
func (d Directory) Partitions(ctx context.Context) ([]source.Partition, error) {
	return d.PartitionsFilter(ctx, func(*source.PathBuf) bool { return true })
}

// PartitionsFilter lists objects under the prefix and walks them
// through source.Walk, per spec.md §4.2.
func (d Directory) PartitionsFilter(ctx context.Context, f source.FilterFunc) ([]source.Partition, error) {
	objects, err := listObjects(ctx, d.Region, d.Bucket, d.Prefix, d.Credentials, d.Endpoint)
	if err != nil {
		return nil, err
	}
	return source.Walk(objects, f, func(o source.ListedObject) source.Partition {
		return Partition{
			Region:      d.Region,
			Bucket:      d.Bucket,
			Key:         d.Prefix + o.Key,
			Len:         o.Size,
			Credentials: d.Credentials.Clone(),
			Endpoint:    d.Endpoint,
		}
	})
}

// Partition is one S3 object, exposing itself as a single whole-object
// Page (S3 is not format-split at this layer).
type Partition struct {
	Region      string
	Bucket      string
	Key         string
	Len         uint64
	Credentials Credentials
	Endpoint    string
}

var _ source.Partition = Partition{}

func (p Partition) Pages(ctx context.Context) ([]source.Page, error) {
	return []source.Page{Page{
		Region:      p.Region,
		Bucket:      p.Bucket,
		Key:         p.Key,
		len:         p.Len,
		Credentials: p.Credentials.Clone(),
		Endpoint:    p.Endpoint,
	}}, nil
}

// Page reads byte ranges of one S3 object via signed GET requests,
// retrying transient failures per spec.md §4.3.
type Page struct {
	Region      string
	Bucket      string
	Key         string
	len         uint64
	Credentials Credentials
	Endpoint    string
}

var _ source.Page = Page{}

// Len returns the page's fixed length, probing it via HEAD (cached by
// bucket/key) if it was not already known from a directory listing.
func (p Page) Len(ctx context.Context) (uint64, error) {
	if p.len > 0 {
		return p.len, nil
	}
	cacheKey := p.Bucket + "/" + p.Key
	if v, ok := lenCache.Get(cacheKey); ok {
		return v, nil
	}
	var length uint64
	err := retry.Do(ctx, retry.DefaultBackoff(), func(int) error {
		n, err := headContentLength(ctx, p.Region, p.Bucket, p.Key, p.Credentials, p.Endpoint)
		if err != nil {
			return err
		}
		length = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	lenCache.Add(cacheKey, length)
	return length, nil
}

// Read returns exactly min(len, fileLen-offset) bytes, retrying short
// or failed transport reads within the call while preserving bytes
// already written, per spec.md §4.2/§4.3.
func (p Page) Read(ctx context.Context, offset uint64, length int) ([]byte, error) {
	fileLen, err := p.Len(ctx)
	if err != nil {
		return nil, err
	}
	if offset >= fileLen {
		return []byte{}, nil
	}
	want := uint64(length)
	if remaining := fileLen - offset; want > remaining {
		want = remaining
	}
	buf := make([]byte, want)
	pos := uint64(0)

	for pos < want {
		start := offset + pos
		end := offset + want - 1
		n, err := retryRangeGet(ctx, p, start, end, buf[pos:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		pos += uint64(n)
	}
	return buf[:pos], nil
}

// Write is deferred per spec.md §4.2/§9; the write path is
// unspecified in the source and must not be guessed.
func (p Page) Write(ctx context.Context, offset uint64, buf []byte) error {
	return errs.New(errs.Unsupported, "s3: Page.Write is not implemented")
}

func retryRangeGet(ctx context.Context, p Page, start, end uint64, dst []byte) (int, error) {
	var n int
	attempts := 0
	err := retry.Do(ctx, retry.DefaultBackoff(), func(int) error {
		attempts++
		got, err := rangeGet(ctx, p.Region, p.Bucket, p.Key, p.Credentials, start, end, dst, p.Endpoint)
		if err != nil {
			retryLog.Retrying(p.Bucket+"/"+p.Key, attempts, err)
			return err
		}
		n = got
		return nil
	})
	if attempts > 1 {
		outcome := "succeeded"
		if err != nil {
			outcome = "exhausted"
		}
		metrics.SourceReadRetries.WithLabelValues(outcome).Add(float64(attempts - 1))
	}
	if err == nil {
		metrics.SourceBytesRead.Add(float64(n))
	}
	return n, err
}

func rangeGet(ctx context.Context, region, bucket, key string, creds Credentials, start, end uint64, dst []byte, endpoint string) (int, error) {
	if err := sharedLimiter().Wait(ctx); err != nil {
		return 0, errs.Wrap(err)
	}
	u := objectURL(region, bucket, key, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, errs.Wrap(err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	if err := signV4(req, region, creds, time.Now()); err != nil {
		return 0, errs.Wrap(err)
	}

	resp, err := sharedDispatcher().Do(req)
	if err != nil {
		return 0, errs.New(errs.TransportTransient, "s3: dispatch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return 0, errs.New(errs.TransportTransient, "s3: server error %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return 0, errs.New(errs.TransportFatal, "s3: unexpected status %d", resp.StatusCode)
	}

	n, err := io.ReadFull(resp.Body, dst)
	if err != nil && err != io.ErrUnexpectedEOF && !errs.IsEOF(err) {
		return n, errs.New(errs.TransportTransient, "s3: reading body: %v", err)
	}
	return n, nil
}

func headContentLength(ctx context.Context, region, bucket, key string, creds Credentials, endpoint string) (uint64, error) {
	if err := sharedLimiter().Wait(ctx); err != nil {
		return 0, errs.Wrap(err)
	}
	u := objectURL(region, bucket, key, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return 0, errs.Wrap(err)
	}
	if err := signV4(req, region, creds, time.Now()); err != nil {
		return 0, errs.Wrap(err)
	}
	resp, err := sharedDispatcher().Do(req)
	if err != nil {
		return 0, errs.New(errs.TransportTransient, "s3: dispatch: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return 0, errs.New(errs.TransportTransient, "s3: server error %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, errs.New(errs.TransportFatal, "s3: unexpected status %d", resp.StatusCode)
	}
	n, err := strconv.ParseUint(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0, errs.New(errs.TransportFatal, "s3: missing or invalid Content-Length: %v", err)
	}
	return n, nil
}

func objectURL(region, bucket, key, endpoint string) string {
	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", endpoint, bucket, url.PathEscape(key))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, url.PathEscape(key))
}

type listBucketResult struct {
	XMLName               xml.Name `xml:"ListBucketResult"`
	IsTruncated           bool     `xml:"IsTruncated"`
	NextContinuationToken string   `xml:"NextContinuationToken"`
	Contents              []struct {
		Key  string `xml:"Key"`
		Size uint64 `xml:"Size"`
	} `xml:"Contents"`
}

// listObjects pages through ListObjectsV2, returning every object
// under prefix with its key already stripped of that prefix, in the
// order S3 returned them (S3 guarantees UTF-8 lexicographic order,
// the precondition source.Walk verifies).
func listObjects(ctx context.Context, region, bucket, prefix string, creds Credentials, endpoint string) ([]source.ListedObject, error) {
	var out []source.ListedObject
	continuationToken := ""
	for {
		page, next, truncated, err := listObjectsPage(ctx, region, bucket, prefix, continuationToken, creds, endpoint)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if !truncated {
			break
		}
		continuationToken = next
	}
	return out, nil
}

func listObjectsPage(ctx context.Context, region, bucket, prefix, continuationToken string, creds Credentials, endpoint string) ([]source.ListedObject, string, bool, error) {
	if err := sharedLimiter().Wait(ctx); err != nil {
		return nil, "", false, errs.Wrap(err)
	}
	base := endpoint + "/" + bucket + "/"
	if endpoint == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return nil, "", false, errs.Wrap(err)
	}
	q := req.URL.Query()
	q.Set("list-type", "2")
	q.Set("prefix", prefix)
	if continuationToken != "" {
		q.Set("continuation-token", continuationToken)
	}
	req.URL.RawQuery = q.Encode()

	if err := signV4(req, region, creds, time.Now()); err != nil {
		return nil, "", false, errs.Wrap(err)
	}

	var result listBucketResult
	listAttempts := 0
	err = retry.Do(ctx, retry.DefaultBackoff(), func(int) error {
		listAttempts++
		resp, err := sharedDispatcher().Do(req)
		if err != nil {
			err = errs.New(errs.TransportTransient, "s3: dispatch: %v", err)
			retryLog.Retrying(bucket+"/"+prefix, listAttempts, err)
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			err := errs.New(errs.TransportTransient, "s3: server error %d", resp.StatusCode)
			retryLog.Retrying(bucket+"/"+prefix, listAttempts, err)
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return errs.New(errs.TransportFatal, "s3: unexpected status %d", resp.StatusCode)
		}
		return xml.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return nil, "", false, err
	}

	objects := make([]source.ListedObject, 0, len(result.Contents))
	for _, c := range result.Contents {
		key := c.Key
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			return nil, "", false, errs.New(errs.ListingContractViolation, "s3: key %q does not start with prefix %q", key, prefix)
		}
		objects = append(objects, source.ListedObject{Key: key[len(prefix):], Size: c.Size})
	}
	return objects, result.NextContinuationToken, result.IsTruncated, nil
}

package oss

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glin-gogogo/go-oss-datastore/utils"
	"github.com/go-http-utils/headers"
)

// do assembles and sends one signed request: dates the header set, computes
// the Authorization value, validates every header byte, then hands the
// request to the transport. No retries, no timeouts.
func (c *Client) do(ctx context.Context, verb, object, query, resource string, h http.Header, body []byte) (*TransportResponse, error) {
	if h == nil {
		h = http.Header{}
	}
	h.Set("Date", c.date())
	if body != nil {
		h.Set(headers.ContentLength, strconv.Itoa(len(body)))
	}
	h.Set(headers.Authorization, c.authorization(verb, object, resource, h))

	if err := checkHeaders(h); err != nil {
		return nil, err
	}

	u := c.url(object, query)
	log.Debugf("%s %s", verb, u)
	return c.transport.Do(ctx, verb, u, h, body)
}

// GetObject fetches an object. metaKeys selects which user metadata entries
// are lifted off the response headers into the result's Meta map; params
// join the URL, allow-listed names also sign.
func (c *Client) GetObject(ctx context.Context, object string, metaKeys []string, params map[string]*string) (*GetObjectResult, error) {
	resp, err := c.do(ctx, "GET", object, queryString(params), CanonicalResource(params), nil, nil)
	if err != nil {
		return nil, err
	}
	if !success(resp.StatusCode) {
		return nil, statusError(KindGet, "get", resp.StatusCode)
	}

	meta := make(map[string]string)
	for _, k := range metaKeys {
		if v := resp.Header.Get(MetaPrefix + k); v != "" {
			meta[k] = v
		}
	}

	return &GetObjectResult{
		Content: resp.Body,
		Meta:    meta,
		Headers: resp.Header,
	}, nil
}

// PutObject writes buf under the object key. A nil opts sends an
// octet-stream body with no metadata.
func (c *Client) PutObject(ctx context.Context, buf []byte, object string, opts *PutOptions) error {
	h, query, resource := putRequestShape(opts)
	if buf == nil {
		buf = []byte{}
	}

	resp, err := c.do(ctx, "PUT", object, query, resource, h, buf)
	if err != nil {
		return err
	}
	if !success(resp.StatusCode) {
		return statusError(KindPut, "put", resp.StatusCode)
	}
	return nil
}

// CopyObject server-side copies source onto the object key. A bare source
// key is resolved against the client's bucket; "/bucket/key" addresses
// another bucket.
func (c *Client) CopyObject(ctx context.Context, source, object string, opts *PutOptions) error {
	h, query, resource := putRequestShape(opts)
	if !strings.HasPrefix(source, "/") {
		source = "/" + c.bucket + "/" + source
	}
	h.Set(copySourceHeader, source)

	resp, err := c.do(ctx, "PUT", object, query, resource, h, nil)
	if err != nil {
		return err
	}
	if !success(resp.StatusCode) {
		return statusError(KindCopy, "copy", resp.StatusCode)
	}
	return nil
}

func putRequestShape(opts *PutOptions) (h http.Header, query, resource string) {
	h = http.Header{}
	if opts != nil {
		for k, v := range opts.Meta {
			h.Set(MetaPrefix+k, v)
		}
		for k, v := range opts.Headers {
			h.Set(k, v)
		}
		if opts.ContentType != "" {
			h.Set(headers.ContentType, opts.ContentType)
		}
		query = queryString(opts.Params)
		resource = CanonicalResource(opts.Params)
	}
	if h.Get(headers.ContentType) == "" {
		h.Set(headers.ContentType, utils.DefaultContentType)
	}
	return h, query, resource
}

func (c *Client) DeleteObject(ctx context.Context, object string) error {
	resp, err := c.do(ctx, "DELETE", object, "", "", nil, nil)
	if err != nil {
		return err
	}
	if !success(resp.StatusCode) {
		return statusError(KindDelete, "delete", resp.StatusCode)
	}
	return nil
}

// DeleteObjects removes the given keys one by one, stopping at the first
// failure.
func (c *Client) DeleteObjects(ctx context.Context, objects []string) error {
	for _, object := range objects {
		if err := c.DeleteObject(ctx, object); err != nil {
			return err
		}
	}
	return nil
}

// HeadObject returns the object's user metadata: every response header under
// the MetaPrefix, with the prefix stripped.
func (c *Client) HeadObject(ctx context.Context, object string) (map[string]string, error) {
	resp, err := c.do(ctx, "HEAD", object, "", "", nil, nil)
	if err != nil {
		return nil, err
	}
	if !success(resp.StatusCode) {
		return nil, statusError(KindHead, "head", resp.StatusCode)
	}

	meta := make(map[string]string)
	for name, values := range resp.Header {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, MetaPrefix) && len(values) > 0 {
			meta[strings.TrimPrefix(lower, MetaPrefix)] = values[0]
		}
	}
	return meta, nil
}

// ListObjects returns the flat key list of one listing page.
func (c *Client) ListObjects(ctx context.Context, opts ListOptions) ([]string, error) {
	query, resource := listQuery(opts)
	resp, err := c.do(ctx, "GET", "", query, resource, nil, nil)
	if err != nil {
		return nil, err
	}
	if !success(resp.StatusCode) {
		return nil, statusError(KindList, "list", resp.StatusCode)
	}
	return decodeKeys(resp.Body)
}

// ListDetails returns one detailed listing page. Continue a truncated
// listing by feeding NextMarker back as the next call's Marker.
func (c *Client) ListDetails(ctx context.Context, opts ListOptions) (*ListPage, error) {
	query, resource := listQuery(opts)
	resp, err := c.do(ctx, "GET", "", query, resource, nil, nil)
	if err != nil {
		return nil, err
	}
	if !success(resp.StatusCode) {
		return nil, statusError(KindList, "list", resp.StatusCode)
	}
	return decodeListPage(resp.Body)
}

// SignedURL mints a presigned URL a credential-less bearer can use until
// expiresIn elapses. A zero duration falls back to DefaultSignedURLExpiry.
func (c *Client) SignedURL(object string, method Method, expiresIn time.Duration) (string, error) {
	if expiresIn <= 0 {
		expiresIn = DefaultSignedURLExpiry
	}
	expires := time.Now().Add(expiresIn).Unix()
	return c.signURL(string(method), object, expires, http.Header{}), nil
}

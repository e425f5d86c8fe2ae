package oss

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-http-utils/headers"
)

// canonicalizedOSSHeaders projects the signature-relevant header subset:
// provider-prefixed names only, lower-cased, duplicate names merged with
// comma-joined values, sorted by name, one "name:value" entry per header.
func canonicalizedOSSHeaders(h http.Header) []string {
	grouped := make(map[string][]string)
	for name, values := range h {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, ossHeaderPrefix) {
			continue
		}
		grouped[lower] = append(grouped[lower], values...)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]string, 0, len(names))
	for _, name := range names {
		entries = append(entries, name+":"+strings.Join(grouped[name], ","))
	}
	return entries
}

// resourcePath renders the canonicalized resource: the bucket/object path
// plus the signature-relevant query projection.
func resourcePath(bucket, object, resource string) string {
	p := "/" + bucket + "/" + object
	if resource != "" {
		p += "?" + resource
	}
	return p
}

// stringToSign assembles the exact multi-line string hashed into the request
// signature. Each canonicalized header entry sits on its own line; an empty
// header set leaves an empty line between the date and the resource.
func stringToSign(verb, contentMD5, contentType, date string, ossHeaders []string, resource string) string {
	return strings.Join([]string{
		verb,
		contentMD5,
		contentType,
		date,
		strings.Join(ossHeaders, "\n"),
		resource,
	}, "\n")
}

func sign(keySecret, strToSign string) string {
	mac := hmac.New(sha1.New, []byte(keySecret))
	mac.Write([]byte(strToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// authorization signs a header-dated request and renders the Authorization
// header value. The Date header must already be set.
func (c *Client) authorization(verb, object, resource string, h http.Header) string {
	strToSign := stringToSign(
		verb,
		h.Get(headers.ContentMD5),
		h.Get(headers.ContentType),
		h.Get("Date"),
		canonicalizedOSSHeaders(h),
		resourcePath(c.bucket, object, resource),
	)
	return fmt.Sprintf("OSS %s:%s", c.keyID, sign(c.keySecret, strToSign))
}

// signURL is the query-embedded signing shape: the date slot carries the
// expiry as epoch seconds and the signature travels as query parameters, so
// a bearer without credentials can issue the request until the expiry.
func (c *Client) signURL(verb, object string, expires int64, h http.Header) string {
	strToSign := stringToSign(
		verb,
		h.Get(headers.ContentMD5),
		h.Get(headers.ContentType),
		strconv.FormatInt(expires, 10),
		canonicalizedOSSHeaders(h),
		resourcePath(c.bucket, object, ""),
	)
	signature := sign(c.keySecret, strToSign)

	query := fmt.Sprintf("OSSAccessKeyId=%s&Expires=%d&Signature=%s",
		url.QueryEscape(c.keyID), expires, url.QueryEscape(signature))
	return c.url(object, query)
}

// checkHeaders rejects header names and values carrying bytes that cannot
// travel in an HTTP/1.x header. Runs after the Authorization header is
// assembled, so the assembled value is covered too.
func checkHeaders(h http.Header) error {
	for name, values := range h {
		if !validHeaderName(name) {
			return &Error{Kind: KindHeader, Message: fmt.Sprintf("invalid header name %q", name)}
		}
		for _, v := range values {
			if !validHeaderValue(v) {
				return &Error{Kind: KindHeader, Message: fmt.Sprintf("invalid value for header %q", name)}
			}
		}
	}
	return nil
}

func validHeaderName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
			continue
		}
		return false
	}
	return true
}

func validHeaderValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 0x7f || (c < 0x20 && c != '\t') {
			return false
		}
	}
	return true
}

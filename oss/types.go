package oss

import (
	"net/http"
	"unicode/utf8"
)

// PutOptions configures PutObject and CopyObject. The zero value sends an
// octet-stream body with no metadata, no extra headers and no query
// parameters.
type PutOptions struct {
	ContentType string
	// Meta travels under the MetaPrefix header namespace.
	Meta map[string]string
	// Headers are merged verbatim into the request.
	Headers map[string]string
	// Params join the request URL; allow-listed names also sign.
	Params map[string]*string
}

// ListOptions cursors a bucket listing. Marker is the opaque continuation
// token of the prior page and must be threaded unchanged. MaxKeys == 0
// leaves the page size to the server.
type ListOptions struct {
	Prefix    string
	Marker    string
	Delimiter string
	MaxKeys   int
}

// ObjectSummary is one listing entry, fields verbatim from the wire.
type ObjectSummary struct {
	Key          string
	LastModified string
	ETag         string
	Size         string
}

// ListPage is one page of a detailed listing. IsTruncated == false implies
// NextMarker is empty and the listing is complete.
type ListPage struct {
	Objects     []ObjectSummary
	Prefixes    []string
	IsTruncated bool
	NextMarker  string
}

// GetObjectResult carries the fetched body, the selected user metadata and
// the raw response headers.
type GetObjectResult struct {
	Content []byte
	Meta    map[string]string
	Headers http.Header
}

// Text coerces the body to a string, failing on invalid UTF-8.
func (r *GetObjectResult) Text() (string, error) {
	if !utf8.Valid(r.Content) {
		return "", &Error{Kind: KindGet, Message: "object body is not valid utf-8"}
	}
	return string(r.Content), nil
}

// String is a convenience for building valued Params entries; a nil entry
// renders as a bare flag.
func String(s string) *string {
	return &s
}

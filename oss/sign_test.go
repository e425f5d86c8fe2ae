package oss

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/glin-gogogo/go-oss-datastore/utils"
	"github.com/stretchr/testify/assert"
)

func testClient() *Client {
	return NewFromConfig(utils.Config{
		Endpoint:  "https://oss-cn-hangzhou.aliyuncs.com",
		AccessKey: "test-key-id",
		SecretKey: "test-key-secret",
		Bucket:    "b",
	})
}

func TestStringToSignFixedScenario(t *testing.T) {
	got := stringToSign("PUT", "", "", "Mon, 01 Jan 2024 00:00:00 GMT", nil, resourcePath("b", "o.txt", ""))
	assert.Equal(t, "PUT\n\n\nMon, 01 Jan 2024 00:00:00 GMT\n\n/b/o.txt", got)
}

func TestStringToSignWithHeadersAndResource(t *testing.T) {
	h := http.Header{}
	h.Set("x-oss-meta-a", "1")
	h.Set("X-Oss-Meta-B", "2")
	h.Set("Content-Type", "text/plain")

	got := stringToSign("GET", "", "text/plain", "Mon, 01 Jan 2024 00:00:00 GMT",
		canonicalizedOSSHeaders(h), resourcePath("b", "o.txt", "acl"))
	want := "GET\n\ntext/plain\nMon, 01 Jan 2024 00:00:00 GMT\n" +
		"x-oss-meta-a:1\nx-oss-meta-b:2\n/b/o.txt?acl"
	assert.Equal(t, want, got)
}

func TestCanonicalizedOSSHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "text/plain")
	h.Set("X-Oss-Meta-Zeta", "z")
	h.Set("x-oss-meta-alpha", "a")

	entries := canonicalizedOSSHeaders(h)
	assert.Equal(t, []string{"x-oss-meta-alpha:a", "x-oss-meta-zeta:z"}, entries)
}

func TestCanonicalizedOSSHeadersMergesDuplicates(t *testing.T) {
	h := http.Header{}
	h.Add("x-oss-meta-a", "1")
	h.Add("x-oss-meta-a", "2")

	entries := canonicalizedOSSHeaders(h)
	assert.Equal(t, []string{"x-oss-meta-a:1,2"}, entries)
}

func TestAuthorizationDeterministic(t *testing.T) {
	c := testClient()
	h := http.Header{}
	h.Set("Date", "Mon, 01 Jan 2024 00:00:00 GMT")

	first := c.authorization("PUT", "o.txt", "", h)
	second := c.authorization("PUT", "o.txt", "", h)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "OSS test-key-id:"))

	sig := strings.TrimPrefix(first, "OSS test-key-id:")
	raw, err := base64.StdEncoding.DecodeString(sig)
	assert.NoError(t, err)
	assert.Len(t, raw, 20) // sha1 digest
}

func TestSignURLShape(t *testing.T) {
	c := testClient()
	u := c.signURL("GET", "o.txt", 1704067200, http.Header{})

	assert.True(t, strings.HasPrefix(u, "https://b.oss-cn-hangzhou.aliyuncs.com/o.txt?"))
	assert.Contains(t, u, "OSSAccessKeyId=test-key-id")
	assert.Contains(t, u, "Expires=1704067200")
	assert.Contains(t, u, "Signature=")

	again := c.signURL("GET", "o.txt", 1704067200, http.Header{})
	assert.Equal(t, u, again)
}

func TestCheckHeadersRejectsBadBytes(t *testing.T) {
	h := http.Header{}
	h["x-oss-meta-ok"] = []string{"fine"}
	h["bad name"] = []string{"v"}

	err := checkHeaders(h)
	assert.Error(t, err)
	var ossErr *Error
	assert.ErrorAs(t, err, &ossErr)
	assert.Equal(t, KindHeader, ossErr.Kind)

	h = http.Header{}
	h.Set("x-oss-meta-a", "line\nbreak")
	err = checkHeaders(h)
	assert.Error(t, err)
}

func TestWithBucketReturnsCopy(t *testing.T) {
	c := testClient()
	other := c.WithBucket("other")

	assert.Equal(t, "b", c.Bucket())
	assert.Equal(t, "other", other.Bucket())
	assert.Equal(t, c.Endpoint(), other.Endpoint())
}

func TestURLAssembly(t *testing.T) {
	c := testClient()
	assert.Equal(t, "https://b.oss-cn-hangzhou.aliyuncs.com/o.txt", c.url("o.txt", ""))
	assert.Equal(t, "https://b.oss-cn-hangzhou.aliyuncs.com/?list-type=2", c.url("", "list-type=2"))

	plain := NewFromConfig(utils.Config{Endpoint: "http://localhost:9000", Bucket: "b"})
	assert.Equal(t, "http://b.localhost:9000/o.txt", plain.url("o.txt", ""))
}

package oss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const listingDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult>
  <Name>b</Name>
  <Prefix>logs/</Prefix>
  <MaxKeys>2</MaxKeys>
  <IsTruncated>true</IsTruncated>
  <NextContinuationToken>tok-2</NextContinuationToken>
  <Contents>
    <Key>logs/a.txt</Key>
    <LastModified>2024-01-01T00:00:00.000Z</LastModified>
    <ETag>"etag-a"</ETag>
    <Size>11</Size>
    <StorageClass>Standard</StorageClass>
  </Contents>
  <Contents>
    <Key>logs/b.txt</Key>
    <LastModified>2024-01-02T00:00:00.000Z</LastModified>
    <ETag>"etag-b"</ETag>
    <Size>22</Size>
  </Contents>
  <CommonPrefixes>
    <Prefix>logs/2024/</Prefix>
  </CommonPrefixes>
  <CommonPrefixes>
    <Prefix>logs/2025/</Prefix>
  </CommonPrefixes>
</ListBucketResult>`

func TestDecodeListPage(t *testing.T) {
	page, err := decodeListPage([]byte(listingDoc))
	assert.NoError(t, err)

	assert.Len(t, page.Objects, 2)
	assert.Equal(t, ObjectSummary{
		Key:          "logs/a.txt",
		LastModified: "2024-01-01T00:00:00.000Z",
		ETag:         `"etag-a"`,
		Size:         "11",
	}, page.Objects[0])
	assert.Equal(t, "logs/b.txt", page.Objects[1].Key)
	assert.Equal(t, "22", page.Objects[1].Size)

	assert.True(t, page.IsTruncated)
	assert.Equal(t, "tok-2", page.NextMarker)

	// Only prefixes inside CommonPrefixes count; the top-level request echo
	// must not leak in.
	assert.Equal(t, []string{"logs/2024/", "logs/2025/"}, page.Prefixes)
}

func TestDecodeListPageComplete(t *testing.T) {
	doc := `<ListBucketResult>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>k</Key><Size>1</Size></Contents>
</ListBucketResult>`
	page, err := decodeListPage([]byte(doc))
	assert.NoError(t, err)
	assert.False(t, page.IsTruncated)
	assert.Equal(t, "", page.NextMarker)
	assert.Len(t, page.Objects, 1)
}

func TestDecodeListPageIgnoresUnknownTags(t *testing.T) {
	doc := `<ListBucketResult>
  <KeyCount>1</KeyCount>
  <Contents>
    <Key>k</Key>
    <Owner><ID>0</ID><DisplayName>n</DisplayName></Owner>
    <Size>5</Size>
  </Contents>
  <FutureField>whatever</FutureField>
</ListBucketResult>`
	page, err := decodeListPage([]byte(doc))
	assert.NoError(t, err)
	assert.Len(t, page.Objects, 1)
	assert.Equal(t, "k", page.Objects[0].Key)
	assert.Equal(t, "5", page.Objects[0].Size)
}

func TestDecodeListPageBadTruncationFlag(t *testing.T) {
	doc := `<ListBucketResult><IsTruncated>maybe</IsTruncated></ListBucketResult>`
	page, err := decodeListPage([]byte(doc))
	assert.Nil(t, page)
	var ossErr *Error
	assert.ErrorAs(t, err, &ossErr)
	assert.Equal(t, KindDecode, ossErr.Kind)
}

func TestDecodeListPageTruncatedDocument(t *testing.T) {
	doc := `<ListBucketResult><Contents><Key>k</Key>`
	page, err := decodeListPage([]byte(doc))
	assert.Nil(t, page)
	var ossErr *Error
	assert.ErrorAs(t, err, &ossErr)
	assert.Equal(t, KindDecode, ossErr.Kind)
}

func TestDecodeKeysDocumentOrder(t *testing.T) {
	keys, err := decodeKeys([]byte(listingDoc))
	assert.NoError(t, err)
	assert.Equal(t, []string{"logs/a.txt", "logs/b.txt"}, keys)
}

func TestDecodeKeysEmptyListing(t *testing.T) {
	keys, err := decodeKeys([]byte(`<ListBucketResult></ListBucketResult>`))
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

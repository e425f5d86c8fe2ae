package oss

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// Tag vocabulary of the listing document. Unrecognized tags are skipped so
// additive schema changes stay compatible.
const (
	tagContents       = "Contents"
	tagKey            = "Key"
	tagLastModified   = "LastModified"
	tagETag           = "ETag"
	tagSize           = "Size"
	tagIsTruncated    = "IsTruncated"
	tagNextMarker     = "NextContinuationToken"
	tagCommonPrefixes = "CommonPrefixes"
	tagPrefix         = "Prefix"
)

// decodeState tracks which container the decoder is inside. A single flat
// token loop switches on it instead of nesting per-container read loops.
type decodeState int

const (
	stateScan decodeState = iota
	stateContents
	stateCommonPrefixes
)

// decodeListPage walks a listing document as a forward-only token stream and
// accumulates a ListPage. A malformed document, or an unparsable truncation
// flag, fails the whole decode; no partial page is returned.
func decodeListPage(body []byte) (*ListPage, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	page := &ListPage{}
	state := stateScan
	var cur ObjectSummary

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if state != stateScan {
				return nil, decodeError("unexpected end of listing document", nil)
			}
			return page, nil
		}
		if err != nil {
			return nil, decodeError("malformed listing document", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch state {
			case stateScan:
				switch name {
				case tagContents:
					cur = ObjectSummary{}
					state = stateContents
				case tagCommonPrefixes:
					state = stateCommonPrefixes
				case tagIsTruncated:
					text, err := elementText(dec)
					if err != nil {
						return nil, err
					}
					truncated, perr := strconv.ParseBool(strings.TrimSpace(text))
					if perr != nil {
						return nil, decodeError("bad IsTruncated value", perr)
					}
					page.IsTruncated = truncated
				case tagNextMarker:
					text, err := elementText(dec)
					if err != nil {
						return nil, err
					}
					page.NextMarker = text
				}
			case stateContents:
				switch name {
				case tagKey, tagLastModified, tagETag, tagSize:
					text, err := elementText(dec)
					if err != nil {
						return nil, err
					}
					switch name {
					case tagKey:
						cur.Key = text
					case tagLastModified:
						cur.LastModified = text
					case tagETag:
						cur.ETag = text
					case tagSize:
						cur.Size = text
					}
				}
			case stateCommonPrefixes:
				// Prefix only counts inside CommonPrefixes; the top-level
				// request echo never reaches this state.
				if name == tagPrefix {
					text, err := elementText(dec)
					if err != nil {
						return nil, err
					}
					page.Prefixes = append(page.Prefixes, text)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case tagContents:
				if state == stateContents {
					page.Objects = append(page.Objects, cur)
					cur = ObjectSummary{}
					state = stateScan
				}
			case tagCommonPrefixes:
				if state == stateCommonPrefixes {
					state = stateScan
				}
			}
		}
	}
}

// decodeKeys extracts every Key text node of a listing document, in document
// order.
func decodeKeys(body []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var keys []string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return keys, nil
		}
		if err != nil {
			return nil, decodeError("malformed listing document", err)
		}

		if t, ok := tok.(xml.StartElement); ok && t.Name.Local == tagKey {
			text, terr := elementText(dec)
			if terr != nil {
				return nil, terr
			}
			keys = append(keys, text)
		}
	}
}

// elementText consumes tokens through the matching end tag and returns the
// element's own character data, ignoring nested elements.
func elementText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", decodeError("malformed listing document", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 1 {
				b.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}

package oss

import (
	"sort"
	"strconv"
	"strings"
)

// subResources is the fixed set of query parameter names the service
// reflects into the signature. Anything outside this set still travels in
// the request URL but never feeds the canonicalized resource.
var subResources = map[string]struct{}{
	"acl":                          {},
	"uploads":                      {},
	"location":                     {},
	"cors":                         {},
	"logging":                      {},
	"website":                      {},
	"referer":                      {},
	"lifecycle":                    {},
	"delete":                       {},
	"append":                       {},
	"tagging":                      {},
	"objectMeta":                   {},
	"uploadId":                     {},
	"partNumber":                   {},
	"security-token":               {},
	"position":                     {},
	"img":                          {},
	"style":                        {},
	"styleName":                    {},
	"replication":                  {},
	"replicationProgress":          {},
	"replicationLocation":          {},
	"cname":                        {},
	"bucketInfo":                   {},
	"comp":                         {},
	"qos":                          {},
	"live":                         {},
	"status":                       {},
	"vod":                          {},
	"startTime":                    {},
	"endTime":                      {},
	"symlink":                      {},
	"x-oss-process":                {},
	"response-content-type":        {},
	"response-content-language":    {},
	"response-expires":             {},
	"response-cache-control":       {},
	"response-content-disposition": {},
	"response-content-encoding":    {},
	"udf":                          {},
	"udfName":                      {},
	"udfImage":                     {},
	"udfId":                        {},
	"udfImageDesc":                 {},
	"udfApplication":               {},
	"udfApplicationLog":            {},
	"restore":                      {},
	"callback":                     {},
	"callback-var":                 {},
	"continuation-token":           {},
}

// CanonicalResource projects query parameters onto the signature: only
// allow-listed names survive, sorted byte-wise ascending, valueless entries
// rendered as bare names. Pure and deterministic.
func CanonicalResource(params map[string]*string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		if _, ok := subResources[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		if v := params[name]; v != nil {
			b.WriteByte('=')
			b.WriteString(*v)
		}
	}
	return b.String()
}

// queryString renders the full request query: every parameter, allow-listed
// or not, sorted for determinism.
func queryString(params map[string]*string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		if v := params[name]; v != nil {
			b.WriteByte('=')
			b.WriteString(*v)
		}
	}
	return b.String()
}

// listQuery renders a list-type=2 request: the full query string, and the
// canonical-resource slice of it. Only the continuation token signs; prefix,
// delimiter and max-keys ride the plain query string.
func listQuery(opts ListOptions) (query, resource string) {
	query = "list-type=2"
	if opts.Marker != "" {
		query += "&continuation-token=" + opts.Marker
		resource = "continuation-token=" + opts.Marker
	}
	if opts.Delimiter != "" {
		query += "&delimiter=" + opts.Delimiter
	}
	if opts.MaxKeys > 0 {
		query += "&max-keys=" + strconv.Itoa(opts.MaxKeys)
	}
	if opts.Prefix != "" {
		query += "&prefix=" + opts.Prefix
	}
	return query, resource
}

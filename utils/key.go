package utils

import (
	"github.com/ipfs/go-datastore"
	"strings"
)

func KeyIsValid(key datastore.Key) bool {
	ks := key.String()
	if len(ks) < 2 || ks[0] != '/' {
		return false
	}
	for _, b := range ks[1:] {
		if '0' <= b && b <= '9' {
			continue
		}
		if 'A' <= b && b <= 'Z' {
			continue
		}
		switch b {
		case '+', '-', '_', '=':
			continue
		}
		return false
	}
	return true
}

// Decode maps a stored object key back to the datastore key it was written
// for. The object key carries the configured root prefix and the data
// extension; anything without the extension is not ours.
func Decode(prefix, objectKey string) (key datastore.Key, ok bool) {
	if !strings.HasSuffix(objectKey, Extension) {
		return datastore.Key{}, false
	}
	name := objectKey[:len(objectKey)-len(Extension)]

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if strings.HasPrefix(name, prefix) {
		return datastore.NewKey(name[len(prefix):]), true
	} else if strings.HasPrefix(name, "/"+prefix) {
		return datastore.NewKey(name[len("/"+prefix):]), true
	} else {
		return datastore.NewKey(name), true
	}
}

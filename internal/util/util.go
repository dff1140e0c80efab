package util

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/gosimple/slug"
)

func GetIDFromString(str *string) string {
	hasher := sha1.New()
	hasher.Write([]byte(*str))

	return hex.EncodeToString(hasher.Sum(nil))
}

// Slug returns a lower-cased, filesystem safe form of name.
func Slug(name string) string {
	s := slug.Make(name)
	if s == "" {
		return strings.ToLower(strings.TrimSpace(name))
	}

	return s
}

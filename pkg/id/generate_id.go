package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Sequential builds registry codes such as KYN0001 or KYV001: the next
// number after count, left-padded with zeros to width.
func Sequential(prefix string, count int64, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, count+1)
}

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases name and collapses every run of non-alphanumerics into a
// single dash, trimming dashes at both ends.
func Slug(name string) string {
	s := reNonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

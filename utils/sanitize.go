package utils

import "github.com/microcosm-cc/bluemonday"

// One shared UGC policy for everything members author: post bodies, comments,
// profile signatures and admin announcement content.
var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips dangerous HTML from user-authored content before storage.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

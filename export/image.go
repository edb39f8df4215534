package export

import (
	"regexp"
	"strings"
)

var imageURLRe = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|bmp|svg)(\?|#|$)`)

// LooksLikeImageField reports whether the column name suggests it holds image URLs.
// It only nominates candidates, every value is still checked before it is fetched.
func LooksLikeImageField(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "image") ||
		strings.HasSuffix(name, "_url") ||
		strings.Contains(name, "avatar") ||
		strings.Contains(name, "photo")
}

// LooksLikeImageURL reports whether the value ends with an image file extension,
// optionally followed by a query string or fragment
func LooksLikeImageURL(value string) bool {
	return imageURLRe.MatchString(value)
}

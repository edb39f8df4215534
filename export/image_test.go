package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeImageField(t *testing.T) {
	for _, name := range []string{"image", "cover_image", "ImageKey", "avatar_url", "profile_url", "AVATAR", "photo", "PhotoPath", "website_url"} {
		assert.True(t, LooksLikeImageField(name), name)
	}
	for _, name := range []string{"name", "email", "url", "created_at", "url_path", "phone"} {
		assert.False(t, LooksLikeImageField(name), name)
	}
}

func TestLooksLikeImageURL(t *testing.T) {
	for _, value := range []string{
		"https://x/a.jpg",
		"https://x/a.JPEG",
		"https://x/a.png?width=60",
		"https://x/a.gif#frame",
		"https://x/a.webp",
		"https://x/a.bmp",
		"https://x/logo.svg",
		"a.jpg",
	} {
		assert.True(t, LooksLikeImageURL(value), value)
	}
	for _, value := range []string{
		"https://x/broken",
		"https://x/a.jpg/view",
		"https://x/a.pdf",
		"https://x/a.pngx",
		"",
	} {
		assert.False(t, LooksLikeImageURL(value), value)
	}
}

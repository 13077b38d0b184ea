package util

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gosimple/slug"
)

// GenerateSlug 标题转 slug 并追加 8 位随机十六进制后缀
func GenerateSlug(title string) string {
	base := slug.Make(title)
	suffix := randomHex(4)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

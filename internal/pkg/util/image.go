package util

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrImageNotSupported = errors.New("unsupported image")

// NormalizedImage 处理后的图片
type NormalizedImage struct {
	Data        []byte
	ContentType string
	Ext         string
}

// NormalizeImage 解码图片，按 EXIF 方向摆正并等比缩放到 maxWidth 以内
func NormalizeImage(data []byte, maxWidth int) (*NormalizedImage, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrImageNotSupported
	}

	format, err := imaging.FormatFromExtension(extOf(contentType))
	if err != nil {
		return nil, ErrImageNotSupported
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageNotSupported, err)
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return &NormalizedImage{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Ext:         extOf(contentType),
	}, nil
}

func extOf(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	default:
		return "jpg"
	}
}

// ResolveImageURL 将图片引用转换为绝对地址
// 已是 http(s) 地址原样返回；为空时使用默认图；其余视为相对路径并拼接 base
func ResolveImageURL(ref, base, defaultImage string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base = strings.TrimRight(base, "/")
	if ref == "" {
		return base + "/" + strings.TrimLeft(defaultImage, "/")
	}
	return base + "/" + strings.TrimLeft(ref, "/")
}

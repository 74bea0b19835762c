// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeSVG  = "image/svg+xml"
	MimeTypePDF  = "application/pdf"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
)

// AllowedUploadTypes maps accepted MIME types to the extension stored on disk.
var AllowedUploadTypes = map[string]string{
	MimeTypeJPEG: ".jpg",
	MimeTypePNG:  ".png",
	MimeTypeGIF:  ".gif",
	MimeTypeWebP: ".webp",
	MimeTypePDF:  ".pdf",
	MimeTypeMP4:  ".mp4",
	MimeTypeWebM: ".webm",
}

// ThumbnailWidth is the width of generated thumbnails in pixels.
const ThumbnailWidth = 400

// IsImageMime reports whether thumbnails can be generated for mime.
func IsImageMime(mime string) bool {
	switch mime {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded images with EXIF orientation applied and
// writes their thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/util"
)

// ThumbnailDir is the subdirectory of the upload directory holding thumbnails.
const ThumbnailDir = "thumbnails"

// ErrUnsupportedFormat is returned for data that is not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ProcessResult contains the result of storing an uploaded image.
type ProcessResult struct {
	Width    int
	Height   int
	MimeType string
	Size     int64
	FilePath string
}

// ThumbnailResult describes a written thumbnail.
type ThumbnailResult struct {
	Width    int
	Height   int
	FilePath string
}

// Processor writes images below a single upload directory.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a new image processor.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{
		uploadDir: uploadDir,
	}
}

// ProcessImage decodes data, applies the EXIF orientation and saves the
// re-encoded image as filename in the upload directory. Re-encoding also
// drops all EXIF metadata.
func (p *Processor) ProcessImage(data []byte, filename string) (*ProcessResult, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	processed, err := encodeImage(img, format, 95)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	filePath, err := p.saveFile("", filename, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	bounds := img.Bounds()
	return &ProcessResult{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(processed)),
		FilePath: filePath,
	}, nil
}

// CreateThumbnail writes a copy of the stored image filename scaled to
// width pixels into ThumbnailDir. Images narrower than width keep their size.
func (p *Processor) CreateThumbnail(filename string, width int) (*ThumbnailResult, error) {
	sourcePath := filepath.Join(p.uploadDir, filepath.Base(filename))
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source image: %w", err)
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	processed, err := encodeImage(img, detectFormatFromFilename(filename), 85)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbPath, err := p.saveFile(ThumbnailDir, filename, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to save thumbnail: %w", err)
	}

	bounds := img.Bounds()
	return &ThumbnailResult{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		FilePath: thumbPath,
	}, nil
}

// SaveFile stores non-image uploads unchanged and returns the written size.
func (p *Processor) SaveFile(r io.Reader, filename string) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read upload: %w", err)
	}
	path, err := p.saveFile("", filename, data)
	if err != nil {
		return "", 0, err
	}
	return path, int64(len(data)), nil
}

// DetectMimeType sniffs the MIME type of data.
func (p *Processor) DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	// http.DetectContentType returns types like "text/plain; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// DeleteFiles removes filename and its thumbnail. Missing files are ignored.
func (p *Processor) DeleteFiles(filename string) error {
	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return err
	}
	var errs []error
	for _, path := range []string{
		filepath.Join(p.uploadDir, name),
		filepath.Join(p.uploadDir, ThumbnailDir, name),
	} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image with the given format and JPEG quality.
// WebP has no pure Go encoder and is written as JPEG.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// detectFormatFromFilename extracts format from filename extension.
func detectFormatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "jpeg"
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

// saveFile writes data to uploadDir/subDir/filename. The filename is reduced
// to its base name and the target must stay inside uploadDir.
func (p *Processor) saveFile(subDir, filename string, data []byte) (string, error) {
	safeFilename, err := util.SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	targetDir, err := util.SafeJoinPath(p.uploadDir, subDir)
	if err != nil {
		return "", fmt.Errorf("invalid subdirectory path: %w", err)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(targetDir, safeFilename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

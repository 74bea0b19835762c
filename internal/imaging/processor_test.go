// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olegiv/ocms-api/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(width, height)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcessImageAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	res, err := p.ProcessImage(pngBytes(t, 800, 200), "abc.png")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	if res.Width != 800 || res.Height != 200 || res.MimeType != model.MimeTypePNG {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.FilePath != filepath.Join(mustAbs(t, dir), "abc.png") {
		t.Errorf("FilePath = %q", res.FilePath)
	}

	thumb, err := p.CreateThumbnail("abc.png", model.ThumbnailWidth)
	if err != nil {
		t.Fatalf("CreateThumbnail: %v", err)
	}
	if thumb.Width != 400 || thumb.Height != 100 {
		t.Errorf("thumbnail = %dx%d, want 400x100", thumb.Width, thumb.Height)
	}
	if _, err := os.Stat(filepath.Join(dir, ThumbnailDir, "abc.png")); err != nil {
		t.Errorf("thumbnail not written: %v", err)
	}

	if err := p.DeleteFiles("abc.png"); err != nil {
		t.Fatalf("DeleteFiles: %v", err)
	}
	for _, path := range []string{filepath.Join(dir, "abc.png"), filepath.Join(dir, ThumbnailDir, "abc.png")} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still exists", path)
		}
	}
	if err := p.DeleteFiles("abc.png"); err != nil {
		t.Errorf("deleting missing files: %v", err)
	}
}

func TestCreateThumbnail_SmallImageKeepsSize(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	if _, err := p.ProcessImage(pngBytes(t, 120, 60), "small.png"); err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	thumb, err := p.CreateThumbnail("small.png", model.ThumbnailWidth)
	if err != nil {
		t.Fatalf("CreateThumbnail: %v", err)
	}
	if thumb.Width != 120 || thumb.Height != 60 {
		t.Errorf("thumbnail = %dx%d, want 120x60", thumb.Width, thumb.Height)
	}
}

func TestProcessImage_RejectsNonImage(t *testing.T) {
	p := NewProcessor(t.TempDir())
	_, err := p.ProcessImage([]byte("%PDF-1.4 not an image"), "doc.png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	path, size, err := p.SaveFile(strings.NewReader("%PDF-1.4"), "../../etc/doc.pdf")
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if size != 8 {
		t.Errorf("size = %d, want 8", size)
	}
	if filepath.Dir(path) != mustAbs(t, dir) {
		t.Errorf("file escaped upload dir: %s", path)
	}
}

func TestDetectMimeType(t *testing.T) {
	p := NewProcessor(t.TempDir())
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngBytes(t, 2, 2), model.MimeTypePNG},
		{"pdf", []byte("%PDF-1.7\n"), model.MimeTypePDF},
		{"text", []byte("hello"), "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.DetectMimeType(tt.data); got != tt.want {
				t.Errorf("DetectMimeType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"image.jpg", "jpeg"},
		{"image.JPG", "jpeg"},
		{"image.png", "png"},
		{"image.gif", "gif"},
		{"image.webp", "webp"},
		{"noextension", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := detectFormatFromFilename(tt.filename); got != tt.want {
				t.Errorf("detectFormatFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", model.MimeTypeJPEG},
		{"png", model.MimeTypePNG},
		{"gif", model.MimeTypeGIF},
		{"webp", model.MimeTypeWebP},
		{"unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(20, 10)
	tests := []struct {
		orientation   int
		width, height int
	}{
		{1, 20, 10},
		{2, 20, 10},
		{3, 20, 10},
		{4, 20, 10},
		{5, 10, 20},
		{6, 10, 20},
		{7, 10, 20},
		{8, 10, 20},
		{0, 20, 10},
	}

	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.width || b.Dy() != tt.height {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.width, tt.height)
		}
	}
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatal(err)
	}
	return abs
}

package utils

import (
	"errors"
	"io"             // Stream copy
	"mime/multipart" // Uploaded file headers
	"os"             // Filesystem operations
	"path/filepath"  // Path handling
	"strings"        // Extension normalization

	"github.com/google/uuid" // Random stored filenames
)

// MaxUploadSize caps persona image uploads at 10 MB
const MaxUploadSize = 10 << 20

// allowedImageExts lists the accepted image extensions, lowercase without dot
var allowedImageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Upload rejection reasons
var (
	ErrUploadTooLarge = errors.New("upload exceeds the size limit")
	ErrUploadBadExt   = errors.New("upload has a disallowed extension")
)

// imageExt extracts the lowercase extension without the leading dot,
// returning "" when the filename has none
func imageExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}

// AllowedImage reports whether the original filename carries an accepted
// image extension
func AllowedImage(filename string) bool {
	return allowedImageExts[imageExt(filename)]
}

// SaveImage stores an uploaded image under dir with a random filename,
// keeping only the original extension. The original filename is discarded for
// storage safety. Returns the stored filename.
func SaveImage(fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrUploadTooLarge
	}
	ext := imageExt(fh.Filename)
	if !allowedImageExts[ext] {
		return "", ErrUploadBadExt
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	// Collision-free name: uuid hex + original extension
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

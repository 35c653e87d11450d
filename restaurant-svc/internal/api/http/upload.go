package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxImageSize = 300 << 10

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

var (
	errNoImage       = errors.New("image file is required")
	errImageTooLarge = fmt.Errorf("image must be at most %d KB", maxImageSize>>10)
	errImageType     = errors.New("only jpeg, png, gif, webp and avif images are allowed")
)

// saveImage stores the multipart file in field under UploadDir and returns its public URL.
func (h *Handler) saveImage(w http.ResponseWriter, r *http.Request, field, prefix string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+(64<<10))
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errImageTooLarge
		}
		return "", errNoImage
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", errNoImage
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return "", errImageTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", errImageType
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := prefix + "_" + uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + filename, nil
}

func isUploadInputError(err error) bool {
	return errors.Is(err, errNoImage) || errors.Is(err, errImageTooLarge) || errors.Is(err, errImageType)
}

// Package media validates uploaded image files and names them for object storage.
package media

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"
)

// ErrNoPublicURL is returned when an upload succeeded but the store could not
// produce a usable public URL for it.
var ErrNoPublicURL = errors.New("upload has no public URL")

// File is an upload candidate.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ValidationError rejects a file before any network call is made.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the declared MIME type and the size ceiling, then sniffs the
// first bytes of the body. The body is rewrapped so no bytes are lost.
func Validate(f *File, maxBytes int64) error {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return &ValidationError{Name: f.Name, Reason: "only image files are allowed"}
	}
	if f.Size <= 0 {
		return &ValidationError{Name: f.Name, Reason: "file is empty"}
	}
	if maxBytes > 0 && f.Size > maxBytes {
		return &ValidationError{Name: f.Name, Reason: fmt.Sprintf("file exceeds %d MB", maxBytes>>20)}
	}
	if f.Body == nil {
		return nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	head = head[:n]
	f.Body = io.MultiReader(bytes.NewReader(head), f.Body)

	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, "image/") && sniffed != "application/octet-stream" {
		return &ValidationError{Name: f.Name, Reason: "file content is not an image"}
	}
	return nil
}

// Extension returns the lowercased extension of name without the dot,
// "jpg" when there is none.
func Extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	clean := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, ext)
	if clean == "" {
		return "jpg"
	}
	return clean
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomSuffix returns n random base-36 characters.
func RandomSuffix(n int) string {
	var sb strings.Builder
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			v = big.NewInt(time.Now().UnixNano() % int64(len(base36)))
		}
		sb.WriteByte(base36[v.Int64()])
	}
	return sb.String()
}

// CoverKey names a single uploaded image: "uploads/{unixMillis}-{random6}.{ext}".
func CoverKey(now time.Time, name, suffix string) string {
	return fmt.Sprintf("uploads/%d-%s.%s", now.UnixMilli(), suffix, Extension(name))
}

// FromMultipart opens a multipart file header as a File. The caller closes
// the returned closer.
func FromMultipart(fh *multipart.FileHeader) (File, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return File{}, nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	return File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

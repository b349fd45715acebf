package scene

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"maps"
	"strings"
)

// Common MIME types for binary files.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeSVG  = "image/svg+xml"
	MimeWebP = "image/webp"
)

// FileID identifies a binary file record.
type FileID string

// BinaryFile is an embedded image stored alongside the scene.
type BinaryFile struct {
	MimeType      string `json:"mimeType"`
	ID            FileID `json:"id"`
	DataURL       string `json:"dataURL"`
	Created       int64  `json:"created"`
	LastRetrieved int64  `json:"lastRetrieved,omitempty"`
}

// Files maps file ids to records.
type Files map[FileID]BinaryFile

// Clone returns a shallow copy; records are values.
func (f Files) Clone() Files {
	if f == nil {
		return Files{}
	}
	return maps.Clone(f)
}

// Subset returns the records referenced by image elements in elements.
func (f Files) Subset(elements []Element) Files {
	out := Files{}
	for _, e := range elements {
		if e.FileID == "" {
			continue
		}
		if rec, ok := f[e.FileID]; ok {
			out[e.FileID] = rec
		}
	}
	return out
}

// FileIDFor derives a file id from file content as the hex SHA-1 digest.
func FileIDFor(data []byte) FileID {
	sum := sha1.Sum(data)
	return FileID(hex.EncodeToString(sum[:]))
}

// EncodeDataURL builds a base64 data URL.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL parses a base64 data URL into its MIME type and payload.
func DecodeDataURL(url string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload")
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return mime, data, nil
}

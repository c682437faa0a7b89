// Package media decodes the data-URIs records carry for images and audio.
package media

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxSize bounds a single decoded attachment.
const MaxSize = 10 << 20 // 10 MB

var (
	imageTypes = map[string]bool{
		"image/png": true, "image/jpeg": true, "image/gif": true, "image/webp": true,
	}
	audioTypes = map[string]bool{
		"audio/webm": true, "audio/ogg": true, "audio/mpeg": true,
		"audio/wav": true, "audio/mp4": true,
	}
)

// Blob is a decoded data-URI.
type Blob struct {
	MIME string
	Data []byte
}

// Decode parses a data:<mediatype>[;params];base64,<data> URI.
func Decode(uri string) (Blob, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Blob{}, fmt.Errorf("media: not a data URI")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return Blob{}, fmt.Errorf("media: invalid data URI: missing comma separator")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return Blob{}, fmt.Errorf("media: only base64 data URIs are supported")
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxSize {
		return Blob{}, fmt.Errorf("media: payload exceeds %d bytes", MaxSize)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return Blob{}, fmt.Errorf("media: invalid base64 data: %w", err)
		}
	}

	mime := strings.ToLower(strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0])
	if mime == "" {
		mime = "application/octet-stream"
	}
	return Blob{MIME: mime, Data: data}, nil
}

// Encode builds a base64 data-URI.
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeImage decodes uri and checks it carries a supported image type.
func DecodeImage(uri string) (Blob, error) {
	b, err := Decode(uri)
	if err != nil {
		return Blob{}, err
	}
	if !imageTypes[b.MIME] {
		return Blob{}, fmt.Errorf("media: unsupported image type %s", b.MIME)
	}
	return b, nil
}

// DecodeAudio decodes uri and checks it carries a supported audio type.
// Codec parameters ("audio/webm;codecs=opus") are ignored.
func DecodeAudio(uri string) (Blob, error) {
	b, err := Decode(uri)
	if err != nil {
		return Blob{}, err
	}
	if !audioTypes[b.MIME] {
		return Blob{}, fmt.Errorf("media: unsupported audio type %s", b.MIME)
	}
	return b, nil
}

package util

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var ErrNotDataURI = errors.New("not a base64 data URI")

func MakeDataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// EncodeDataURL wraps raw bytes into a data URI, sniffing the MIME when none is given.
func EncodeDataURL(mime string, data []byte) string {
	return MakeDataURL(PickMIME(mime, "", data), base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURL splits a data:<mime>[;param=value...];base64,<payload> URI.
// Parameters such as name= are ignored; padded and unpadded payloads are accepted.
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToLower(s), "data:") {
		return nil, "", ErrNotDataURI
	}
	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return nil, "", ErrNotDataURI
	}
	params := strings.Split(s[len("data:"):idx], ";")
	if len(params) < 2 || !strings.EqualFold(strings.TrimSpace(params[len(params)-1]), "base64") {
		return nil, "", ErrNotDataURI
	}
	mime := strings.ToLower(strings.TrimSpace(params[0]))
	if mime == "" {
		return nil, "", ErrNotDataURI
	}
	data, err := decodeBase64(s[idx+1:])
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// Стандартная база64 (с паддингом и без), затем URL-safe
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// PickMIME берём явный MIME, затем из data:URI, иначе детектим по байтам.
func PickMIME(explicit, hint string, data []byte) string {
	if exp := strings.TrimSpace(explicit); exp != "" {
		return exp
	}
	if h := strings.TrimSpace(hint); h != "" {
		return h
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "image/jpeg"
}

func IsImageMIME(m string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(m)), "image/")
}

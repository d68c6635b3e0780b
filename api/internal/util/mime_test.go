package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

func TestDecodeDataURL(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)

	data, mime, err := DecodeDataURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngHeader, data)
}

func TestDecodeDataURLAcceptsParamsAndUnpadded(t *testing.T) {
	data, mime, err := DecodeDataURL("data:image/png;name=cut.png;base64," + base64.StdEncoding.EncodeToString(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngHeader, data)

	// 10 байт требуют паддинга, шлём без него
	odd := pngHeader[:10]
	data, _, err = DecodeDataURL("data:image/png;base64," + base64.RawStdEncoding.EncodeToString(odd))
	require.NoError(t, err)
	assert.Equal(t, odd, data)

	_, _, err = DecodeDataURL("data:image/png;base64;name=x,AAAA")
	assert.ErrorIs(t, err, ErrNotDataURI)
}

func TestDecodeDataURLRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"image/png;base64,AAAA",
		"data:image/png,AAAA",
		"data:;base64,AAAA",
		"data:image/png;base64",
	} {
		_, _, err := DecodeDataURL(in)
		assert.ErrorIs(t, err, ErrNotDataURI, in)
	}

	_, _, err := DecodeDataURL("data:image/png;base64,@@@")
	assert.Error(t, err)
}

func TestEncodeDataURLRoundTrip(t *testing.T) {
	uri := EncodeDataURL("", pngHeader)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), uri)

	data, mime, err := DecodeDataURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngHeader, data)
}

func TestPickMIME(t *testing.T) {
	assert.Equal(t, "image/webp", PickMIME("image/webp", "image/png", pngHeader))
	assert.Equal(t, "image/gif", PickMIME("", "image/gif", pngHeader))
	assert.Equal(t, "image/png", PickMIME("", "", pngHeader))
	assert.Equal(t, "image/jpeg", PickMIME("", "", nil))
}

func TestIsImageMIME(t *testing.T) {
	assert.True(t, IsImageMIME("IMAGE/JPEG"))
	assert.False(t, IsImageMIME("application/pdf"))
}

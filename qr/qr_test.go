package qr_test

import (
	"bytes"
	"image/png"
	"testing"

	"gramvartha/qr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPNGDeterministic(t *testing.T) {
	first, err := qr.RenderPNG("https://gramvartha.in/villages/qr/abc")
	require.NoError(t, err)
	second, err := qr.RenderPNG("https://gramvartha.in/villages/qr/abc")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderPNGDimensions(t *testing.T) {
	data, err := qr.RenderPNG("payload")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, qr.ImageSize, img.Bounds().Dx())
	assert.Equal(t, qr.ImageSize, img.Bounds().Dy())
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t,
		"https://gramvartha.in/villages/qr/abc-123",
		qr.ResolveURL("https://gramvartha.in", "abc-123"))
	assert.Equal(t,
		"https://gramvartha.in/villages/qr/abc-123",
		qr.ResolveURL("https://gramvartha.in/", "abc-123"))
}

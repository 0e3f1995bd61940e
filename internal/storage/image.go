package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const thumbSize = 256

// ToWebpThumbnail decodifica a imagem, reduz para caber em 256x256 sem
// distorcer e codifica em webp. O import do chai2010/webp também registra o
// decoder de webp no image.Decode.
func ToWebpThumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("storage: decodificar imagem: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("storage: imagem vazia")
	}

	// reduz mantendo proporção; nunca amplia
	scale := 1.0
	if w >= h {
		if w > thumbSize {
			scale = float64(thumbSize) / float64(w)
		}
	} else {
		if h > thumbSize {
			scale = float64(thumbSize) / float64(h)
		}
	}

	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("storage: codificar webp: %w", err)
	}

	return buf.Bytes(), nil
}

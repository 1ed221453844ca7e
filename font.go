package rowan

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// LoadTTFFont parses TTF/OTF data and returns a face at the given size in
// pixels. The source is not shared; call once per size.
func LoadTTFFont(data []byte, size float64) (text.Face, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("rowan: load font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}

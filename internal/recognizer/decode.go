package recognizer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// DecodePayload extracts image bytes from a data URI or bare base64 string.
// Everything up to the last comma is treated as the data URI header.
func DecodePayload(payload string) ([]byte, error) {
	if i := strings.LastIndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(payload); rawErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
		}
	}
	return data, nil
}

// DecodeImage decodes PNG, JPEG, GIF, BMP or TIFF bytes into a BGR Mat,
// applying any EXIF orientation. The caller closes the Mat.
func DecodeImage(data []byte) (*gocv.Mat, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrInvalidImage)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return &mat, nil
}

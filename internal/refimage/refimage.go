// Package refimage normalizes uploaded reference portraits and handles data URIs.
package refimage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"datasetgen/internal/domain"
)

var ErrInvalidDataURI = errors.New("invalid data uri")

// Prepare decodes data, applies EXIF orientation and downscales it so the
// longest edge is at most maxEdge. A maxEdge of zero keeps the original size.
// Images that need no change keep their original bytes.
func Prepare(data []byte, maxEdge int) (domain.ReferenceImage, error) {
	if len(data) == 0 {
		return domain.ReferenceImage{}, errors.New("refimage: empty image")
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return domain.ReferenceImage{}, fmt.Errorf("refimage: unsupported content type %q", mime)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("refimage: decode: %w", err)
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	if maxEdge <= 0 || (width <= maxEdge && height <= maxEdge) {
		return domain.ReferenceImage{Data: data, MIMEType: mime, Width: width, Height: height}, nil
	}

	resized := imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("refimage: encode: %w", err)
	}
	rb := resized.Bounds()
	return domain.ReferenceImage{
		Data:     buf.Bytes(),
		MIMEType: "image/png",
		Width:    rb.Dx(),
		Height:   rb.Dy(),
	}, nil
}

// EncodeDataURI renders data as data:<mime>;base64,<payload>.
func EncodeDataURI(mime string, data []byte) string {
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI is the inverse of EncodeDataURI.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return mime, data, nil
}

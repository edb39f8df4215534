package excel

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // gif decoder
	_ "image/jpeg" // jpeg decoder
	"image/png"
	"strings"

	"github.com/ayyaapp/ayya/network"
	"github.com/xuri/excelize/v2"
	_ "golang.org/x/image/bmp"  // bmp decoder
	_ "golang.org/x/image/tiff" // tiff decoder
	"golang.org/x/image/webp"
)

// ErrUnsupported the image format cannot be placed in a workbook
var ErrUnsupported = errors.New("unsupported image format")

// extensions image subtypes to the picture extensions a workbook understands.
// Placing a picture reads its size through image.DecodeConfig, so only raster
// formats with a registered decoder are listed; svg, emf and wmf stay text.
var extensions = map[string]string{
	"png":      ".png",
	"x-png":    ".png",
	"jpeg":     ".jpeg",
	"jpg":      ".jpg",
	"pjpeg":    ".jpeg",
	"gif":      ".gif",
	"bmp":      ".bmp",
	"x-bmp":    ".bmp",
	"x-ms-bmp": ".bmp",
	"tiff":     ".tiff",
	"tif":      ".tiff",
}

// Picture the workbook extension and bytes of a fetched image. webp is re-encoded as png.
func Picture(img *network.Image) (string, []byte, error) {
	if img == nil || len(img.Data) == 0 {
		return "", nil, fmt.Errorf("%w: empty image", ErrUnsupported)
	}

	subtype := strings.ToLower(img.Extension)
	if subtype == "webp" {
		decoded, err := webp.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return "", nil, fmt.Errorf("decode webp: %w", err)
		}
		buf := &bytes.Buffer{}
		if err := png.Encode(buf, decoded); err != nil {
			return "", nil, fmt.Errorf("encode png: %w", err)
		}
		return ".png", buf.Bytes(), nil
	}

	ext, has := extensions[subtype]
	if !has {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, img.Extension)
	}
	return ext, img.Data, nil
}

// AddImage place the image at the cell scaled to size x size, raising the row to fit
func (excel *Excel) AddImage(sheet string, cell string, img *network.Image, size int) error {
	ext, data, err := Picture(img)
	if err != nil {
		return err
	}

	scaleX, scaleY := 1.0, 1.0
	if size > 0 {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && cfg.Width > 0 && cfg.Height > 0 {
			scaleX = float64(size) / float64(cfg.Width)
			scaleY = float64(size) / float64(cfg.Height)
		}
	}

	err = excel.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: ext,
		File:      data,
		Format: &excelize.GraphicOptions{
			AltText:     img.URL,
			ScaleX:      scaleX,
			ScaleY:      scaleY,
			Positioning: "oneCell",
		},
	})
	if err != nil {
		return err
	}

	if size <= 0 {
		return nil
	}
	_, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return err
	}
	return excel.MinRowHeight(sheet, row, float64(size))
}

package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayyaapp/ayya/export"
	"github.com/ayyaapp/ayya/metrics"
	"github.com/ayyaapp/ayya/network"
	"github.com/ayyaapp/ayya/store/types"
	"github.com/xuri/excelize/v2"
	"github.com/yaoapp/kun/log"
	"golang.org/x/sync/errgroup"
)

const (
	// ImageWidth the width of image columns
	ImageWidth = 20
	// TextWidth the width of every other column
	TextWidth = 24
)

// Builder turns an export bundle into a workbook, one sheet per collection
type Builder struct {
	Fetcher     network.Fetcher // nil leaves every cell as text
	Cap         int             // Images embedded per sheet at most
	Size        int             // Image edge, in pixels
	Concurrency int             // Image fetches in flight, below 1 means one at a time
}

// candidate an image URL cell
type candidate struct {
	cell string
	url  string
}

// NewBuilder create a builder with the default cap (200) and image size (60)
func NewBuilder(fetcher network.Fetcher) *Builder {
	return &Builder{Fetcher: fetcher, Cap: 200, Size: 60, Concurrency: 1}
}

// Build create one sheet per collection of the bundle, in bundle order.
// An empty bundle yields a workbook holding only the default sheet.
func (builder *Builder) Build(ctx context.Context, bundle *export.Bundle) (*Excel, error) {

	excel := New()
	sheets := 0
	keepDefault := false

	for _, name := range bundle.Names() {
		rows := bundle.Rows(name)
		if len(rows) == 0 {
			continue
		}

		title := Title(name)
		if title == DefaultSheet && !keepDefault {
			keepDefault = true
		} else if _, err := excel.CreateSheet(title); err != nil {
			excel.Close()
			return nil, fmt.Errorf("collection %s: %w", name, err)
		}

		if err := builder.sheet(ctx, excel, title, rows); err != nil {
			excel.Close()
			return nil, fmt.Errorf("collection %s: %w", name, err)
		}
		sheets++
	}

	if sheets > 0 && !keepDefault {
		if err := excel.DeleteSheet(DefaultSheet); err != nil {
			excel.Close()
			return nil, err
		}
	}
	excel.SetActiveSheet(0)
	return excel, nil
}

func (builder *Builder) sheet(ctx context.Context, excel *Excel, title string, rows []*types.Row) error {

	table := export.Unify(rows)
	if err := excel.WriteRow(title, "A1", table.Columns); err != nil {
		return err
	}
	if err := excel.WriteAll(title, "A2", table.Cells); err != nil {
		return err
	}

	for i, column := range table.Columns {
		width := float64(TextWidth)
		if export.LooksLikeImageField(column) {
			width = ImageWidth
		}
		if err := excel.SetWidth(title, i+1, width); err != nil {
			return err
		}
	}

	candidates, err := builder.candidates(table.Columns, rows)
	if err != nil {
		return err
	}

	added := builder.embed(ctx, excel, title, candidates)
	log.Trace("[Excel] %s: %d rows, %d columns, %d/%d images", title, len(rows), len(table.Columns), added, len(candidates))
	return nil
}

// candidates the image URL cells in scan order: image columns left to right, each top to bottom
func (builder *Builder) candidates(columns []string, rows []*types.Row) ([]candidate, error) {
	res := []candidate{}
	for col, column := range columns {
		if !export.LooksLikeImageField(column) {
			continue
		}

		for row, record := range rows {
			value, _ := record.Get(column)
			text, ok := value.(string)
			if !ok {
				continue
			}

			text = strings.TrimSpace(text)
			if text == "" || !export.LooksLikeImageURL(text) {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			res = append(res, candidate{cell: cell, url: text})
		}
	}
	return res, nil
}

// embed fetch and place the candidates in order until the cap is reached, returns the number placed.
// Fetches run in windows no larger than the room left under the cap, and each window is placed in
// scan order, so the placed set does not depend on which fetch finishes first.
func (builder *Builder) embed(ctx context.Context, excel *Excel, sheet string, candidates []candidate) int {
	if builder.Fetcher == nil || builder.Cap <= 0 {
		return 0
	}

	concurrency := builder.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	added := 0
	next := 0
	for next < len(candidates) && added < builder.Cap {
		size := min(concurrency, builder.Cap-added, len(candidates)-next)
		window := candidates[next : next+size]
		next += size

		images := builder.fetch(ctx, window)
		for i, c := range window {
			if images[i] == nil {
				metrics.Images.WithLabelValues("failed").Inc()
				continue
			}

			if err := excel.AddImage(sheet, c.cell, images[i], builder.Size); err != nil {
				log.Trace("[Excel] %s!%s skip %s: %s", sheet, c.cell, c.url, err.Error())
				metrics.Images.WithLabelValues("failed").Inc()
				continue
			}
			metrics.Images.WithLabelValues("embedded").Inc()
			added++
		}
	}

	if rest := len(candidates) - next; rest > 0 {
		metrics.Images.WithLabelValues("capped").Add(float64(rest))
	}
	return added
}

func (builder *Builder) fetch(ctx context.Context, window []candidate) []*network.Image {
	images := make([]*network.Image, len(window))
	get := func(i int) {
		img, err := builder.Fetcher.Fetch(ctx, window[i].url)
		if err != nil {
			log.Trace("[Excel] fetch %s: %s", window[i].url, err.Error())
			return
		}
		images[i] = img
	}

	if len(window) == 1 {
		get(0)
		return images
	}

	g := errgroup.Group{}
	for i := range window {
		g.Go(func() error {
			get(i)
			return nil
		})
	}
	g.Wait()
	return images
}

package document

import (
	"context"
	"fmt"
	"io"
)

// Render проходит все этапы вывода документа шаблоном tpl и пишет PDF в w.
// Данные должны быть уже проверены через tpl.Validate.
func Render(ctx context.Context, tpl Template, d *Data, opts CanvasOptions, w io.Writer) (*Canvas, error) {
	c := NewCanvas(ctx, opts)
	if err := c.CreatePage(); err != nil {
		return nil, err
	}
	if err := tpl.Render(c, d); err != nil {
		return nil, err
	}
	if c.Stage() != StageTotalsWritten {
		return nil, fmt.Errorf("%w: %s template stopped at %s", ErrStageOrder, tpl.Type(), c.Stage())
	}
	if err := c.ApplyOverlays(); err != nil {
		return nil, err
	}
	if err := c.Flush(w); err != nil {
		return nil, err
	}
	return c, nil
}

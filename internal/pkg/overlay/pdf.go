package overlay

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu не должен создавать каталог конфигурации в домашней папке
	model.ConfigPath = "disable"
}

// PageSizeOf читает размер первой страницы PDF в точках
func PageSizeOf(path string) (PageSize, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return PageSize{}, fmt.Errorf("%w: %s: %v", ErrPDFUnreadable, path, err)
	}
	if len(dims) == 0 || dims[0].Width <= 0 || dims[0].Height <= 0 {
		return PageSize{}, fmt.Errorf("%w: %s has no pages", ErrPDFUnreadable, path)
	}
	return PageSize{Width: dims[0].Width, Height: dims[0].Height}, nil
}

// PageCountOf количество страниц PDF
func PageCountOf(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrPDFUnreadable, path, err)
	}
	return n, nil
}

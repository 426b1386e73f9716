package document

import (
	"context"
	"time"
)

// Request запрос на генерацию документа
type Request struct {
	Company      string `json:"company"`
	DocumentType string `json:"documentType"`
	Data         Data   `json:"data"`
}

// Result сгенерированный документ
type Result struct {
	Path     string        `json:"path"`
	FileName string        `json:"fileName"`
	Size     int64         `json:"size"`
	Duration time.Duration `json:"-"`
	PDF      []byte        `json:"-"`
}

type Service interface {
	Generate(ctx context.Context, req *Request) (*Result, error)
	Templates() []TemplateInfo
	Companies() []string
}

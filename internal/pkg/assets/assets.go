// Package assets находит бланки компаний и формирует имена выходных файлов.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docgen-service-go/internal/pkg/cache"
)

// ErrLetterheadNotFound бланк компании не найден
var ErrLetterheadNotFound = errors.New("letterhead not found")

// LetterheadExtensions порядок перебора расширений бланка
var LetterheadExtensions = []string{".jpg", ".jpeg", ".png"}

// timestampLayout формат YYYYMMDD_HHMMSS
const timestampLayout = "20060102_150405"

// NotFoundError описывает, какие файлы ожидались
type NotFoundError struct {
	Company  string
	Dir      string
	Expected []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("letterhead not found for %s: add an image to %s as either %s",
		e.Company, e.Dir, strings.Join(e.Expected, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrLetterheadNotFound
}

// Resolver ищет файлы ресурсов
type Resolver struct {
	letterheadDir string
	cache         *cache.Cache
}

// NewResolver создает Resolver; cache может быть nil
func NewResolver(letterheadDir string, c *cache.Cache) *Resolver {
	return &Resolver{letterheadDir: letterheadDir, cache: c}
}

// BaseName нормализует название компании: нижний регистр, пробелы в подчеркивания
func BaseName(company string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(company)), " ", "_")
}

// ExpectedLetterheads имена файлов, которые проверяются для компании
func ExpectedLetterheads(company string) []string {
	base := BaseName(company)
	names := make([]string, len(LetterheadExtensions))
	for i, ext := range LetterheadExtensions {
		names[i] = base + ext
	}
	return names
}

// Letterhead возвращает путь к первому найденному бланку компании
func (r *Resolver) Letterhead(company string) (string, error) {
	expected := ExpectedLetterheads(company)
	for _, name := range expected {
		if path := filepath.Join(r.letterheadDir, name); Exists(path) {
			return path, nil
		}
	}
	return "", &NotFoundError{Company: company, Dir: r.letterheadDir, Expected: expected}
}

// Exists сообщает, есть ли обычный файл по пути
func Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read читает файл через кэш. Ключ включает время изменения и размер,
// поэтому замененный на диске файл перечитывается.
func (r *Resolver) Read(ctx context.Context, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat asset: %w", err)
	}
	if r.cache == nil {
		return os.ReadFile(path)
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	return r.cache.GetOrLoad(ctx, key, func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset: %w", err)
		}
		return data, nil
	})
}

// OutputName формирует имя файла {company}_{docType}_{YYYYMMDD_HHMMSS}.pdf
func OutputName(company, docType string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf",
		strings.ReplaceAll(company, " ", "_"),
		strings.ReplaceAll(docType, " ", "_"),
		now.Format(timestampLayout),
	)
}

// OutputPath создает каталог при необходимости и возвращает полный путь файла
func OutputPath(dir, company, docType string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(dir, OutputName(company, docType, now)), nil
}

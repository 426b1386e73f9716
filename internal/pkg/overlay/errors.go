package overlay

import "errors"

var (
	// ErrSessionNotFound сессия редактирования не найдена или закрыта
	ErrSessionNotFound = errors.New("overlay session not found")
	// ErrItemNotFound изображение отсутствует в сессии
	ErrItemNotFound = errors.New("overlay item not found")
	// ErrNoItems сохранение без добавленных изображений
	ErrNoItems = errors.New("no overlay items to save")
	// ErrNothingEmbedded ни одно изображение не удалось встроить
	ErrNothingEmbedded = errors.New("no overlay item could be embedded")
	// ErrZoomOutOfRange масштаб меньше минимального или не конечен
	ErrZoomOutOfRange = errors.New("zoom out of range")
	// ErrInvalidSize неположительный размер
	ErrInvalidSize = errors.New("invalid overlay size")
	// ErrPDFUnreadable исходный PDF не удалось открыть или разобрать
	ErrPDFUnreadable = errors.New("pdf is unreadable")
	// ErrImageUnreadable изображение не удалось прочитать или декодировать
	ErrImageUnreadable = errors.New("overlay image is unreadable")
)

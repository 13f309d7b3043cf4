package pricing

import "errors"

var (
	// ErrUnknownProfile возвращается, когда нет профиля для пары размер + место
	ErrUnknownProfile = errors.New("pricing: unknown size/placement profile")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("pricing: invalid input data")

	// ErrInvalidConfig возвращается при некорректной конфигурации прайса
	ErrInvalidConfig = errors.New("pricing: invalid configuration")
)

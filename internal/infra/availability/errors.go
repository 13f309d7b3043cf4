package availability

import "errors"

var (
	// ErrInvalidInterval возвращается, когда конец интервала не позже начала
	ErrInvalidInterval = errors.New("availability: end must be after start")

	// ErrOverlap возвращается, когда интервал пересекается с занятым
	ErrOverlap = errors.New("availability: interval overlaps an existing hold")

	// ErrDuplicate возвращается при повторной вставке той же записи
	ErrDuplicate = errors.New("availability: appointment already indexed")

	// ErrNotIndexed возвращается, если записи нет в индексе
	ErrNotIndexed = errors.New("availability: appointment not indexed")

	// ErrOutsideWorkingHours возвращается, если интервал вне рабочего времени мастера
	ErrOutsideWorkingHours = errors.New("availability: interval is outside working hours")
)

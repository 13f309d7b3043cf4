package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// Request модель запроса на получение свободных слотов мастера
type Request struct {
	ResourceID      int64     // ID мастера
	Date            time.Time // Дата (год, месяц, день), трактуется в часовом поясе мастера
	Size            string    // Размер татуировки (если длительность не задана явно)
	Placement       string    // Место на теле
	ComplexityLevel int       // Уровень сложности
	DurationMinutes int       // Явная длительность, имеет приоритет над оценкой
	StepMinutes     int       // Шаг сетки слотов, 0 = значение по умолчанию
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date            time.Time        // Запрошенная дата (полночь в часовом поясе мастера)
	ResourceID      int64            // ID мастера
	Timezone        string           // Часовой пояс мастера
	DurationMinutes int              // Длительность сеанса, по которой строились слоты
	StepMinutes     int              // Шаг сетки
	Estimate        *domain.Estimate // Оценка стоимости, если длительность считалась калькулятором
	Slots           []Slot           // Свободные слоты
}

// Slot свободный интервал [Start, End)
type Slot struct {
	Start time.Time
	End   time.Time
}

// Settings параметры генерации слотов
type Settings struct {
	DefaultStepMinutes      int
	MinBookingNoticeMinutes int
	MaxWindowDays           int // насколько вперед можно смотреть слоты
}

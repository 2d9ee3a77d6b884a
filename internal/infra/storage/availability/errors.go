package availability

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда у исполнителя нет сохранённых настроек доступности
	ErrSettingsNotFound = errors.New("availability.repository: settings not found")

	// ErrBlockNotFound возвращается, когда блокировка календаря не найдена
	ErrBlockNotFound = errors.New("availability.repository: calendar block not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)

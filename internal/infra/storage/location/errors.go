package location

import "errors"

var (
	// ErrLocationNotFound возвращается, когда точка обслуживания не найдена
	ErrLocationNotFound = errors.New("location.repository: location not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("location.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("location.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("location.repository: failed to scan row")
)

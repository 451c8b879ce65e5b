package promo

import "errors"

var (
	// ErrPromoNotFound возвращается, когда акция не найдена
	ErrPromoNotFound = errors.New("promo.repository: promo not found")

	// ErrUnknownTreatment возвращается, когда акция ссылается на несуществующую процедуру
	ErrUnknownTreatment = errors.New("promo.repository: unknown treatment")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("promo.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("promo.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("promo.repository: failed to scan row")
)

package contract

import "errors"

var (
	// ErrTemplateNotFound шаблон не найден в каталоге шаблонов
	ErrTemplateNotFound = errors.New("contract template not found")

	// ErrConversionUnavailable конвертер документов недоступен
	ErrConversionUnavailable = errors.New("document conversion unavailable")

	// ErrContractNotFound договор с указанным номером не найден
	ErrContractNotFound = errors.New("contract not found")

	// ErrCodeMismatch введенный код подтверждения не совпадает
	ErrCodeMismatch = errors.New("verification code mismatch")

	// ErrCodeExpired срок действия кода подтверждения истек
	ErrCodeExpired = errors.New("verification code expired")

	// ErrInvalidTransition недопустимый переход статуса договора
	ErrInvalidTransition = errors.New("invalid contract status transition")

	// ErrEmptyInput входной текст не содержит распознаваемых полей
	ErrEmptyInput = errors.New("input contains no recognizable fields")
)

package contract

import "fmt"

// Status статус договора в жизненном цикле подписания
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusCodeSent  Status = "CODE_SENT"
	StatusSigned    Status = "SIGNED"
	StatusCancelled Status = "CANCELLED"
)

// допустимые переходы статусов
var transitions = map[Status][]Status{
	StatusDraft:    {StatusSent, StatusCancelled},
	StatusSent:     {StatusCodeSent, StatusCancelled},
	StatusCodeSent: {StatusCodeSent, StatusSigned, StatusCancelled},
}

// CanTransition сообщает, допустим ли переход из from в to.
// Повторная отправка кода оставляет договор в CODE_SENT.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition проверяет и возвращает новый статус
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}

// IsTerminal сообщает, является ли статус конечным
func (s Status) IsTerminal() bool {
	return s == StatusSigned || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

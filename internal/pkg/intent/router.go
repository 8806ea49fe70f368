package intent

import (
	"regexp"
	"strings"
)

// Intent назначение входящего сообщения
type Intent string

const (
	IntentContract     Intent = "contract"
	IntentPetition     Intent = "petition"
	IntentPricing      Intent = "pricing"
	IntentVerification Intent = "verification"
	IntentIntake       Intent = "intake"
)

var reVerificationCode = regexp.MustCompile(`^\d{6}$`)

var contractKeywords = []string{
	"договор", "контракт", "оформить", "подписать", "документ",
	"contract", "sign",
}

var petitionKeywords = []string{
	"ходатайство", "заявление", "прошение", "вернуть права",
	"перенести суд", "отложить", "экспертиза",
}

var pricingKeywords = []string{
	"сколько стоит", "цена", "тариф", "стоимость", "прайс",
	"оплата", "платить", "деньги",
}

// Route определяет назначение сообщения по ключевым словам.
// Шестизначный код имеет высший приоритет: клиент в процессе
// подписания не должен попасть в общий поток.
func Route(message string) Intent {
	trimmed := strings.TrimSpace(message)
	if reVerificationCode.MatchString(trimmed) {
		return IntentVerification
	}

	lower := strings.ToLower(trimmed)
	switch {
	case matchesAny(lower, contractKeywords):
		return IntentContract
	case matchesAny(lower, petitionKeywords):
		return IntentPetition
	case matchesAny(lower, pricingKeywords):
		return IntentPricing
	}
	return IntentIntake
}

func matchesAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

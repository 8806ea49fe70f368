package pricing

import (
	"fmt"
	"strings"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
)

// DefaultDocsPrepFee стоимость подготовки документов по умолчанию
const DefaultDocsPrepFee = 5000

// DefaultPrepaymentPercent доля предоплаты по умолчанию
const DefaultPrepaymentPercent = 50

// базовый прайс: регион -> тип представительства -> инстанция
var basePrices = map[string]map[string]map[string]int64{
	contract.RegionRegions: {
		contract.RepresentationWithoutPOA: {"1": 15000, "2": 35000, "3": 53000, "4": 70000},
		contract.RepresentationWithPOA:    {"1": 25000, "2": 45000, "3": 63000, "4": 80000},
	},
	contract.RegionMoscow: {
		contract.RepresentationWithoutPOA: {"1": 30000, "2": 60000, "3": 90000, "4": 120000},
		contract.RepresentationWithPOA:    {"1": 40000, "2": 80000, "3": 120000, "4": 150000},
	},
}

// fallbackBaseCost используется, когда комбинация отсутствует в прайсе
const fallbackBaseCost = 20000

// BaseCost возвращает базовую стоимость для комбинации параметров.
// Неизвестные комбинации получают консервативный fallback вместо ошибки.
func BaseCost(region, representation, instance string) int64 {
	if byRep, ok := basePrices[region]; ok {
		if byInst, ok := byRep[representation]; ok {
			if cost, ok := byInst[instance]; ok {
				return cost
			}
		}
	}
	logger.Warn("base cost not found, using fallback",
		logger.Field("region", region),
		logger.Field("representation", representation),
		logger.Field("instance", instance),
	)
	return fallbackBaseCost
}

// Apply дозаполняет денежные поля записи. Уже заданные значения
// не перезаписываются, расчет выполняется в одном месте.
func Apply(p contract.Pricing, baseCost int64) contract.Pricing {
	if p.TotalAmount == 0 {
		p.TotalAmount = baseCost
	}

	if p.Prepayment == 0 {
		percent := p.PrepaymentPercent
		if percent == 0 {
			percent = DefaultPrepaymentPercent
		}
		p.Prepayment = p.TotalAmount * int64(percent) / 100
	}

	if p.SuccessFee == 0 {
		if p.SuccessFeePercent > 0 {
			p.SuccessFee = p.TotalAmount * int64(p.SuccessFeePercent) / 100
		} else {
			p.SuccessFee = p.TotalAmount - p.Prepayment
		}
	}

	if p.DocsPrepFee == 0 {
		p.DocsPrepFee = DefaultDocsPrepFee
	}

	if p.PaymentTerms == "" && p.TotalAmount > 0 {
		prepayPct := p.Prepayment * 100 / p.TotalAmount
		successPct := p.SuccessFee * 100 / p.TotalAmount
		p.PaymentTerms = fmt.Sprintf("%d%% предоплата, %d%% после положительного решения", prepayPct, successPct)
	}

	return p
}

// FormatAmount группирует цифры суммы по тысячам пробелами
func FormatAmount(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	negative := false
	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ")
	if negative {
		out = "-" + out
	}
	return out
}

// ParseAmount обратная операция к FormatAmount
func ParseAmount(formatted string) (int64, error) {
	cleaned := strings.ReplaceAll(formatted, " ", "")
	var amount int64
	if _, err := fmt.Sscanf(cleaned, "%d", &amount); err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", formatted, err)
	}
	return amount, nil
}

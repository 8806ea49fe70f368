package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
)

func TestBaseCost(t *testing.T) {
	tests := []struct {
		name           string
		region         string
		representation string
		instance       string
		want           int64
	}{
		{"regions without poa first instance", contract.RegionRegions, contract.RepresentationWithoutPOA, "1", 15000},
		{"regions with poa fourth instance", contract.RegionRegions, contract.RepresentationWithPOA, "4", 80000},
		{"moscow without poa second instance", contract.RegionMoscow, contract.RepresentationWithoutPOA, "2", 60000},
		{"moscow with poa fourth instance", contract.RegionMoscow, contract.RepresentationWithPOA, "4", 150000},
		{"unknown instance falls back", contract.RegionMoscow, contract.RepresentationWithPOA, "5", fallbackBaseCost},
		{"unknown region falls back", "SIBERIA", contract.RepresentationWithPOA, "1", fallbackBaseCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseCost(tt.region, tt.representation, tt.instance))
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	p := Apply(contract.Pricing{}, 30000)

	assert.Equal(t, int64(30000), p.TotalAmount)
	assert.Equal(t, int64(15000), p.Prepayment)
	assert.Equal(t, int64(15000), p.SuccessFee)
	assert.Equal(t, int64(DefaultDocsPrepFee), p.DocsPrepFee)
	assert.Equal(t, "50% предоплата, 50% после положительного решения", p.PaymentTerms)
}

func TestApplyCustomSplit(t *testing.T) {
	p := Apply(contract.Pricing{PrepaymentPercent: 25, SuccessFeePercent: 75}, 40000)

	assert.Equal(t, int64(10000), p.Prepayment)
	assert.Equal(t, int64(30000), p.SuccessFee)
	assert.Equal(t, "25% предоплата, 75% после положительного решения", p.PaymentTerms)
}

func TestApplyKeepsExplicitValues(t *testing.T) {
	p := Apply(contract.Pricing{TotalAmount: 100000, Prepayment: 70000, SuccessFee: 30000, DocsPrepFee: 1}, 30000)

	assert.Equal(t, int64(100000), p.TotalAmount)
	assert.Equal(t, int64(70000), p.Prepayment)
	assert.Equal(t, int64(30000), p.SuccessFee)
	assert.Equal(t, int64(1), p.DocsPrepFee)
}

// При дефолтном сплите предоплата и гонорар всегда сходятся к итогу.
func TestApplyReconciliation(t *testing.T) {
	for region, byRep := range basePrices {
		for representation, byInst := range byRep {
			for instance := range byInst {
				name := fmt.Sprintf("%s/%s/%s", region, representation, instance)
				t.Run(name, func(t *testing.T) {
					p := Apply(contract.Pricing{}, BaseCost(region, representation, instance))
					assert.Equal(t, p.TotalAmount, p.Prepayment+p.SuccessFee)
				})
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{15000, "15 000"},
		{150000, "150 000"},
		{1234567, "1 234 567"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount))
		})
	}
}

// Группировка цифр устойчива к обратному разбору.
func TestFormatAmountRoundTrip(t *testing.T) {
	for _, amount := range []int64{0, 1, 12, 999, 1000, 53000, 120000, 987654321} {
		parsed, err := ParseAmount(FormatAmount(amount))
		require.NoError(t, err)
		assert.Equal(t, amount, parsed)
	}
}

// Package commission вычисляет стоимость и комиссию установки по каталогу.
//
// Цена с дробной частью округляется вверх до целого, целая цена не меняется.
// Комиссия равна округлённой цене, умноженной на процент / 100.
// Вычисления ведутся в десятичной арифметике, результат отдаётся как float64.
package commission

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/commission-ledger/internal/catalog"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Billing: результат расчёта для одной установки.
type Billing struct {
	Description   string
	OriginalPrice float64
	RoundedPrice  float64
	Commission    float64
}

// Compute ищет план в каталоге и рассчитывает округлённую цену и комиссию.
func Compute(category, tier string, percent float64) (Billing, error) {
	const op = "commission.Compute"

	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent <= 0 {
		return Billing{}, fmt.Errorf("%s: %w: commission percent must be a positive number", op, models.ErrValidation)
	}

	plan, err := catalog.Lookup(category, tier)
	if err != nil {
		return Billing{}, fmt.Errorf("%s: %w", op, err)
	}

	rounded := RoundPrice(decimal.NewFromFloat(plan.Price))
	amount := rounded.Mul(decimal.NewFromFloat(percent)).Div(hundred)

	roundedF, _ := rounded.Float64()
	amountF, _ := amount.Float64()
	return Billing{
		Description:   plan.Description,
		OriginalPrice: plan.Price,
		RoundedPrice:  roundedF,
		Commission:    amountF,
	}, nil
}

// RoundPrice округляет цену вверх, только если у неё есть дробная часть.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	if price.Equal(price.Floor()) {
		return price
	}
	return price.Ceil()
}

// Sum складывает комиссии установок.
func Sum(installations []models.Installation) float64 {
	total := decimal.Zero
	for _, inst := range installations {
		total = total.Add(decimal.NewFromFloat(inst.Commission))
	}
	f, _ := total.Float64()
	return f
}

package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var usd = accounting.DefaultAccounting("$", 2)

// Money renders an indicative price, e.g. $1,234.50.
func Money(amount decimal.Decimal) string {
	return usd.FormatMoneyDecimal(amount)
}

// OptionalMoney renders a nullable price; invalid values render as "".
func OptionalMoney(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return Money(amount.Decimal)
}

// Average divides total by count rounded to two places; zero count yields 0.
func Average(total, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).DivRound(decimal.NewFromInt(count), 2)
}

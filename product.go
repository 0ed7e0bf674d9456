package cashbook

import "github.com/shopspring/decimal"

// Product is a line of the inventory.
//
// TotalCost and TotalPrice are the line totals as stored with the product.
// They are updated whenever the product is added or edited through an
// Inventory, and are what the inventory aggregates sum.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Cost       decimal.Decimal `json:"cost"`  // unit cost
	Price      decimal.Decimal `json:"price"` // unit price
	TotalCost  decimal.Decimal `json:"totalCost"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (p Product) qty() decimal.Decimal { return decimal.NewFromInt(int64(p.Quantity)) }

// LineCost is quantity × unit cost.
func (p Product) LineCost() decimal.Decimal { return p.qty().Mul(p.Cost) }

// LineRevenue is quantity × unit price.
func (p Product) LineRevenue() decimal.Decimal { return p.qty().Mul(p.Price) }

// Profit is LineRevenue - LineCost.
func (p Product) Profit() decimal.Decimal { return p.LineRevenue().Sub(p.LineCost()) }

// Classify classifies the product's profit.
func (p Product) Classify() Outcome { return ClassifyAmount(p.Profit()) }

// withTotals returns p with its stored totals recomputed.
func (p Product) withTotals() Product {
	p.TotalCost = p.LineCost()
	p.TotalPrice = p.LineRevenue()
	return p
}

// Outcome classifies a profit.
type Outcome int

const (
	Neutral Outcome = iota
	Profitable
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Profitable:
		return "profit"
	case Loss:
		return "loss"
	default:
		return "neutral"
	}
}

// ClassifyAmount returns Profitable, Neutral or Loss for a positive, zero or
// negative profit.
func ClassifyAmount(profit decimal.Decimal) Outcome {
	switch profit.Sign() {
	case 1:
		return Profitable
	case -1:
		return Loss
	default:
		return Neutral
	}
}

// Totals are the aggregate figures of an inventory.
type Totals struct {
	TotalCost    decimal.Decimal
	TotalRevenue decimal.Decimal
	TotalProfit  decimal.Decimal
}

// Classify classifies the total profit.
func (t Totals) Classify() Outcome { return ClassifyAmount(t.TotalProfit) }

// ProductDraft is a product as typed by the user, before parsing.
type ProductDraft struct {
	Name     string
	Quantity string
	Cost     string
	Price    string
}

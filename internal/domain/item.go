package domain

import "github.com/shopspring/decimal"

type CatalogItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type CartLine struct {
	ItemName string
	Quantity int
}

package domain

import "github.com/shopspring/decimal"

// Product is the slice of the catalog this core reads: the seller's listing
// whose price forms a trade's fee basis. Catalog CRUD lives elsewhere.
type Product struct {
	ID         int32           `json:"id"`
	SellerCode string          `json:"seller_code"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

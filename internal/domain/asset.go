package domain

type AssetType string

const (
	AssetTypeStock     AssetType = "stock"
	AssetTypeBond      AssetType = "bond"
	AssetTypeEtf       AssetType = "etf"
	AssetTypeCommodity AssetType = "commodity"
	AssetTypeCrypto    AssetType = "crypto"
)

// Asset is reference data for the portfolio game. it's loaded
// once from the catalog and never mutated
type Asset struct {
	ID             string             `json:"id"`
	Symbol         string             `json:"symbol"`
	Name           string             `json:"name"`
	Sector         string             `json:"sector"`
	Type           AssetType          `json:"type"`
	Risk           float64            `json:"risk"`
	ExpectedReturn float64            `json:"expectedReturn"`
	Price          float64            `json:"price"`
	Correlation    map[string]float64 `json:"correlation"`
}

// CorrelationWith returns 1 for the asset itself and 0 when
// the catalog doesn't list the pair
func (a Asset) CorrelationWith(symbol string) float64 {
	if symbol == a.Symbol {
		return 1
	}
	return a.Correlation[symbol]
}

package domain

// PricePoint is one entry of a synthetic series. index 0 is the
// starting price
type PricePoint struct {
	Index int     `json:"index"`
	Price float64 `json:"price"`
}

func PricesOf(points []PricePoint) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		out = append(out, p.Price)
	}
	return out
}

// Package entity は顧客とその保有銘柄を定義します。
package entity

// Holding は顧客が保有する1銘柄です。
type Holding struct {
	Ticker   string
	Quantity float64
	AvgCost  float64
}

// Client はダッシュボードに表示する顧客です。
type Client struct {
	ID          int64
	Name        string
	RiskProfile string
	Holdings    []Holding
}

// CostBasis は保有銘柄の取得総額です。
func (c Client) CostBasis() float64 {
	var total float64
	for _, h := range c.Holdings {
		total += h.Quantity * h.AvgCost
	}
	return total
}

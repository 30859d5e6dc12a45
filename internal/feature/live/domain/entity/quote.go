// Package entity defines the domain models for the live ticker feature.
package entity

// Quote はライブティッカーで追跡する1銘柄の気配です。
// Change は前日終値（Price - Change）からの騰落で、ChangePercent はその比率です。
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        string  `json:"volume"`
	MarketCap     string  `json:"marketCap"`
}

// PreviousClose は騰落の基準となる前日終値です。
func (q Quote) PreviousClose() float64 {
	return q.Price - q.Change
}

// DefaultQuotes はライブ画面の初期表示銘柄を返します。呼び出しごとに新しいスライスを返します。
func DefaultQuotes() []Quote {
	return []Quote{
		{Symbol: "RELIANCE", Name: "Reliance Industries Ltd.", Price: 2934.85, Change: 12.45, ChangePercent: 0.43, Volume: "3.1M", MarketCap: "19.8T"},
		{Symbol: "TCS", Name: "Tata Consultancy Services Ltd.", Price: 3921.60, Change: -24.20, ChangePercent: -0.61, Volume: "1.9M", MarketCap: "14.4T"},
		{Symbol: "INFY", Name: "Infosys Ltd.", Price: 1598.45, Change: 10.10, ChangePercent: 0.64, Volume: "4.3M", MarketCap: "6.8T"},
		{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd.", Price: 1654.30, Change: 5.75, ChangePercent: 0.35, Volume: "5.2M", MarketCap: "12.5T"},
		{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd.", Price: 1120.25, Change: -8.30, ChangePercent: -0.74, Volume: "6.7M", MarketCap: "8.3T"},
		{Symbol: "ITC", Name: "ITC Ltd.", Price: 456.80, Change: 2.15, ChangePercent: 0.47, Volume: "7.1M", MarketCap: "5.7T"},
	}
}

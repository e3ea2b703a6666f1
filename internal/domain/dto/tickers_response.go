package dto

// TickersResponse lists the tickers a calculation may be requested for.
type TickersResponse struct {
	Tickers []string `json:"tickers" example:"AAPL,MSFT,GOOGL,TSLA,AMZN"`
	Default string   `json:"default" example:"AAPL"`
}

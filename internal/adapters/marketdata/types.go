package marketdata

// quoteResponse es la respuesta de GET /quote/{symbol}.
type quoteResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// historyResponse es la respuesta de GET /history/{symbol}.
type historyResponse struct {
	Symbol string       `json:"symbol"`
	Bars   []historyBar `json:"bars"`
}

// historyBar es un cierre diario. Close es nil en filas sin cotización
// (festivos, dividendos).
type historyBar struct {
	Date  string   `json:"date"`
	Close *float64 `json:"close"`
}

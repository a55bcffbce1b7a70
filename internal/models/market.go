package models

// Quote represents a current market quote for an instrument, in the
// instrument's native currency.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high,omitempty"`
	Low           float64 `json:"low,omitempty"`
	Open          float64 `json:"open,omitempty"`
	PreviousClose float64 `json:"previousClose,omitempty"`
	Timestamp     int64   `json:"timestamp"`
}

// InstrumentCategory groups tradeable symbols for listing endpoints.
type InstrumentCategory struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

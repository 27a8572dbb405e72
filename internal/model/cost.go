package model

// CostItem is one line of an itinerary's budget breakdown.
type CostItem struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// CostBreakdown is the structured budget section of an itinerary.
type CostBreakdown struct {
	Currency string     `json:"currency"`
	Total    float64    `json:"total"`
	Items    []CostItem `json:"items"`
}

// ItemsTotal sums the item amounts.
func (c CostBreakdown) ItemsTotal() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.Amount
	}
	return sum
}

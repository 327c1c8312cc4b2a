package flows

import (
	"context"

	"google.golang.org/genai"
)

type MarketPriceInput struct {
	CropName string `json:"cropName" validate:"required,cropname"`
	Location string `json:"location" validate:"required,min=2,max=120"`
	Language string `json:"language,omitempty" validate:"omitempty,lang"`
}

type MarketPrice struct {
	Market     string  `json:"market" validate:"required"`
	MinPrice   float64 `json:"minPrice" validate:"gte=0"`
	MaxPrice   float64 `json:"maxPrice" validate:"gte=0,gtefield=MinPrice"`
	ModalPrice float64 `json:"modalPrice" validate:"gte=0"`
}

type MarketPriceOutput struct {
	CropName string        `json:"cropName" validate:"required"`
	Unit     string        `json:"unit" validate:"required"`
	Prices   []MarketPrice `json:"prices" validate:"required,min=1,dive"`
	Trend    string        `json:"trend" validate:"required,oneof=rising falling stable"`
	Advice   string        `json:"advice"`
}

var marketPriceSchema = object(map[string]*genai.Schema{
	"cropName": str("Crop the prices refer to"),
	"unit":     str("Price unit, e.g. INR per quintal"),
	"prices": array("Recent prices at nearby markets", object(map[string]*genai.Schema{
		"market":     str("Market (mandi) name"),
		"minPrice":   num("Minimum price"),
		"maxPrice":   num("Maximum price"),
		"modalPrice": num("Most common traded price"),
	}, "market", "minPrice", "maxPrice", "modalPrice")),
	"trend":  enum("Short-term price trend", "rising", "falling", "stable"),
	"advice": str("Selling advice for the farmer"),
}, "cropName", "unit", "prices", "trend")

// GetMarketPrices estimates current prices for a crop around a location.
func (f *Flows) GetMarketPrices(ctx context.Context, in MarketPriceInput) (*MarketPriceOutput, error) {
	in.Language = langOrDefault(in.Language)
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	return generateJSON[MarketPriceOutput](ctx, f, "market_prices.tmpl", in, marketPriceSchema)
}

package flows

import (
	"context"

	"google.golang.org/genai"
)

type CropRecommendationInput struct {
	Location          string  `json:"location" validate:"required,min=2,max=120"`
	SoilType          string  `json:"soilType" validate:"required,min=2,max=60"`
	Season            string  `json:"season" validate:"required,oneof=kharif rabi zaid summer winter monsoon"`
	LandSizeAcres     float64 `json:"landSizeAcres" validate:"gt=0,lte=10000"`
	WaterAvailability string  `json:"waterAvailability" validate:"required,oneof=low medium high"`
	PreviousCrop      string  `json:"previousCrop,omitempty" validate:"omitempty,max=64"`
	Language          string  `json:"language,omitempty" validate:"omitempty,lang"`
}

type CropRecommendation struct {
	CropName         string  `json:"cropName" validate:"required"`
	SuitabilityScore float64 `json:"suitabilityScore" validate:"min=0,max=100"`
	Reasoning        string  `json:"reasoning" validate:"required"`
	ExpectedYield    string  `json:"expectedYield"`
	WaterRequirement string  `json:"waterRequirement"`
	GrowingPeriod    string  `json:"growingPeriod"`
}

type CropRecommendationOutput struct {
	Recommendations []CropRecommendation `json:"recommendations" validate:"required,min=1,dive"`
	GeneralAdvice   string               `json:"generalAdvice"`
}

var cropRecommendationSchema = object(map[string]*genai.Schema{
	"recommendations": array("Crops ranked from most to least suitable", object(map[string]*genai.Schema{
		"cropName":         str("Common name of the crop"),
		"suitabilityScore": num("Suitability from 0 to 100"),
		"reasoning":        str("Why the crop suits the given conditions"),
		"expectedYield":    str("Expected yield per acre with unit"),
		"waterRequirement": str("Water need of the crop"),
		"growingPeriod":    str("Typical duration from sowing to harvest"),
	}, "cropName", "suitabilityScore", "reasoning")),
	"generalAdvice": str("Short advice that applies to all recommendations"),
}, "recommendations")

// RecommendCrops suggests crops for the farmer's land and season.
func (f *Flows) RecommendCrops(ctx context.Context, in CropRecommendationInput) (*CropRecommendationOutput, error) {
	in.Language = langOrDefault(in.Language)
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	return generateJSON[CropRecommendationOutput](ctx, f, "crop_recommendation.tmpl", in, cropRecommendationSchema)
}

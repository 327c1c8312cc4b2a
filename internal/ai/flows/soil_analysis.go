package flows

import (
	"context"

	"google.golang.org/genai"

	"github.com/agriassist/agriassist-api/internal/ai"
)

type SoilAnalysisInput struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required,imageuri"`
	Location     string `json:"location,omitempty" validate:"omitempty,max=120"`
	Language     string `json:"language,omitempty" validate:"omitempty,lang"`
}

type SoilNutrient struct {
	Name  string `json:"name" validate:"required"`
	Level string `json:"level" validate:"required,oneof=low medium high"`
}

type SoilAnalysisOutput struct {
	SoilType        string         `json:"soilType" validate:"required"`
	Texture         string         `json:"texture"`
	EstimatedPH     float64        `json:"estimatedPh" validate:"min=0,max=14"`
	OrganicMatter   string         `json:"organicMatter" validate:"omitempty,oneof=low medium high"`
	Moisture        string         `json:"moisture"`
	Nutrients       []SoilNutrient `json:"nutrients" validate:"dive"`
	SuitableCrops   []string       `json:"suitableCrops"`
	Recommendations []string       `json:"recommendations"`
}

var soilAnalysisSchema = object(map[string]*genai.Schema{
	"soilType":      str("Soil classification such as alluvial, black, red or laterite"),
	"texture":       str("Texture such as sandy, loamy or clayey"),
	"estimatedPh":   num("Estimated pH between 0 and 14"),
	"organicMatter": enum("Organic matter content", "low", "medium", "high"),
	"moisture":      str("Apparent moisture level"),
	"nutrients": array("Estimated nutrient levels", object(map[string]*genai.Schema{
		"name":  str("Nutrient name, e.g. Nitrogen"),
		"level": enum("Estimated level", "low", "medium", "high"),
	}, "name", "level")),
	"suitableCrops":   stringList("Crops that grow well in this soil"),
	"recommendations": stringList("Steps to improve the soil"),
}, "soilType", "estimatedPh")

// AnalyzeSoil estimates soil properties from a photo.
func (f *Flows) AnalyzeSoil(ctx context.Context, in SoilAnalysisInput) (*SoilAnalysisOutput, error) {
	in.Language = langOrDefault(in.Language)
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	photo, err := ai.ParseDataURI(in.PhotoDataURI)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	return generateJSON[SoilAnalysisOutput](ctx, f, "soil_analysis.tmpl", in, soilAnalysisSchema, photo)
}

package flows

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/agriassist/agriassist-api/internal/ai"
)

const UnidentifiedDisease = "Unidentified"

type DiseaseDiagnosisInput struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required,imageuri"`
	CropName     string `json:"cropName" validate:"required,cropname"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Language     string `json:"language,omitempty" validate:"omitempty,lang"`
}

type DiseaseDiagnosisOutput struct {
	IsHealthy   bool     `json:"isHealthy"`
	DiseaseName string   `json:"diseaseName" validate:"required"`
	Confidence  float64  `json:"confidence" validate:"min=0,max=1"`
	Symptoms    []string `json:"symptoms"`
	Causes      []string `json:"causes"`
	Treatment   []string `json:"treatment"`
	Prevention  []string `json:"prevention"`
}

var diseaseDiagnosisSchema = object(map[string]*genai.Schema{
	"isHealthy":   boolean("True when the plant shows no disease"),
	"diseaseName": str("Name of the disease, or \"Healthy\" when none"),
	"confidence":  num("Confidence of the diagnosis from 0 to 1"),
	"symptoms":    stringList("Visible symptoms in the photo"),
	"causes":      stringList("Likely causes"),
	"treatment":   stringList("Treatment steps, organic options first"),
	"prevention":  stringList("Prevention measures for future seasons"),
}, "isHealthy", "diseaseName", "confidence")

// UnidentifiedDiagnosis is returned when the model gives no usable answer.
func UnidentifiedDiagnosis() *DiseaseDiagnosisOutput {
	return &DiseaseDiagnosisOutput{
		IsHealthy:   false,
		DiseaseName: UnidentifiedDisease,
		Confidence:  0,
		Symptoms:    []string{},
		Causes:      []string{},
		Treatment:   []string{"Consult your local agricultural extension officer with a sample of the affected plant."},
		Prevention:  []string{"Take a clear, well-lit photo of the affected leaves and try again."},
	}
}

// DiagnoseCropDisease inspects a crop photo. An empty or unusable model answer
// yields UnidentifiedDiagnosis instead of an error.
func (f *Flows) DiagnoseCropDisease(ctx context.Context, in DiseaseDiagnosisInput) (*DiseaseDiagnosisOutput, error) {
	in.Language = langOrDefault(in.Language)
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	photo, err := ai.ParseDataURI(in.PhotoDataURI)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	out, err := generateJSON[DiseaseDiagnosisOutput](ctx, f, "disease_diagnosis.tmpl", in, diseaseDiagnosisSchema, photo)
	if errors.Is(err, ai.ErrNoOutput) || errors.Is(err, ErrInvalidOutput) {
		if f.logger != nil {
			f.logger.WithError(err).WithField("crop", in.CropName).Info("diagnosis unidentified")
		}
		return UnidentifiedDiagnosis(), nil
	}
	return out, err
}

package flows

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriassist/agriassist-api/internal/ai"
	"github.com/agriassist/agriassist-api/internal/ai/audio"
)

const (
	leafPhoto = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="
	voiceClip = "data:audio/webm;base64,GkXfo59ChoEBQveBAULygQRC84EIQoKEd2VibUKHgQRChYECGFOAZwEAAAAAAAAA"
)

type scriptedGenerator struct {
	responses []*ai.Response
	errs      []error
	requests  []ai.Request
}

func (g *scriptedGenerator) Generate(_ context.Context, req ai.Request) (*ai.Response, error) {
	i := len(g.requests)
	g.requests = append(g.requests, req)
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return nil, ai.ErrNoOutput
}

func text(s string) *ai.Response { return &ai.Response{Text: s} }

func newFlows(g ai.Generator) *Flows {
	return New(g, Options{Model: "text-model", TTSModel: "tts-model", Voice: "Algenib"}, nil)
}

func validCropInput() CropRecommendationInput {
	return CropRecommendationInput{
		Location:          "Nashik, Maharashtra",
		SoilType:          "black",
		Season:            "kharif",
		LandSizeAcres:     2.5,
		WaterAvailability: "medium",
	}
}

func TestRecommendCrops_Success(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"recommendations":[{"cropName":"Soybean","suitabilityScore":88,"reasoning":"Black soil holds moisture"}],"generalAdvice":"Test soil"}`)}}
	out, err := newFlows(g).RecommendCrops(context.Background(), validCropInput())
	require.NoError(t, err)

	require.Len(t, out.Recommendations, 1)
	assert.Equal(t, "Soybean", out.Recommendations[0].CropName)
	assert.Equal(t, "Test soil", out.GeneralAdvice)

	require.Len(t, g.requests, 1)
	req := g.requests[0]
	assert.Equal(t, "text-model", req.Model)
	assert.Same(t, cropRecommendationSchema, req.Schema)
	assert.Contains(t, req.Prompt, "Nashik, Maharashtra")
	assert.Contains(t, req.Prompt, "2.50 acres")
	assert.Contains(t, req.System, "English")
}

func TestRecommendCrops_RejectsInvalidInput(t *testing.T) {
	in := validCropInput()
	in.LandSizeAcres = 0
	in.Location = "x"

	g := &scriptedGenerator{}
	_, err := newFlows(g).RecommendCrops(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, g.requests, "generator must not be called on invalid input")
}

func TestRecommendCrops_OutputOutOfRange(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"recommendations":[{"cropName":"Rice","suitabilityScore":140,"reasoning":"x"}]}`)}}
	_, err := newFlows(g).RecommendCrops(context.Background(), validCropInput())
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestDiagnoseCropDisease_ShortCropNameRejected(t *testing.T) {
	g := &scriptedGenerator{}
	_, err := newFlows(g).DiagnoseCropDisease(context.Background(), DiseaseDiagnosisInput{PhotoDataURI: leafPhoto, CropName: "T"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, g.requests)
}

func TestDiagnoseCropDisease_RejectsNonImage(t *testing.T) {
	g := &scriptedGenerator{}
	_, err := newFlows(g).DiagnoseCropDisease(context.Background(), DiseaseDiagnosisInput{PhotoDataURI: voiceClip, CropName: "Tomato"})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDiagnoseCropDisease_Success(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text("```json\n{\"isHealthy\":false,\"diseaseName\":\"Early blight\",\"confidence\":0.82,\"symptoms\":[\"brown rings\"]}\n```")}}
	out, err := newFlows(g).DiagnoseCropDisease(context.Background(), DiseaseDiagnosisInput{PhotoDataURI: leafPhoto, CropName: "Tomato", Language: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "Early blight", out.DiseaseName)
	assert.InDelta(t, 0.82, out.Confidence, 1e-9)
	require.Len(t, g.requests[0].Media, 1)
	assert.Equal(t, "image/jpeg", g.requests[0].Media[0].MIMEType)
	assert.Contains(t, g.requests[0].System, "Hindi")
}

func TestDiagnoseCropDisease_FallbackWhenNoOutput(t *testing.T) {
	cases := map[string]*scriptedGenerator{
		"no output":      {errs: []error{ai.ErrNoOutput}},
		"not json":       {responses: []*ai.Response{text("I am not sure what this is")}},
		"missing name":   {responses: []*ai.Response{text(`{"isHealthy":false,"confidence":0.4}`)}},
		"bad confidence": {responses: []*ai.Response{text(`{"diseaseName":"Rust","confidence":7}`)}},
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := newFlows(g).DiagnoseCropDisease(context.Background(), DiseaseDiagnosisInput{PhotoDataURI: leafPhoto, CropName: "Wheat"})
			require.NoError(t, err)
			assert.Equal(t, UnidentifiedDiagnosis(), out)
		})
	}
}

func TestDiagnoseCropDisease_ServiceErrorSurfaces(t *testing.T) {
	boom := errors.New("Error 503, Status: UNAVAILABLE")
	g := &scriptedGenerator{errs: []error{boom}}
	_, err := newFlows(g).DiagnoseCropDisease(context.Background(), DiseaseDiagnosisInput{PhotoDataURI: leafPhoto, CropName: "Wheat"})
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzeSoil(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"soilType":"Red","estimatedPh":6.2,"organicMatter":"low","nutrients":[{"name":"Nitrogen","level":"low"}]}`)}}
	out, err := newFlows(g).AnalyzeSoil(context.Background(), SoilAnalysisInput{PhotoDataURI: leafPhoto, Location: "Kolar"})
	require.NoError(t, err)
	assert.Equal(t, "Red", out.SoilType)
	assert.Contains(t, g.requests[0].Prompt, "Kolar")
}

func TestAnalyzeSoil_EmptyAnswerIsError(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text("")}}
	_, err := newFlows(g).AnalyzeSoil(context.Background(), SoilAnalysisInput{PhotoDataURI: leafPhoto})
	assert.ErrorIs(t, err, ai.ErrNoOutput)
}

func TestGetMarketPrices(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"cropName":"Onion","unit":"INR/quintal","prices":[{"market":"Lasalgaon","minPrice":1200,"maxPrice":1800,"modalPrice":1550}],"trend":"rising"}`)}}
	out, err := newFlows(g).GetMarketPrices(context.Background(), MarketPriceInput{CropName: "Onion", Location: "Nashik"})
	require.NoError(t, err)
	assert.Equal(t, "rising", out.Trend)

	_, err = newFlows(&scriptedGenerator{}).GetMarketPrices(context.Background(), MarketPriceInput{CropName: "O", Location: "Nashik"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGetMarketPrices_MaxBelowMinRejected(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"cropName":"Onion","unit":"INR/quintal","prices":[{"market":"Lasalgaon","minPrice":1800,"maxPrice":1200,"modalPrice":1500}],"trend":"stable"}`)}}
	_, err := newFlows(g).GetMarketPrices(context.Background(), MarketPriceInput{CropName: "Onion", Location: "Nashik"})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestChat_IncludesHistory(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"reply":"Use neem oil."}`)}}
	out, err := newFlows(g).Chat(context.Background(), ChatInput{
		Message: "What about aphids?",
		History: []ChatMessage{{Role: "user", Content: "My chilli leaves curl"}, {Role: "model", Content: "It may be thrips."}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Use neem oil.", out.Reply)
	assert.Contains(t, g.requests[0].Prompt, "Farmer: My chilli leaves curl")
	assert.Contains(t, g.requests[0].Prompt, "AgriAssist: It may be thrips.")
	assert.Contains(t, g.requests[0].Prompt, "Farmer: What about aphids?")
}

func TestChat_RejectsBadRole(t *testing.T) {
	_, err := newFlows(&scriptedGenerator{}).Chat(context.Background(), ChatInput{Message: "hi", History: []ChatMessage{{Role: "system", Content: "x"}}})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestVoiceChat_RoundTrip(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	g := &scriptedGenerator{responses: []*ai.Response{
		text("when should I sow wheat"),
		text(`{"reply":"Sow in early November."}`),
		{Audio: &ai.Media{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: pcm}},
	}}
	out, err := newFlows(g).VoiceChat(context.Background(), VoiceChatInput{AudioDataURI: voiceClip, Language: "pa"})
	require.NoError(t, err)

	assert.Equal(t, "when should I sow wheat", out.Transcript)
	assert.Equal(t, "Sow in early November.", out.Reply)

	wav, err := ai.ParseDataURI(out.AudioDataURI)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", wav.MIMEType)
	require.Len(t, wav.Data, audio.HeaderSize+len(pcm))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav.Data[40:44]))

	require.Len(t, g.requests, 3)
	assert.Equal(t, "audio/webm", g.requests[0].Media[0].MIMEType)
	assert.Contains(t, g.requests[1].Prompt, "Farmer: when should I sow wheat")
	assert.Equal(t, "tts-model", g.requests[2].Model)
	assert.Equal(t, []string{"AUDIO"}, g.requests[2].ResponseModalities)
	assert.Equal(t, "Algenib", g.requests[2].Voice)
}

func TestVoiceChat_NoAudio(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{
		text("hello"),
		text(`{"reply":"hi"}`),
		text("no audio here"),
	}}
	_, err := newFlows(g).VoiceChat(context.Background(), VoiceChatInput{AudioDataURI: voiceClip})
	assert.ErrorIs(t, err, ai.ErrNoOutput)
}

func TestGenerateNews_DefaultsCount(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"articles":[{"title":"Monsoon arrives","summary":"Rains reach Kerala."}]}`)}}
	out, err := newFlows(g).GenerateNews(context.Background(), NewsInput{Topic: "monsoon"})
	require.NoError(t, err)
	assert.Len(t, out.Articles, 1)
	assert.Contains(t, g.requests[0].Prompt, "Write 5 short")
	assert.Contains(t, g.requests[0].Prompt, "about monsoon")
}

func TestFindLoanSchemes(t *testing.T) {
	g := &scriptedGenerator{responses: []*ai.Response{text(`{"schemes":[{"name":"Kisan Credit Card","provider":"NABARD","applyUrl":"https://www.nabard.org"}]}`)}}
	out, err := newFlows(g).FindLoanSchemes(context.Background(), LoanSchemeInput{State: "Punjab"})
	require.NoError(t, err)
	assert.Equal(t, "Kisan Credit Card", out.Schemes[0].Name)

	g = &scriptedGenerator{responses: []*ai.Response{text(`{"schemes":[{"name":"X","provider":"Y","applyUrl":"not a url"}]}`)}}
	_, err = newFlows(g).FindLoanSchemes(context.Background(), LoanSchemeInput{State: "Punjab"})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Tamil", LanguageName("ta"))
	assert.Equal(t, "English", LanguageName(""))
	assert.Equal(t, "English", LanguageName("xx"))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agriassist/agriassist-api/config"
	"github.com/agriassist/agriassist-api/internal/ai/flows"
	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/internal/domain/entity"
	"github.com/agriassist/agriassist-api/internal/domain/repository/mocks"
	"github.com/agriassist/agriassist-api/internal/interface/middleware"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func asUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, uid)
		c.Set(middleware.CtxPhoneKey, "+919000000001")
		c.Next()
	}
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type stubFlows struct {
	application.AdvisoryFlows
	chatErr   error
	voiceSeen flows.VoiceChatInput
}

func (s *stubFlows) Chat(_ context.Context, in flows.ChatInput) (*flows.ChatOutput, error) {
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	return &flows.ChatOutput{Reply: "echo: " + in.Message}, nil
}

func (s *stubFlows) VoiceChat(_ context.Context, in flows.VoiceChatInput) (*flows.VoiceChatOutput, error) {
	s.voiceSeen = in
	return &flows.VoiceChatOutput{Transcript: "hello", Reply: "hi"}, nil
}

func advisoryRouter(f *stubFlows) *gin.Engine {
	h := NewAdvisoryHandler(application.NewAdvisoryService(f, nil, nil), nil)
	r := gin.New()
	r.Use(asUser("u1"))
	r.POST("/ai/chat", h.Chat)
	r.POST("/ai/voice-chat", h.VoiceChat)
	return r
}

func TestAdvisoryHandler_ChatSuccess(t *testing.T) {
	w, env := do(t, advisoryRouter(&stubFlows{}), http.MethodPost, "/ai/chat", map[string]any{"message": "namaste"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var res application.Result[flows.ChatOutput]
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Success)
	assert.Equal(t, "echo: namaste", res.Data.Reply)
}

func TestAdvisoryHandler_ChatBusy(t *testing.T) {
	w, env := do(t, advisoryRouter(&stubFlows{chatErr: errors.New("Error 503, overloaded")}), http.MethodPost, "/ai/chat", map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, application.ServiceBusyMessage, env.Message)
}

func TestAdvisoryHandler_BadJSON(t *testing.T) {
	w, env := do(t, advisoryRouter(&stubFlows{}), http.MethodPost, "/ai/chat", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "invalid json")
}

func TestAdvisoryHandler_VoiceChatMultipart(t *testing.T) {
	f := &stubFlows{}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("language", "hi"))
	part, err := mw.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, _ = part.Write([]byte("RIFF\x24\x00\x00\x00WAVEfmt "))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ai/voice-chat", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	advisoryRouter(f).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "hi", f.voiceSeen.Language)
	assert.Contains(t, f.voiceSeen.AudioDataURI, "data:audio/wave;base64,")
}

func TestCartHandler_AddAndRemoveViaZero(t *testing.T) {
	store := &mocks.CartStore{}
	products := &mocks.ProductRepository{}
	cart := entity.NewCart("u1")
	products.On("GetByID", mock.Anything, "seed-1").Return(&entity.Product{ID: "seed-1", Name: "Paddy Seeds", Price: 80}, nil)
	store.On("Get", mock.Anything, "u1").Return(cart, nil)
	store.On("Save", mock.Anything, cart).Return(nil)

	h := NewCartHandler(application.NewCartService(store, products, nil))
	r := gin.New()
	r.Use(asUser("u1"))
	r.POST("/cart/items", h.AddItem)
	r.PUT("/cart/items/:productId", h.UpdateItem)

	w, env := do(t, r, http.MethodPost, "/cart/items", map[string]any{"productId": "seed-1", "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Total float64 `json:"total"`
		Count int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 3, view.Count)
	assert.InDelta(t, 240, view.Total, 1e-9)

	w, env = do(t, r, http.MethodPut, "/cart/items/seed-1", map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Zero(t, view.Count)
	assert.Empty(t, cart.Items)

	w, _ = do(t, r, http.MethodPut, "/cart/items/seed-1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandler_UpdateValidation(t *testing.T) {
	h := NewProfileHandler(application.NewProfileService(&mocks.ProfileRepository{}, nil, 0, nil), nil)
	r := gin.New()
	r.Use(asUser("u1"))
	r.PUT("/profile", h.Update)

	w, env := do(t, r, http.MethodPut, "/profile", map[string]any{"displayName": "A", "age": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "displayName")
	assert.Contains(t, details, "age")
}

func TestProfileHandler_Session(t *testing.T) {
	repo := &mocks.ProfileRepository{}
	repo.On("Ensure", mock.Anything, "u1", "+919000000001").Return(&entity.UserProfile{UID: "u1", PhoneNumber: "+919000000001"}, nil)
	h := NewProfileHandler(application.NewProfileService(repo, nil, 0, nil), nil)
	r := gin.New()
	r.Use(asUser("u1"))
	r.POST("/profile/session", h.Session)

	w, env := do(t, r, http.MethodPost, "/profile/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"uid":"u1"`)
	assert.Contains(t, w.Body.String(), `"needsSetup":true`)
}

func TestPushHandler_RegisterRejectsPlatform(t *testing.T) {
	h := NewPushHandler(application.NewPushService(&mocks.PushTokenRepository{}))
	r := gin.New()
	r.Use(asUser("u1"))
	r.POST("/push/tokens", h.Register)

	w, env := do(t, r, http.MethodPost, "/push/tokens", map[string]any{"token": "t", "platform": "blackberry"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "platform")
}

func TestReportHandler_DisabledIsAccepted(t *testing.T) {
	svc := application.NewReportService(&config.Config{MailSendEnabled: false}, nil, nil, nil)
	r := gin.New()
	r.Use(asUser("u1"))
	r.POST("/reports/email", NewReportHandler(svc, nil).Email)

	w, env := do(t, r, http.MethodPost, "/reports/email", map[string]any{
		"to": "farmer@example.com", "title": "Soil", "sections": []any{},
	})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, string(env.Data), `"disabled":true`)

	w, _ = do(t, r, http.MethodPost, "/reports/email", map[string]any{"to": "nope", "title": "Soil"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	r := gin.New()
	r.GET("/health", NewHealthHandler(map[string]Pinger{"postgres": ok}).Health)
	w, _ := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	r = gin.New()
	r.GET("/health", NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).Health)
	w, env := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, string(env.Error), `"redis":"down"`)
}

package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlexZinkM/authenticity-key/internal/model"
	"github.com/AlexZinkM/authenticity-key/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testTx        = "0b4c0e4a9b3b6e1e95e7b1ad1e7a1d5f3cf2b6b1ef0c1a3c2f4c7f0b1a2d3e4f"
	testSignature = "3045022100fc7e30b895cc97bd00895d8e0751e800dae36922a03f46168ff1d9588b66e38e02200a2214497abb119de2a8031465f33e02714c990fb39782c24c7f0676598616c6"
)

// --- mock ---

type mockEngine struct{ mock.Mock }

func (m *mockEngine) AddKey(ctx context.Context, seed, secondSecret string) (*model.Registration, error) {
	args := m.Called(ctx, seed, secondSecret)
	if reg, _ := args.Get(0).(*model.Registration); reg != nil {
		return reg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEngine) VerifySignature(ctx context.Context, transactionID, signature string) (*model.VerificationResult, error) {
	args := m.Called(ctx, transactionID, signature)
	if res, _ := args.Get(0).(*model.VerificationResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEngine) Connection() (*verification.ConnectionContext, error) {
	args := m.Called()
	if conn, _ := args.Get(0).(*verification.ConnectionContext); conn != nil {
		return conn, args.Error(1)
	}
	return nil, args.Error(1)
}

// failure builds an error that matches category with errors.Is, like the engine's
type failure struct{ category error }

func (f failure) Error() string   { return "registration failed" }
func (f failure) Unwrap() []error { return []error{f.category} }

// --- helpers ---

func newHandler(engine Engine) *VerificationHandler {
	return NewVerificationHandler(engine, "https://verify.example.com", nil)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// --- /add ---

func TestAddKey_Success(t *testing.T) {
	engine := new(mockEngine)
	engine.On("AddKey", mock.Anything, "seed words", "").Return(&model.Registration{
		TransactionID:   testTx,
		Signature:       testSignature,
		VerificationKey: "3906EE4775E68474",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"seed":"seed words"}`))
	rec := httptest.NewRecorder()
	newHandler(engine).AddKey(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[struct {
		Success bool               `json:"success"`
		Data    model.Registration `json:"data"`
	}](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, testTx, body.Data.TransactionID)
	assert.Equal(t, "3906EE4775E68474", body.Data.VerificationKey)
	engine.AssertExpectations(t)
}

func TestAddKey_SecondSecretPassed(t *testing.T) {
	engine := new(mockEngine)
	engine.On("AddKey", mock.Anything, "seed", "second").Return(&model.Registration{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"seed":"seed","secondSecret":"second"}`))
	rec := httptest.NewRecorder()
	newHandler(engine).AddKey(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	engine.AssertExpectations(t)
}

func TestAddKey_MalformedBody(t *testing.T) {
	engine := new(mockEngine)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"seed":`))
	rec := httptest.NewRecorder()
	newHandler(engine).AddKey(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[model.ErrorResponse](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, ErrBadAddInput, body.Error)
	engine.AssertNotCalled(t, "AddKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddKey_Failures(t *testing.T) {
	tests := []struct {
		name     string
		category error
		status   int
	}{
		{"validation", verification.ErrValidation, http.StatusBadRequest},
		{"gateway", verification.ErrGateway, http.StatusBadGateway},
		{"not connected", verification.ErrInvalidState, http.StatusServiceUnavailable},
		{"crypto", verification.ErrCrypto, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(mockEngine)
			engine.On("AddKey", mock.Anything, mock.Anything, mock.Anything).Return(nil, failure{tt.category})

			req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"seed":"x"}`))
			rec := httptest.NewRecorder()
			newHandler(engine).AddKey(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			body := decode[model.ErrorResponse](t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, ErrBadAddInput, body.Error)
		})
	}
}

// --- /verify ---

func TestVerify_Success(t *testing.T) {
	engine := new(mockEngine)
	engine.On("VerifySignature", mock.Anything, testTx, testSignature).Return(&model.VerificationResult{
		Authentic:       true,
		VerifiedClient:  model.ClientUnknown,
		VerificationKey: "marcs1970",
		TransactionID:   testTx,
		Signature:       testSignature,
		PublicKey:       "027538461fd40b25f08e5e64b565daca422cbc5edb6c699ca4e30cf3c678b36122",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/verify?tx="+testTx+"&signature="+testSignature, nil)
	rec := httptest.NewRecorder()
	newHandler(engine).Verify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.True(t, raw.Success)
	assert.Equal(t, true, raw.Data["authentic"])
	assert.Equal(t, "unknown", raw.Data["verifiedClient"])
	assert.Equal(t, "marcs1970", raw.Data["verificationKey"])
	assert.Equal(t, testTx, raw.Data["transactionId"])
}

func TestVerify_Failure(t *testing.T) {
	engine := new(mockEngine)
	engine.On("VerifySignature", mock.Anything, "", "").Return(nil, failure{verification.ErrValidation})

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	rec := httptest.NewRecorder()
	newHandler(engine).Verify(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[model.ErrorResponse](t, rec)
	assert.Equal(t, ErrBadVerifyInput, body.Error)
}

// --- /label ---

func TestLabel_PNG(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/label?tx="+testTx+"&signature="+testSignature+"&size=128", nil)
	rec := httptest.NewRecorder()
	newHandler(new(mockEngine)).Label(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestLabel_Base64(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/label?format=base64&tx="+testTx+"&signature="+testSignature, nil)
	rec := httptest.NewRecorder()
	newHandler(new(mockEngine)).Label(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Success bool                `json:"success"`
		Data    model.LabelResponse `json:"data"`
	}](t, rec)
	assert.Equal(t, fmt.Sprintf("https://verify.example.com/verify?signature=%s&tx=%s", testSignature, testTx), body.Data.URL)

	png, err := base64.StdEncoding.DecodeString(body.Data.QR)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestLabel_BadInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing tx", "?signature=" + testSignature},
		{"short tx", "?tx=abc&signature=" + testSignature},
		{"0x prefixed tx", "?tx=0x" + testTx[2:] + "&signature=" + testSignature},
		{"missing signature", "?tx=" + testTx},
		{"size too small", "?tx=" + testTx + "&signature=" + testSignature + "&size=10"},
		{"size not a number", "?tx=" + testTx + "&signature=" + testSignature + "&size=big"},
		{"unknown format", "?tx=" + testTx + "&signature=" + testSignature + "&format=svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/label"+tt.query, nil)
			rec := httptest.NewRecorder()
			newHandler(new(mockEngine)).Label(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[model.ErrorResponse](t, rec)
			assert.False(t, body.Success)
		})
	}
}

// --- /healthz ---

func TestHealth(t *testing.T) {
	engine := new(mockEngine)
	engine.On("Connection").Return(&verification.ConnectionContext{
		Network: "mainnet",
		Node:    "http://node.test:4001",
		Version: 0x17,
	}, nil)

	rec := httptest.NewRecorder()
	newHandler(engine).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Data model.HealthResponse `json:"data"`
	}](t, rec)
	assert.Equal(t, "mainnet", body.Data.Network)
	assert.Equal(t, byte(0x17), body.Data.Version)
}

func TestHealth_NotConnected(t *testing.T) {
	engine := new(mockEngine)
	engine.On("Connection").Return(nil, errors.New("not connected"))

	rec := httptest.NewRecorder()
	newHandler(engine).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

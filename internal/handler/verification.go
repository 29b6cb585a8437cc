package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/authenticity-key/internal/label"
	"github.com/AlexZinkM/authenticity-key/internal/logging"
	"github.com/AlexZinkM/authenticity-key/internal/model"
	"github.com/AlexZinkM/authenticity-key/internal/validate"
	"github.com/AlexZinkM/authenticity-key/verification"

	"go.uber.org/zap"
)

// User facing errors. Causes are only logged.
const (
	ErrBadAddInput    = "Bad input: check seed or balance."
	ErrBadVerifyInput = "Bad input: check transactionId and signature."
	errNotConnected   = "Not connected to the blockchain."
)

const maxBodyBytes = 1 << 16

// Engine is the part of the verification engine the handlers use
type Engine interface {
	AddKey(ctx context.Context, seed, secondSecret string) (*model.Registration, error)
	VerifySignature(ctx context.Context, transactionID, signature string) (*model.VerificationResult, error)
	Connection() (*verification.ConnectionContext, error)
}

// VerificationHandler serves registration, verification and label endpoints
type VerificationHandler struct {
	engine    Engine
	publicURL string
	logger    *zap.Logger
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(engine Engine, publicURL string, logger *zap.Logger) *VerificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationHandler{
		engine:    engine,
		publicURL: publicURL,
		logger:    logger.Named("http"),
	}
}

// AddKey handles POST /add
// @Summary      Register a verification key
// @Description  Generates a verification key, signs it with the wallet of seed and stores it on the ARK chain
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        request  body      model.AddKeyRequest  true  "Wallet passphrases"
// @Success      200      {object}  model.Envelope{data=model.Registration}
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /add [post]
func (h *VerificationHandler) AddKey(w http.ResponseWriter, r *http.Request) {
	var req model.AddKeyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.log(r).Warn("invalid /add body", zap.Error(err))
		writeError(w, http.StatusBadRequest, ErrBadAddInput)
		return
	}

	reg, err := h.engine.AddKey(r.Context(), req.Seed, req.SecondSecret)
	if err != nil {
		writeError(w, statusFor(err), ErrBadAddInput)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: reg})
}

// Verify handles GET /verify
// @Summary      Verify a product signature
// @Description  Checks a signature against the verification key stored in transaction tx
// @Tags         verification
// @Produce      json
// @Param        tx         query     string  true  "Registration transaction id"
// @Param        signature  query     string  true  "DER hex signature printed on the product"
// @Success      200        {object}  model.Envelope{data=model.VerificationResult}
// @Failure      400        {object}  model.ErrorResponse
// @Failure      502        {object}  model.ErrorResponse
// @Router       /verify [get]
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.engine.VerifySignature(r.Context(), q.Get("tx"), q.Get("signature"))
	if err != nil {
		writeError(w, statusFor(err), ErrBadVerifyInput)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: result})
}

// Label handles GET /label
// @Summary      Product label QR code
// @Description  Renders the public verify link of a registration as a QR code
// @Tags         verification
// @Produce      png
// @Produce      json
// @Param        tx         query     string  true   "Registration transaction id"
// @Param        signature  query     string  true   "DER hex signature"
// @Param        size       query     int     false  "Image size in pixels (64-1024)"
// @Param        format     query     string  false  "png (default) or base64"
// @Success      200        {object}  model.Envelope{data=model.LabelResponse}
// @Failure      400        {object}  model.ErrorResponse
// @Router       /label [get]
func (h *VerificationHandler) Label(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := model.VerifyRequest{TransactionID: q.Get("tx"), Signature: q.Get("signature")}
	if err := validate.Struct(req); err != nil {
		h.log(r).Warn("invalid /label query", zap.Error(err))
		writeError(w, http.StatusBadRequest, ErrBadVerifyInput)
		return
	}

	size := label.DefaultSize
	if s := q.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < label.MinSize || n > label.MaxSize {
			writeError(w, http.StatusBadRequest, "Bad input: size must be between 64 and 1024.")
			return
		}
		size = n
	}

	link, err := label.VerifyURL(h.publicURL, req.TransactionID, req.Signature)
	if err != nil {
		h.log(r).Error("failed to build verify link", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not render label.")
		return
	}

	switch q.Get("format") {
	case "", "png":
		png, err := label.PNG(link, size)
		if err != nil {
			h.log(r).Error("failed to render label", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Could not render label.")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	case "base64":
		qr, err := label.Base64PNG(link, size)
		if err != nil {
			h.log(r).Error("failed to render label", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Could not render label.")
			return
		}
		writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: model.LabelResponse{URL: link, QR: qr}})
	default:
		writeError(w, http.StatusBadRequest, "Bad input: format must be png or base64.")
	}
}

// Health handles GET /healthz
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  model.Envelope{data=model.HealthResponse}
// @Failure      503  {object}  model.ErrorResponse
// @Router       /healthz [get]
func (h *VerificationHandler) Health(w http.ResponseWriter, _ *http.Request) {
	conn, err := h.engine.Connection()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errNotConnected)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: model.HealthResponse{
		Network: conn.Network,
		Node:    conn.Node,
		Nethash: conn.Nethash,
		Version: conn.Version,
	}})
}

// log returns the request scoped logger set by the router
func (h *VerificationHandler) log(r *http.Request) *zap.Logger {
	return logging.FromContext(r.Context(), h.logger)
}

// statusFor maps an engine failure to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, verification.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, verification.ErrInvalidState):
		return http.StatusServiceUnavailable
	case errors.Is(err, verification.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Success: false, Error: msg})
}

package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/authenticity-key/ark"
	"github.com/AlexZinkM/authenticity-key/internal/crypto"
	"github.com/AlexZinkM/authenticity-key/internal/metrics"
	"github.com/AlexZinkM/authenticity-key/internal/model"
	"github.com/AlexZinkM/authenticity-key/internal/validate"

	"go.uber.org/zap"
)

// ErrLookupFailed is the opaque outcome of LookupPublicKey
var ErrLookupFailed = errors.New("public key lookup failed")

// Gateway is the read/write API of an ARK node.
// Resolve must not change the node the gateway talks to, only Use does.
type Gateway interface {
	Resolve(ctx context.Context, network, node string) (*model.ConnectionInfo, error)
	Use(info *model.ConnectionInfo)
	Submit(ctx context.Context, tx *model.Transaction) (string, error)
	FetchTransaction(ctx context.Context, id string) (*model.TransactionRef, error)
	FetchAccountPublicKey(ctx context.Context, address string) (string, error)
}

// IssuerRegistry knows the public keys of trusted issuers
type IssuerRegistry interface {
	IsKnownIssuer(ctx context.Context, publicKey string) (bool, error)
}

// ConnectionContext holds the network parameters an engine works with.
// It is set once by Connect and never modified.
type ConnectionContext struct {
	Network string
	Node    string
	Nethash string
	Version byte
}

// Engine registers and verifies authenticity keys on one network
type Engine struct {
	gateway  Gateway
	registry IssuerRegistry
	logger   *zap.Logger
	now      func() time.Time

	connectMu sync.Mutex
	conn      atomic.Pointer[ConnectionContext]
}

// Option configures an Engine
type Option func(*Engine)

// WithIssuerRegistry sets the registry used to flag verified clients
func WithIssuerRegistry(registry IssuerRegistry) Option {
	return func(e *Engine) { e.registry = registry }
}

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock replaces time.Now, tokens and transaction timestamps are taken from it
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an unconnected engine
func NewEngine(gateway Gateway, opts ...Option) *Engine {
	e := &Engine{
		gateway: gateway,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("verification")
	return e
}

// Connect resolves the network through the gateway and fixes the engine to it.
// Connecting again is allowed only to a node of the same network version.
func (e *Engine) Connect(ctx context.Context, network, node string) (*ConnectionContext, error) {
	e.connectMu.Lock()
	defer e.connectMu.Unlock()

	info, err := e.gateway.Resolve(ctx, network, node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	if current := e.conn.Load(); current != nil && current.Version != info.Version {
		e.logger.Warn("refusing to switch network",
			zap.String("node", info.Node),
			zap.Uint8("current", current.Version),
			zap.Uint8("got", info.Version),
		)
		return nil, fmt.Errorf("%w: already connected to network version %d, got %d", ErrInvalidState, current.Version, info.Version)
	}

	e.gateway.Use(info)

	conn := &ConnectionContext{
		Network: info.Network,
		Node:    info.Node,
		Nethash: info.Nethash,
		Version: info.Version,
	}
	e.conn.Store(conn)

	return conn, nil
}

// Connection returns the connection context or ErrInvalidState before Connect
func (e *Engine) Connection() (*ConnectionContext, error) {
	conn := e.conn.Load()
	if conn == nil {
		return nil, fmt.Errorf("%w: engine is not connected", ErrInvalidState)
	}
	return conn, nil
}

// AddKey generates a verification key for seed, signs it and stores it on the
// chain in a self addressed transaction.
// On any failure the returned error is a *Failure reading "registration failed".
func (e *Engine) AddKey(ctx context.Context, seed, secondSecret string) (*model.Registration, error) {
	reg, err := e.addKey(ctx, seed, secondSecret)
	if err != nil {
		metrics.Registrations.WithLabelValues(metrics.ResultFailed).Inc()
		e.logger.Error("registration failed",
			zap.String("category", err.Category().Error()),
			zap.Error(err.Cause()),
		)
		return nil, err
	}

	metrics.Registrations.WithLabelValues(metrics.ResultOK).Inc()
	e.logger.Info("registered verification key",
		zap.String("transactionId", reg.TransactionID),
		zap.String("verificationKey", reg.VerificationKey),
	)
	return reg, nil
}

func (e *Engine) addKey(ctx context.Context, seed, secondSecret string) (*model.Registration, *Failure) {
	conn, err := e.Connection()
	if err != nil {
		return nil, registrationFailure(ErrInvalidState, err)
	}

	// Verify input
	if err := validate.Struct(model.AddKeyRequest{Seed: seed, SecondSecret: secondSecret}); err != nil {
		return nil, registrationFailure(ErrValidation, err)
	}

	at := e.now()

	// Generate a new verification key for this product
	token, err := crypto.GenerateVerificationToken(seed, at)
	if err != nil {
		return nil, registrationFailure(ErrCrypto, fmt.Errorf("failed to generate verification key: %w", err))
	}
	if len(token) != crypto.TokenLength {
		return nil, registrationFailure(ErrInvariant, fmt.Errorf("verification key has %d characters, expected %d", len(token), crypto.TokenLength))
	}

	// Sign key with wallet
	signature, err := crypto.Sign(token, seed)
	if err != nil {
		return nil, registrationFailure(ErrCrypto, err)
	}

	// Add to blockchain
	tx, err := ark.BuildRegistrationTransaction(seed, secondSecret, token, conn.Version, at)
	if err != nil {
		return nil, registrationFailure(ErrCrypto, err)
	}

	transactionID, err := e.gateway.Submit(ctx, tx)
	if err != nil {
		return nil, registrationFailure(ErrGateway, err)
	}

	return &model.Registration{
		TransactionID:   transactionID,
		Signature:       signature,
		VerificationKey: token,
	}, nil
}

// VerifySignature checks that signature was made over the verification key
// stored in transaction transactionID by the sender of that transaction.
// A signature that does not match yields Authentic false, not an error.
// On any failure the returned error is a *Failure reading "verification failed".
func (e *Engine) VerifySignature(ctx context.Context, transactionID, signature string) (*model.VerificationResult, error) {
	result, err := e.verifySignature(ctx, transactionID, signature)
	if err != nil {
		metrics.Verifications.WithLabelValues(metrics.ResultFailed).Inc()
		e.logger.Error("verification failed",
			zap.String("transactionId", transactionID),
			zap.String("category", err.Category().Error()),
			zap.Error(err.Cause()),
		)
		return nil, err
	}

	outcome := "forged"
	if result.Authentic {
		outcome = "authentic"
	}
	metrics.Verifications.WithLabelValues(outcome).Inc()
	e.logger.Info("verified signature",
		zap.String("transactionId", transactionID),
		zap.Bool("authentic", result.Authentic),
		zap.Stringer("verifiedClient", result.VerifiedClient),
	)
	return result, nil
}

func (e *Engine) verifySignature(ctx context.Context, transactionID, signature string) (*model.VerificationResult, *Failure) {
	if _, err := e.Connection(); err != nil {
		return nil, verificationFailure(ErrInvalidState, err)
	}

	// Verify input
	if err := validate.Struct(model.VerifyRequest{TransactionID: transactionID, Signature: signature}); err != nil {
		return nil, verificationFailure(ErrValidation, err)
	}

	// Get transaction and retrieve verification key from vendor field and public key
	ref, err := e.gateway.FetchTransaction(ctx, transactionID)
	if err != nil {
		return nil, verificationFailure(ErrGateway, err)
	}
	if ref.SenderPublicKey == "" {
		return nil, verificationFailure(ErrGateway, fmt.Errorf("transaction %s has no sender public key", transactionID))
	}

	verifiedClient := e.isKnownIssuer(ctx, ref.SenderPublicKey)

	// Verify verification key with signature
	authentic, err := crypto.Verify(ref.VendorField, signature, ref.SenderPublicKey)
	if err != nil {
		e.logger.Warn("signature could not be checked",
			zap.String("transactionId", transactionID),
			zap.Error(err),
		)
		authentic = false
	}

	return &model.VerificationResult{
		Authentic:       authentic,
		VerifiedClient:  verifiedClient,
		VerificationKey: ref.VendorField,
		TransactionID:   transactionID,
		Signature:       signature,
		PublicKey:       ref.SenderPublicKey,
	}, nil
}

// isKnownIssuer never fails, lookup errors degrade to ClientUnknown
func (e *Engine) isKnownIssuer(ctx context.Context, publicKey string) model.ClientStatus {
	if e.registry == nil {
		return model.ClientNotVerified
	}

	known, err := e.registry.IsKnownIssuer(ctx, publicKey)
	if err != nil {
		e.logger.Warn("could not authenticate client", zap.String("publicKey", publicKey), zap.Error(err))
		return model.ClientUnknown
	}
	if known {
		return model.ClientVerified
	}
	return model.ClientNotVerified
}

// LookupPublicKey returns the public key the chain knows for address.
// Only accounts that sent a transaction have one.
func (e *Engine) LookupPublicKey(ctx context.Context, address string) (string, error) {
	conn, err := e.Connection()
	if err != nil {
		return "", &Failure{outcome: ErrLookupFailed, category: ErrInvalidState, cause: err}
	}

	if !crypto.ValidateAddress(address, conn.Version) {
		return "", &Failure{outcome: ErrLookupFailed, category: ErrValidation, cause: fmt.Errorf("%w: %s", crypto.ErrInvalidAddress, address)}
	}

	publicKey, err := e.gateway.FetchAccountPublicKey(ctx, address)
	if err != nil {
		e.logger.Error("public key lookup failed", zap.String("address", address), zap.Error(err))
		return "", &Failure{outcome: ErrLookupFailed, category: ErrGateway, cause: err}
	}
	return publicKey, nil
}

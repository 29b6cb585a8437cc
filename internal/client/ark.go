package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/authenticity-key/internal/crypto"
	"github.com/AlexZinkM/authenticity-key/internal/metrics"
	"github.com/AlexZinkM/authenticity-key/internal/model"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	autoconfigurePath = "/api/loader/autoconfigure"
	peersPath         = "/api/peers"
	transactionPath   = "/api/transactions/get"
	accountsPath      = "/api/accounts"
	postPath          = "/peer/transactions"

	protocolVersion  = "1.1.1" // sent in the version header of peer requests
	accountCacheSize = 1024
)

var (
	ErrNotConnected        = errors.New("gateway is not connected")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountNotFound     = errors.New("account not found")
)

// SubmissionRejectedError is returned when the node refuses a transaction
type SubmissionRejectedError struct {
	Reason string
}

func (e *SubmissionRejectedError) Error() string {
	return fmt.Sprintf("transaction rejected: %s", e.Reason)
}

// statusError is a non 2xx answer from a node
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Options configure an ArkClient
type Options struct {
	Timeout        time.Duration // per request
	MaxRetries     int           // retries of transient failures
	RetryBackoff   time.Duration // first retry delay, doubled on each attempt
	BroadcastPeers int           // peers a submitted transaction is relayed to
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// ArkClient is a client for the REST API of an ARK v1 node
type ArkClient struct {
	httpClient *http.Client
	opts       Options
	logger     *zap.Logger
	accounts   *lru.Cache[string, string]

	mu   sync.RWMutex
	conn *model.ConnectionInfo

	relays sync.WaitGroup // background rebroadcasts
}

// NewArkClient creates a new, not yet connected, ARK client
func NewArkClient(opts Options) (*ArkClient, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	accounts, err := lru.New[string, string](accountCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create account cache: %w", err)
	}

	return &ArkClient{
		httpClient: httpClient,
		opts:       opts,
		logger:     opts.Logger.Named("gateway"),
		accounts:   accounts,
	}, nil
}

// autoconfigureResponse response from /api/loader/autoconfigure
type autoconfigureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Network struct {
		Nethash  string `json:"nethash"`
		Token    string `json:"token"`
		Symbol   string `json:"symbol"`
		Explorer string `json:"explorer"`
		Version  int    `json:"version"`
	} `json:"network"`
}

type peersResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Peers   []model.Peer `json:"peers"`
}

// Resolve reads the network parameters of node and its reachable peers.
// The client keeps using its current node until Use is called.
func (c *ArkClient) Resolve(ctx context.Context, network, node string) (*model.ConnectionInfo, error) {
	base, err := normalizeNode(node)
	if err != nil {
		return nil, err
	}

	var auto autoconfigureResponse
	if err := c.getJSON(ctx, base, autoconfigurePath, nil, &auto); err != nil {
		return nil, fmt.Errorf("failed to autoconfigure from %s: %w", base, err)
	}
	if !auto.Success {
		return nil, fmt.Errorf("failed to autoconfigure from %s: %s", base, orDefault(auto.Error, "node reported failure"))
	}
	if auto.Network.Version <= 0 || auto.Network.Version > 255 {
		return nil, fmt.Errorf("node reported invalid network version %d", auto.Network.Version)
	}

	version := byte(auto.Network.Version)
	if expected, ok := crypto.NetworkVersion(network); ok && expected != version {
		return nil, fmt.Errorf("node %s serves network version %d, %s expects %d", base, version, network, expected)
	}

	info := &model.ConnectionInfo{
		Network:  network,
		Node:     base,
		Nethash:  auto.Network.Nethash,
		Version:  version,
		Token:    auto.Network.Token,
		Symbol:   auto.Network.Symbol,
		Explorer: auto.Network.Explorer,
	}

	// Peers are only used for rebroadcasting, a node without them is still usable
	var peers peersResponse
	if err := c.getJSON(ctx, base, peersPath, nil, &peers); err != nil || !peers.Success {
		c.logger.Warn("could not list peers", zap.String("node", base), zap.Error(err), zap.String("reason", peers.Error))
	} else {
		for _, p := range peers.Peers {
			if p.Status == "OK" && p.IP != "" && p.Port > 0 {
				info.Peers = append(info.Peers, p)
			}
		}
	}

	return info, nil
}

// Use makes info, as returned by Resolve, the connection of the client
func (c *ArkClient) Use(info *model.ConnectionInfo) {
	c.mu.Lock()
	c.conn = info
	c.mu.Unlock()

	c.logger.Info("connected",
		zap.String("network", info.Network),
		zap.String("node", info.Node),
		zap.Uint8("version", info.Version),
		zap.Int("peers", len(info.Peers)),
	)
}

// Connection returns the current connection or ErrNotConnected
func (c *ArkClient) Connection() (*model.ConnectionInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	return c.conn, nil
}

type postResponse struct {
	Success        bool     `json:"success"`
	Error          string   `json:"error"`
	Message        string   `json:"message"`
	TransactionIDs []string `json:"transactionIds"`
}

// Submit posts a signed transaction to the node and returns the id it assigned.
// The transaction is then relayed to a few peers in the background, relay
// failures are only logged. Wait blocks until relays are done.
func (c *ArkClient) Submit(ctx context.Context, tx *model.Transaction) (string, error) {
	conn, err := c.Connection()
	if err != nil {
		return "", err
	}

	body := map[string][]*model.Transaction{"transactions": {tx}}

	// Posting is not idempotent, transient failures are not retried
	var resp postResponse
	if err := c.postJSON(ctx, conn, conn.Node, body, &resp); err != nil {
		return "", fmt.Errorf("failed to post transaction: %w", err)
	}
	if !resp.Success {
		return "", &SubmissionRejectedError{Reason: orDefault(resp.Error, orDefault(resp.Message, "failed to post transaction to the network"))}
	}
	if len(resp.TransactionIDs) == 0 {
		return "", &SubmissionRejectedError{Reason: "did not receive a transaction id, check on blockchain"}
	}

	// the node accepted it, relaying outlives the caller's request
	relayCtx := context.WithoutCancel(ctx)
	c.relays.Add(1)
	go func() {
		defer c.relays.Done()
		c.broadcast(relayCtx, conn, body)
	}()

	return resp.TransactionIDs[0], nil
}

// Wait blocks until background rebroadcasts finish or ctx is done
func (c *ArkClient) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.relays.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type transactionResponse struct {
	Success     bool                  `json:"success"`
	Error       string                `json:"error"`
	Transaction *model.TransactionRef `json:"transaction"`
}

// FetchTransaction gets the sender public key and vendor field of a transaction
func (c *ArkClient) FetchTransaction(ctx context.Context, id string) (*model.TransactionRef, error) {
	conn, err := c.Connection()
	if err != nil {
		return nil, err
	}

	var resp transactionResponse
	if err := c.getJSON(ctx, conn.Node, transactionPath, url.Values{"id": {id}}, &resp); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if !resp.Success || resp.Transaction == nil {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, orDefault(resp.Error, "failed to retrieve transaction from node"))
	}

	return resp.Transaction, nil
}

type accountResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Account *struct {
		Address   string `json:"address"`
		PublicKey string `json:"publicKey"`
	} `json:"account"`
}

// FetchAccountPublicKey gets the public key of an address.
// Accounts without outgoing transactions have no known public key.
func (c *ArkClient) FetchAccountPublicKey(ctx context.Context, address string) (string, error) {
	conn, err := c.Connection()
	if err != nil {
		return "", err
	}

	if publicKey, ok := c.accounts.Get(address); ok {
		return publicKey, nil
	}

	var resp accountResponse
	if err := c.getJSON(ctx, conn.Node, accountsPath, url.Values{"address": {address}}, &resp); err != nil {
		return "", fmt.Errorf("failed to get account: %w", err)
	}
	if !resp.Success || resp.Account == nil || resp.Account.PublicKey == "" {
		return "", fmt.Errorf("%w: %s", ErrAccountNotFound, orDefault(resp.Error, address))
	}

	c.accounts.Add(address, resp.Account.PublicKey)
	return resp.Account.PublicKey, nil
}

// getJSON performs a GET request with retries on transient failures
func (c *ArkClient) getJSON(ctx context.Context, base, path string, query url.Values, out any) error {
	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = c.do(ctx, http.MethodGet, target, path, nil, nil, out)
		if err == nil || !isTransient(err) || attempt >= c.opts.MaxRetries {
			return err
		}

		delay := c.opts.RetryBackoff << attempt
		c.logger.Debug("retrying request", zap.String("url", target), zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *ArkClient) postJSON(ctx context.Context, conn *model.ConnectionInfo, base string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("nethash", conn.Nethash)
	headers.Set("version", protocolVersion)
	headers.Set("port", portOf(base))

	return c.do(ctx, http.MethodPost, base+postPath, postPath, payload, headers, out)
}

func (c *ArkClient) do(ctx context.Context, method, target, endpoint string, body []byte, headers http.Header, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return err
	}
	defer resp.Body.Close()
	metrics.GatewayRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isTransient reports whether a failed request may succeed when retried
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func normalizeNode(node string) (string, error) {
	node = strings.TrimSpace(node)
	if node == "" {
		return "", errors.New("node address is empty")
	}
	if !strings.Contains(node, "://") {
		node = "http://" + node
	}

	u, err := url.Parse(node)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid node address %q", node)
	}
	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/"), nil
}

func portOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

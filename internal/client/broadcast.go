package client

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"sync"

	"github.com/AlexZinkM/authenticity-key/internal/metrics"
	"github.com/AlexZinkM/authenticity-key/internal/model"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// broadcast relays an accepted transaction to up to BroadcastPeers random peers.
// The node already accepted it, so every failure here is only logged.
func (c *ArkClient) broadcast(ctx context.Context, conn *model.ConnectionInfo, body any) {
	peers := pickPeers(conn.Peers, conn.Node, c.opts.BroadcastPeers)
	if len(peers) == 0 {
		return
	}

	var (
		mu     sync.Mutex
		result *multierror.Error
	)

	var g errgroup.Group
	g.SetLimit(4)
	for _, peer := range peers {
		base := "http://" + net.JoinHostPort(peer.IP, strconv.Itoa(peer.Port))
		g.Go(func() error {
			var resp postResponse
			err := c.postJSON(ctx, conn, base, body, &resp)
			if err == nil && !resp.Success {
				err = fmt.Errorf("peer refused: %s", orDefault(resp.Error, resp.Message))
			}
			if err != nil {
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("%s: %w", base, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := result.ErrorOrNil(); err != nil {
		metrics.Rebroadcasts.WithLabelValues(metrics.ResultFailed).Inc()
		c.logger.Warn("rebroadcast incomplete",
			zap.Int("peers", len(peers)),
			zap.Int("failed", len(result.Errors)),
			zap.Error(err),
		)
		return
	}

	metrics.Rebroadcasts.WithLabelValues(metrics.ResultOK).Inc()
	c.logger.Debug("rebroadcast done", zap.Int("peers", len(peers)))
}

// pickPeers returns at most n random peers other than the node itself
func pickPeers(peers []model.Peer, node string, n int) []model.Peer {
	if n <= 0 {
		return nil
	}

	candidates := make([]model.Peer, 0, len(peers))
	for _, p := range peers {
		if "http://"+net.JoinHostPort(p.IP, strconv.Itoa(p.Port)) == node {
			continue
		}
		candidates = append(candidates, p)
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

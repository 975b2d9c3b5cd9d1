// Package snapshot subscribes to an upstream pool-discovery service and
// delivers decoded pool snapshots on a channel. Discovery itself (reading
// reserves from a node) lives upstream; this client is only the boundary
// consumer feeding the pure computation engine.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/dexroute/arb-engine-go/engine"
)

// Constants for reconnection logic
const (
	initialReconnectDelay = 1 * time.Second
	maxReconnectDelay     = 30 * time.Second

	// RpcNamespace is the namespace under which the discovery streamer is registered.
	RpcNamespace                 = "amm"
	PoolStreamSubscriptionMethod = "subscribePoolSnapshots"
	eventTypeSnapshot            = "snapshot"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the configuration for the client.
type Config struct {
	URL        string
	Logger     Logger
	BufferSize uint
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.URL == "" {
		return errors.New("config: URL is required")
	}
	if c.BufferSize < 1 {
		return errors.New("config: BufferSize must be greater than 0")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	return nil
}

// SubscriptionEvent is the wrapper object received from the server.
type SubscriptionEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	SentAt  int64           `json:"sentAt"`
}

// StreamProcessor handles parsing events, tracking the last-seen sequence,
// and broadcasting decoded snapshots. It is decoupled from the networking
// layer so it can be fed from a websocket, a file, or a test.
type StreamProcessor struct {
	lastSequence uint64
	snapshotCh   chan *engine.PoolSnapshot
	logger       Logger
}

// NewStreamProcessor creates a pure logic processor without networking.
func NewStreamProcessor(logger Logger, bufferSize uint) *StreamProcessor {
	return &StreamProcessor{
		logger:     logger,
		snapshotCh: make(chan *engine.PoolSnapshot, bufferSize),
	}
}

// Snapshots returns a read-only channel for receiving decoded snapshots.
func (sp *StreamProcessor) Snapshots() <-chan *engine.PoolSnapshot {
	return sp.snapshotCh
}

// ProcessMessage accepts one raw JSON message, decodes it, and delivers the
// snapshot. Out-of-order snapshots are dropped with a warning rather than
// delivered: the engine must never scan a stale view after a fresh one.
func (sp *StreamProcessor) ProcessMessage(rawData json.RawMessage) error {
	processingStart := time.Now()

	var event SubscriptionEvent
	if err := json.Unmarshal(rawData, &event); err != nil {
		return fmt.Errorf("failed to unmarshal subscription event: %w", err)
	}
	if event.Type != eventTypeSnapshot {
		return fmt.Errorf("received unknown event type: %s", event.Type)
	}

	var snap engine.PoolSnapshot
	if err := json.Unmarshal(event.Payload, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}

	if snap.Sequence <= sp.lastSequence && sp.lastSequence != 0 {
		sp.logger.Warn("Received out-of-order snapshot. Discarding.",
			"last_sequence", sp.lastSequence,
			"sequence", snap.Sequence,
		)
		return nil // non-fatal, just ignored
	}
	sp.lastSequence = snap.Sequence

	sp.logger.Debug("Snapshot processed",
		"sequence", snap.Sequence,
		"pools", len(snap.Pools),
		"latency_proc_ms", time.Since(processingStart).Milliseconds(),
	)

	sp.snapshotCh <- &snap
	return nil
}

// Client manages the connection and uses StreamProcessor for logic.
type Client struct {
	processor *StreamProcessor
	errCh     chan error
	logger    Logger
}

// NewClient creates a new client with networking enabled.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := &Client{
		processor: NewStreamProcessor(cfg.Logger, cfg.BufferSize),
		errCh:     make(chan error, 1),
		logger:    cfg.Logger,
	}

	go client.run(ctx, cfg.URL)
	return client, nil
}

// Snapshots delegates to the processor's channel.
func (c *Client) Snapshots() <-chan *engine.PoolSnapshot {
	return c.processor.Snapshots()
}

// Err returns a read-only channel for receiving fatal (unrecoverable) errors.
func (c *Client) Err() <-chan error {
	return c.errCh
}

// run handles the networking lifecycle and feeds data to the processor.
func (c *Client) run(ctx context.Context, url string) {
	defer close(c.errCh)
	reconnectDelay := initialReconnectDelay

	for {
		if ctx.Err() != nil {
			c.logger.Info("Client context canceled, shutting down.")
			return
		}

		c.logger.Info("Attempting to connect to discovery server", "url", url)
		rpcClient, err := rpc.DialContext(ctx, url)
		if err != nil {
			c.logger.Error("Failed to connect to discovery server, will retry...", "error", err, "delay", reconnectDelay)
			time.Sleep(reconnectDelay)
			reconnectDelay = min(reconnectDelay*2, maxReconnectDelay)
			continue
		}

		c.logger.Info("Successfully connected to discovery server.")
		reconnectDelay = initialReconnectDelay

		err = c.subscribeAndProcess(ctx, rpcClient)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("Context canceled, shutting down.")
				return
			}
			c.logger.Error("Subscription failed, will reconnect...", "error", err, "delay", reconnectDelay)
			time.Sleep(reconnectDelay)
			reconnectDelay = min(reconnectDelay*2, maxReconnectDelay)
		}
	}
}

func (c *Client) subscribeAndProcess(ctx context.Context, rpcClient *rpc.Client) error {
	defer rpcClient.Close()

	rawCh := make(chan json.RawMessage)
	sub, err := rpcClient.Subscribe(ctx, RpcNamespace, rawCh, PoolStreamSubscriptionMethod)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	c.logger.Info("Successfully subscribed. Waiting for snapshots...")
	for {
		select {
		case rawData := <-rawCh:
			if err := c.processor.ProcessMessage(rawData); err != nil {
				c.logger.Error("Error processing message", "error", err)
			}
		case err := <-sub.Err():
			return err
		case <-ctx.Done():
			c.logger.Info("Context cancelled, stopping subscription.")
			return ctx.Err()
		}
	}
}

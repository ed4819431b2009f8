package gateway

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentlinkco/recruitbot/internal/bus"
	"github.com/talentlinkco/recruitbot/internal/channel"
	"github.com/talentlinkco/recruitbot/internal/classify"
	"github.com/talentlinkco/recruitbot/internal/config"
	"github.com/talentlinkco/recruitbot/internal/kb"
	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/llm"
	"github.com/talentlinkco/recruitbot/internal/orchestrator"
	"github.com/talentlinkco/recruitbot/internal/stage"
	"github.com/talentlinkco/recruitbot/internal/store"
	"github.com/talentlinkco/recruitbot/internal/summary"
)

const defaultBusSize = 64

// turnTimeout bounds one inbound turn end to end, independent of the
// transport's own lifetime.
const turnTimeout = 2 * time.Minute

// Resolver turns one inbound message into a reply; it exists so tests
// can stand in for the full pipeline.
type Resolver interface {
	HandleIncoming(ctx context.Context, sessionKey, channel, rawText, langHint string) (string, error)
}

// Options for creating a Gateway.
type Options struct {
	Resolver   Resolver       // overrides the default pipeline
	SignalChan chan os.Signal // for testing signal handling
}

// Gateway wires the store, the model chain and the reply pipeline to the
// chat transports.
type Gateway struct {
	cfg        *config.Config
	bus        *bus.MessageBus
	store      *store.Store
	resolver   Resolver
	classifier *classify.Classifier
	channels   *channel.Manager
	summarizer *summary.Summarizer
	signalChan chan os.Signal
}

func New(cfg *config.Config) (*Gateway, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Gateway with custom options for testing.
func NewWithOptions(cfg *config.Config, opts Options) (*Gateway, error) {
	g := &Gateway{cfg: cfg}
	g.bus = bus.NewMessageBus(defaultBusSize)

	st, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	g.store = st

	if opts.Resolver != nil {
		g.resolver = opts.Resolver
	} else {
		client := llm.NewChainClient(cfg)

		classifier := classify.New()
		if cfg.Classifier.CatalogPath != "" {
			classifier, err = classify.NewFromCatalog(cfg.Classifier.CatalogPath)
			if err != nil {
				_ = st.Close()
				return nil, fmt.Errorf("load keyword catalog: %w", err)
			}
		}
		g.classifier = classifier

		g.resolver = orchestrator.New(
			st,
			client,
			lang.NewCanonicalizer(client, st, cfg),
			kb.NewMatcher(st),
			classifier,
			stage.New(st),
			rand.New(rand.NewSource(time.Now().UnixNano())),
		)

		if cfg.Summary.Enabled {
			g.summarizer = summary.New(st, client, cfg)
		}
	}

	chMgr, err := channel.NewManager(cfg.Channels, g.bus)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr
	g.signalChan = opts.SignalChan

	return g, nil
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	log.Printf("[gateway] channels started: %v", g.channels.Enabled())

	if g.summarizer != nil {
		if err := g.summarizer.Start(); err != nil {
			log.Printf("[gateway] summarizer start warning: %v", err)
		}
	}

	go g.processLoop(ctx)

	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	log.Printf("[gateway] shutting down...")
	return g.Shutdown()
}

func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case msg := <-g.bus.Inbound:
			log.Printf("[gateway] inbound from %s/%s: %s", msg.Channel, msg.SenderID, truncate(msg.Content, 80))
			g.handleTurn(msg)
		case <-ctx.Done():
			return
		}
	}
}

// handleTurn resolves one inbound message on a context detached from the
// transport: a client disconnect must not cancel an in-flight model call
// or the persistence of its result.
func (g *Gateway) handleTurn(msg bus.InboundMessage) {
	turnCtx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	reply, err := g.resolver.HandleIncoming(turnCtx, msg.SessionKey(), msg.Channel, msg.Content, msg.LangHint)
	if err != nil {
		// Fatal for this turn: the inbound message is persisted, no
		// assistant message goes out.
		log.Printf("[gateway] turn failed for %s: %v", msg.SessionKey(), err)
		return
	}
	if reply == "" {
		return
	}
	g.bus.Outbound <- bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: reply,
	}
}

func (g *Gateway) Shutdown() error {
	if g.summarizer != nil {
		g.summarizer.Stop()
	}
	if err := g.channels.StopAll(); err != nil {
		log.Printf("[gateway] stop channels: %v", err)
	}
	if g.classifier != nil {
		if err := g.classifier.Close(); err != nil {
			log.Printf("[gateway] close classifier: %v", err)
		}
	}
	if err := g.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	log.Printf("[gateway] stopped")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

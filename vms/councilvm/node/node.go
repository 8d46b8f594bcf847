// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node runs a council module per configured chain in one process,
// connected through an in-memory transport.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/luxfi/crypto/bls/signer/localsigner"
	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/council/utils/timer/mockable"
	"github.com/luxfi/council/vms/councilvm"
	"github.com/luxfi/council/vms/councilvm/api"
	"github.com/luxfi/council/vms/councilvm/config"
	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/events"
	"github.com/luxfi/council/vms/councilvm/metrics"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

const shutdownTimeout = 5 * time.Second

// Chain is one chain served by the node.
type Chain struct {
	Name   string
	ID     ids.ID
	Module *councilvm.Module
	Events *events.Bus

	handler http.Handler
}

type Node struct {
	config   config.Config
	log      log.Logger
	owner    ids.ShortID
	registry *prometheus.Registry
	hub      *xchain.Hub

	chains  []*Chain
	primary *Chain
}

// ChainID derives the ID of a named chain.
func ChainID(name string) ids.ID {
	return ids.ID(hash.ComputeHash256Array([]byte(name)))
}

func parseAddress(s string) (ids.ShortID, error) {
	if s == "" {
		return ids.ShortEmpty, nil
	}
	return ids.ShortFromString(s)
}

// New builds and initializes a module for every chain of [cfg].
func New(ctx context.Context, cfg config.Config, logger log.Logger, clock *mockable.Clock) (*Node, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	owner, err := parseAddress(cfg.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner: %w", err)
	}
	token, err := parseAddress(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	council := make([]ids.ShortID, len(cfg.Election.InitialCouncil))
	for i, member := range cfg.Election.InitialCouncil {
		council[i], err = parseAddress(member)
		if err != nil {
			return nil, fmt.Errorf("invalid council member %q: %w", member, err)
		}
	}
	if len(council) == 0 {
		logger.Warn("no initial council configured, seating the owner",
			log.Stringer("owner", owner),
		)
		council = []ids.ShortID{owner}
	}

	n := &Node{
		config:   cfg,
		log:      logger,
		owner:    owner,
		registry: prometheus.NewRegistry(),
		hub:      xchain.NewHub(logger),
	}
	verifier := xchain.NewKeyVerifier()
	primaryID := ChainID(cfg.PrimaryChain)
	for _, name := range cfg.Chains {
		chainID := ChainID(name)
		sk, err := localsigner.New()
		if err != nil {
			return nil, err
		}
		verifier.Register(chainID, sk.PublicKey())

		registerer := prometheus.WrapRegistererWith(prometheus.Labels{"chain": name}, n.registry)
		bus, err := events.NewBus(logger, registerer)
		if err != nil {
			return nil, err
		}
		m, err := metrics.New(registerer)
		if err != nil {
			return nil, err
		}

		module := councilvm.New(memdb.New(), councilvm.Config{
			Owner: owner,
			Token: token,
			Sync: xchain.Config{
				NetworkID:      cfg.NetworkID,
				ChainID:        chainID,
				PrimaryChainID: primaryID,
				Transport:      n.hub.Transport(chainID),
				Signer:         xchain.NewSigner(sk, cfg.NetworkID, chainID),
				Verifier:       verifier,
				Log:            logger,
			},
			VotingPower: &councilvm.StaticVotingPower{Default: 1},
			Clock:       clock,
			Events:      bus,
			Metrics:     m,
			Log:         logger,
		})
		n.hub.Register(chainID, module)

		handler, err := api.NewHandler(module, logger, registerer)
		if err != nil {
			return nil, err
		}
		chain := &Chain{
			Name:    name,
			ID:      chainID,
			Module:  module,
			Events:  bus,
			handler: handler,
		}
		n.chains = append(n.chains, chain)
		if chainID == primaryID {
			n.primary = chain
		}
	}

	params := councilvm.InitParams{
		Council:                      council,
		TransportConfig:              cfg.Transport,
		MinimumActiveMembers:         cfg.Election.MinimumActiveMembers,
		AdministrationPeriodDuration: cfg.Election.AdministrationDays,
		NominationPeriodDuration:     cfg.Election.NominationDays,
		VotingPeriodDuration:         cfg.Election.VotingDays,
	}
	for _, chain := range n.chains {
		if err := chain.Module.InitOrUpdateElectionSettings(ctx, owner, params); err != nil {
			return nil, fmt.Errorf("couldn't initialize %s: %w", chain.Name, err)
		}
		logger.Info("chain initialized",
			log.String("name", chain.Name),
			log.Stringer("chainID", chain.ID),
			log.Bool("primary", chain == n.primary),
		)
	}
	return n, nil
}

func (n *Node) Chains() []*Chain {
	return n.chains
}

func (n *Node) Primary() *Chain {
	return n.primary
}

// Handler serves every chain's API under /ext/council/<name> and the node's
// metrics under /metrics.
func (n *Node) Handler() http.Handler {
	router := mux.NewRouter()
	for _, chain := range n.chains {
		router.Handle("/ext/council/"+chain.Name, chain.handler).Methods(http.MethodPost)
	}
	router.Handle("/metrics", promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}))
	return cors.New(cors.Options{
		AllowedOrigins:   n.config.HTTPAllowedOrigins,
		AllowCredentials: true,
	}).Handler(router)
}

// Relay delivers queued messages of every chain.
func (n *Node) Relay(ctx context.Context) (int, error) {
	var total int
	for _, chain := range n.chains {
		delivered, err := chain.Module.RelayPending(ctx, n.config.RelayBatchSize)
		if err != nil {
			return total, fmt.Errorf("couldn't relay from %s: %w", chain.Name, err)
		}
		total += delivered
	}
	return total, nil
}

// Keep moves a finished election forward on the primary chain: it tallies
// the next batch of ballots or, once evaluated, resolves the election.
func (n *Node) Keep(ctx context.Context) error {
	module := n.primary.Module
	period, err := module.GetCurrentPeriod()
	if err != nil || period != election.Evaluation {
		return err
	}
	evaluated, err := module.IsElectionEvaluated()
	if err != nil {
		return err
	}
	if !evaluated {
		return module.Evaluate(ctx, n.owner, n.config.MaxEvaluateBatch, 0)
	}
	return module.Resolve(ctx, n.owner, 0)
}

// Run serves the HTTP API and relays messages until [ctx] is cancelled.
func (n *Node) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              net.JoinHostPort(n.config.HTTPHost, strconv.Itoa(int(n.config.HTTPPort))),
		Handler:           n.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n.log.Info("serving API", log.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	eg.Go(func() error {
		ticker := time.NewTicker(n.config.RelayInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}

			if n.config.Keeper {
				if err := n.Keep(ctx); err != nil {
					n.log.Warn("keeper failed", log.Err(err))
				}
			}
			if _, err := n.Relay(ctx); err != nil {
				n.log.Warn("relay failed", log.Err(err))
			}
		}
	})
	return eg.Wait()
}

// Close stops event delivery on every chain.
func (n *Node) Close() {
	for _, chain := range n.chains {
		chain.Events.Close()
	}
}

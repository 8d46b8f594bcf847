// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/luxfi/council/utils/timer/mockable"
	"github.com/luxfi/council/vms/councilvm/node"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Runs a council devnet with one module per configured chain",
		RunE:  runFunc,
	}
	AddFlags(c.Flags())
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	cfg, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}

	logger := log.NewLogger("councilvm")
	ctx := c.Context()
	n, err := node.New(ctx, cfg, logger, &mockable.Clock{})
	if err != nil {
		return err
	}
	defer n.Close()

	logger.Info("starting council node",
		log.Int("chains", len(n.Chains())),
		log.String("primary", cfg.PrimaryChain),
	)
	return n.Run(ctx)
}

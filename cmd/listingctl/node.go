package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/LoneWolf367/particl-market/pkg/core"
	"github.com/LoneWolf367/particl-market/pkg/listing/broadcast"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
	"github.com/LoneWolf367/particl-market/pkg/modules"
)

type nodeFlags struct {
	config    string
	withMongo bool
}

func (f *nodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "Configuration file (defaults to $CONFIG_FILE)")
	cmd.Flags().BoolVar(&f.withMongo, "with-mongo", false, "Connect to MongoDB for image payloads")
}

func (f *nodeFlags) options() []fx.Option {
	var coreOpts []core.Option
	if f.config != "" {
		coreOpts = append(coreOpts, core.WithConfigFile(f.config))
	}

	opts := []fx.Option{
		modules.NewCoreModule(coreOpts...),
		modules.NewListingModule(),
		modules.NewMessagingModule(),
	}
	if f.withMongo {
		opts = append(opts, modules.NewPersistenceModule())
	}
	return opts
}

type publishFlags struct {
	nodeFlags
	template string
	market   string
	days     int
}

func newPublishCmd() *cobra.Command {
	f := &publishFlags{}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Compose a listing template and broadcast it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Listing template JSON file (required)")
	cmd.Flags().StringVar(&f.market, "market", "", "Market address to broadcast on (required)")
	cmd.Flags().IntVar(&f.days, "days", 7, "Days the market retains the listing")

	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("market")
	return cmd
}

func runPublish(ctx context.Context, out io.Writer, f *publishFlags) error {
	var template model.ListingTemplate
	if err := readJSON(f.template, &template); err != nil {
		return err
	}

	var publisher *broadcast.Publisher
	app := fx.New(append(f.options(), fx.Populate(&publisher))...)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	msg, err := publisher.Publish(ctx, &template, f.market, f.days)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, msg.Hash)
	return err
}

func newReceiveCmd() *cobra.Command {
	f := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Print every listing received from the market until interrupted",
		RunE: func(*cobra.Command, []string) error {
			app := fx.New(append(f.options(),
				fx.Provide(func() broadcast.ListingCreator { return &printCreator{out: os.Stdout} }),
				broadcast.NewReceiverModule(),
			)...)
			app.Run()
			return app.Err()
		},
	}

	f.register(cmd)
	return cmd
}

// printCreator writes each received listing as one JSON document.
type printCreator struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printCreator) Create(_ context.Context, req *model.ListingCreateRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return writeJSON(p.out, detachCategory(req))
}

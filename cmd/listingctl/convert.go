package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LoneWolf367/particl-market/pkg/listing/category"
	"github.com/LoneWolf367/particl-market/pkg/listing/codec"
	"github.com/LoneWolf367/particl-market/pkg/listing/imagedata"
	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

type composeFlags struct {
	template    string
	categories  string
	marketID    string
	images      string
	concurrency int
	verbose     bool
}

func newComposeCmd() *cobra.Command {
	f := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the wire message for a listing template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompose(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Listing template JSON file (required)")
	cmd.Flags().StringVarP(&f.categories, "categories", "c", "", "Category tree JSON file (required)")
	cmd.Flags().StringVar(&f.marketID, "market-id", "", "Market the category tree belongs to")
	cmd.Flags().StringVarP(&f.images, "images", "i", "images", "Directory of <hash>-<VERSION> image payloads")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 4, "Concurrent category and payload resolutions")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log resolution failures")

	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("categories")
	return cmd
}

func runCompose(cmd *cobra.Command, f *composeFlags) error {
	tree, err := loadTree(f.categories, f.marketID)
	if err != nil {
		return err
	}

	var template model.ListingTemplate
	if err := readJSON(f.template, &template); err != nil {
		return err
	}

	composer := codec.NewComposer(tree, imagedata.NewFileStore(f.images), newLogger(f.verbose),
		codec.WithMaxConcurrentResolutions(f.concurrency),
	)
	msg, err := composer.Compose(cmd.Context(), &template)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), msg)
}

type decomposeFlags struct {
	message    string
	categories string
	marketID   string
	market     string
	sender     string
	days       int
	verbose    bool
}

func newDecomposeCmd() *cobra.Command {
	f := &decomposeFlags{}

	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Print the create request for a received wire message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDecompose(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.message, "message", "m", "", "Wire message JSON file (required)")
	cmd.Flags().StringVarP(&f.categories, "categories", "c", "", "Category tree JSON file (required)")
	cmd.Flags().StringVar(&f.marketID, "market-id", "", "Local market id (required)")
	cmd.Flags().StringVar(&f.market, "market", "", "Market address the message was received on")
	cmd.Flags().StringVar(&f.sender, "sender", "", "Sender address")
	cmd.Flags().IntVar(&f.days, "days", 7, "Days the message is retained")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log resolution failures")

	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("categories")
	_ = cmd.MarkFlagRequired("market-id")
	return cmd
}

func runDecompose(cmd *cobra.Command, f *decomposeFlags) error {
	tree, err := loadTree(f.categories, f.marketID)
	if err != nil {
		return err
	}

	var msg message.ListingAddMessage
	if err := readJSON(f.message, &msg); err != nil {
		return err
	}

	now := time.Now()
	meta := model.DeliveryMetadata{
		Sender:        f.sender,
		Market:        f.market,
		DaysRetention: f.days,
		Sent:          now,
		Received:      now,
		Expiration:    now.Add(time.Duration(f.days) * 24 * time.Hour),
	}

	composer := codec.NewComposer(tree, nil, newLogger(f.verbose))
	req, err := composer.Decompose(cmd.Context(), &msg, meta, f.marketID, tree.Root())
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), detachCategory(req))
}

func loadTree(path, marketID string) (*category.Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open category tree: %w", err)
	}
	defer func() { _ = file.Close() }()
	return category.LoadTree(file, marketID)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// detachCategory copies req with its category cut out of the tree so it can be encoded.
func detachCategory(req *model.ListingCreateRequest) *model.ListingCreateRequest {
	if req.ItemInformation == nil || req.ItemInformation.ItemCategory == nil {
		return req
	}
	out := *req
	info := *req.ItemInformation
	leaf := *info.ItemCategory
	leaf.ParentCategory = nil
	leaf.Children = nil
	info.ItemCategory = &leaf
	out.ItemInformation = &info
	return &out
}

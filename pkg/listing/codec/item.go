package codec

import (
	"context"
	"fmt"
	"strings"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const notShippingPrefix = "-"

func (c *composer) composeInformation(ctx context.Context, info *model.ItemInformation) (*message.Information, error) {
	// Variant selection is pure; do it for every image before any payload is loaded.
	selected := make([]model.ItemImageData, len(info.Images))
	for i, image := range info.Images {
		data, ok := selectImageData(image)
		if !ok {
			return nil, newError(KindImagePayloadMissing, imageField(i), nil)
		}
		selected[i] = data
	}

	out := &message.Information{
		Title:                info.Title,
		ShortDescription:     info.ShortDescription,
		LongDescription:      info.LongDescription,
		Location:             composeLocation(info.ItemLocation),
		ShippingDestinations: composeShippingDestinations(info.ShippingDestinations),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	if info.ItemCategory != nil {
		g.Go(func() error {
			ids, err := c.categories.PathToIDs(gctx, info.ItemCategory)
			if err != nil {
				return newError(KindCategoryResolutionFailed, "item.information.category", err)
			}
			out.Category = ids
			return nil
		})
	}

	images := make([]message.ContentReference, len(info.Images))
	for i, image := range info.Images {
		data := selected[i]
		g.Go(func() error {
			payload, err := c.payloads.Load(gctx, payloadID(image, data), data.ImageVersion)
			if err != nil {
				return newError(KindPayloadResolutionFailed, imageField(i), err)
			}
			images[i] = message.ContentReference{
				Hash:     image.Hash,
				Featured: image.Featured,
				Data: []message.DSN{{
					Protocol: data.Protocol,
					Encoding: data.Encoding,
					Data:     payload,
					DataID:   data.DataID,
				}},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		out.Images = images
	}
	return out, nil
}

func (c *composer) decomposeInformation(
	ctx context.Context,
	info message.Information,
	root *model.ItemCategory,
) (*model.ItemInformation, error) {
	out := &model.ItemInformation{
		Title:                info.Title,
		ShortDescription:     info.ShortDescription,
		LongDescription:      info.LongDescription,
		ItemLocation:         decomposeLocation(info.Location),
		ShippingDestinations: decomposeShippingDestinations(info.ShippingDestinations),
	}

	if len(info.Category) > 0 {
		category, err := c.categories.IDsToCategory(ctx, info.Category, root)
		if err != nil {
			return nil, newError(KindCategoryResolutionFailed, "item.information.category", err)
		}
		out.ItemCategory = category
	}

	for i, ref := range info.Images {
		if len(ref.Data) == 0 {
			return nil, newError(KindImagePayloadMissing, imageField(i), nil)
		}
		dsn := ref.Data[0]
		out.Images = append(out.Images, model.ItemImage{
			Hash:     ref.Hash,
			Featured: ref.Featured,
			ItemImageDatas: []model.ItemImageData{{
				DataID:       dsn.DataID,
				Protocol:     dsn.Protocol,
				Encoding:     dsn.Encoding,
				ImageVersion: model.ImageVersionOriginal,
				ImageHash:    ref.Hash,
				Data:         dsn.Data,
			}},
		})
	}

	return out, nil
}

// selectImageData prefers the RESIZED variant and falls back to ORIGINAL.
func selectImageData(image model.ItemImage) (model.ItemImageData, bool) {
	for _, version := range []model.ImageVersion{model.ImageVersionResized, model.ImageVersionOriginal} {
		if data, ok := lo.Find(image.ItemImageDatas, func(d model.ItemImageData) bool {
			return d.ImageVersion == version
		}); ok {
			return data, true
		}
	}
	return model.ItemImageData{}, false
}

func payloadID(image model.ItemImage, data model.ItemImageData) string {
	if data.ImageHash != "" {
		return data.ImageHash
	}
	return image.Hash
}

func imageField(i int) string {
	return fmt.Sprintf("item.information.images[%d]", i)
}

func composeLocation(location *model.ItemLocation) *message.Location {
	if location == nil {
		return nil
	}
	out := &message.Location{
		Country: presentString(location.Region),
		Address: presentString(location.Address),
	}
	if marker := location.LocationMarker; marker != nil {
		out.GPS = &message.LocationMarker{
			Lat:         marker.Lat,
			Lng:         marker.Lng,
			MarkerTitle: presentString(marker.MarkerTitle),
			MarkerText:  presentString(marker.MarkerText),
		}
	}
	if out.Country == nil && out.Address == nil && out.GPS == nil {
		return nil
	}
	return out
}

func decomposeLocation(location *message.Location) *model.ItemLocation {
	if location == nil {
		return nil
	}
	out := &model.ItemLocation{
		Region:  presentString(location.Country),
		Address: presentString(location.Address),
	}
	if gps := location.GPS; gps != nil {
		out.LocationMarker = &model.LocationMarker{
			Lat:         gps.Lat,
			Lng:         gps.Lng,
			MarkerTitle: presentString(gps.MarkerTitle),
			MarkerText:  presentString(gps.MarkerText),
		}
	}
	return out
}

// composeShippingDestinations drops availabilities the wire format cannot express (ASK, UNKNOWN).
func composeShippingDestinations(destinations []model.ShippingDestination) []string {
	var out []string
	for _, destination := range destinations {
		switch destination.ShippingAvailability {
		case model.Ships:
			out = append(out, destination.Country)
		case model.DoesNotShip:
			out = append(out, notShippingPrefix+destination.Country)
		}
	}
	return out
}

func decomposeShippingDestinations(destinations []string) []model.ShippingDestination {
	if len(destinations) == 0 {
		return nil
	}
	return lo.Map(destinations, func(destination string, _ int) model.ShippingDestination {
		if country, found := strings.CutPrefix(destination, notShippingPrefix); found {
			return model.ShippingDestination{Country: country, ShippingAvailability: model.DoesNotShip}
		}
		return model.ShippingDestination{Country: destination, ShippingAvailability: model.Ships}
	})
}

// presentString copies s, treating nil and empty as absent.
func presentString(s *string) *string {
	return lo.EmptyableToPtr(lo.FromPtr(s))
}

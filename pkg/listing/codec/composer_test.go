package codec

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newTestComposer(categories *fakeCategories, payloads *fakePayloads, opts ...Option) Composer {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewComposer(categories, payloads, nil, opts...)
}

func testRootCategory() *model.ItemCategory {
	return &model.ItemCategory{Key: "cat_ROOT", Name: "ROOT"}
}

func testTemplate() *model.ListingTemplate {
	root := testRootCategory()
	electronics := &model.ItemCategory{Key: "cat_electronics", ParentCategory: root}
	phones := &model.ItemCategory{Key: "cat_phones", ParentCategory: electronics}

	return &model.ListingTemplate{
		ItemInformation: &model.ItemInformation{
			Title:            "Phone",
			ShortDescription: "A phone",
			LongDescription:  "A phone in good condition",
			ItemCategory:     phones,
			ItemLocation: &model.ItemLocation{
				Region:  lo.ToPtr("FI"),
				Address: lo.ToPtr("Helsinki"),
				LocationMarker: &model.LocationMarker{
					Lat:         60.17,
					Lng:         24.94,
					MarkerTitle: lo.ToPtr("Pickup"),
				},
			},
			ShippingDestinations: []model.ShippingDestination{
				{Country: "US", ShippingAvailability: model.Ships},
				{Country: "CN", ShippingAvailability: model.DoesNotShip},
			},
			Images: []model.ItemImage{
				{
					Hash:     "img1",
					Featured: true,
					ItemImageDatas: []model.ItemImageData{
						{DataID: "d-orig", Protocol: model.ProtocolLocal, Encoding: "BASE64", ImageVersion: model.ImageVersionOriginal},
						{DataID: "d-res", Protocol: model.ProtocolLocal, Encoding: "BASE64", ImageVersion: model.ImageVersionResized},
					},
				},
			},
		},
		PaymentInformation: &model.PaymentInformation{
			Type: model.SaleTypeSale,
			Escrow: &model.Escrow{
				Type:  model.EscrowTypeMADCT,
				Ratio: model.EscrowRatio{Buyer: 100, Seller: 100},
			},
			ItemPrice: &model.ItemPrice{
				Currency:      model.CurrencyPART,
				BasePrice:     12.5,
				ShippingPrice: &model.ShippingPrice{Domestic: 1, International: 3},
				CryptoAddress: &model.CryptoAddress{Type: model.CryptoAddressStealth, Address: "ps1qqp"},
			},
		},
		MessagingInformation: []model.MessagingInformation{
			{Protocol: model.MessagingProtocolSMSG, PublicKey: "pubkey1"},
		},
		Objects: []model.ListingObject{
			{
				Type:        model.ObjectTypeTable,
				Description: "Specs",
				DataRows:    []model.ObjectData{{Key: "RAM", Value: "8GB"}, {Key: "Color", Value: "Black"}},
			},
			{
				Type:        model.ObjectTypeDropdown,
				Description: "Size",
				ObjectID:    "size",
				ForceInput:  true,
				DataRows:    []model.ObjectData{{Key: "S", Value: "Small"}, {Key: "L", Value: "Large"}},
			},
		},
	}
}

func testPayloads() *fakePayloads {
	payloads := newFakePayloads()
	payloads.put("img1", model.ImageVersionResized, []byte("resized-bytes"))
	payloads.put("img1", model.ImageVersionOriginal, []byte("original-bytes"))
	return payloads
}

func testDeliveryMetadata() model.DeliveryMetadata {
	return model.DeliveryMetadata{
		MsgID:         "msg-1",
		Sender:        "pseller",
		Market:        "pmarket",
		DaysRetention: 7,
		Sent:          fixedNow,
		Expiration:    fixedNow.Add(7 * 24 * time.Hour),
		Received:      fixedNow.Add(time.Minute),
	}
}

// wireRoundTrip pushes a message through its JSON encoding as a receiving node would see it.
func wireRoundTrip(t *testing.T, msg *message.ListingAddMessage) *message.ListingAddMessage {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	var decoded message.ListingAddMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return &decoded
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "expected *ComposeError, got %T: %v", err, err)
	assert.Equal(t, kind, got)
}

func TestCompose_FullTemplate(t *testing.T) {
	// Arrange
	c := newTestComposer(&fakeCategories{}, testPayloads())

	// Act
	msg, err := c.Compose(context.Background(), testTemplate())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, message.MPAListingAdd, msg.Type)
	assert.Equal(t, fixedNow.UnixMilli(), msg.Generated)

	info := msg.Item.Information
	assert.Equal(t, []string{"cat_phones", "cat_electronics", "cat_ROOT"}, info.Category)
	assert.Equal(t, []string{"US", "-CN"}, info.ShippingDestinations)
	require.NotNil(t, info.Location)
	assert.Equal(t, "FI", *info.Location.Country)
	require.NotNil(t, info.Location.GPS)
	assert.Equal(t, "Pickup", *info.Location.GPS.MarkerTitle)
	assert.Nil(t, info.Location.GPS.MarkerText)

	require.Len(t, info.Images, 1)
	assert.Equal(t, "img1", info.Images[0].Hash)
	assert.True(t, info.Images[0].Featured)
	require.Len(t, info.Images[0].Data, 1)
	assert.Equal(t, []byte("resized-bytes"), info.Images[0].Data[0].Data)
	assert.Equal(t, "d-res", info.Images[0].Data[0].DataID)

	sale, ok := msg.Item.Payment.(message.SalePayment)
	require.True(t, ok)
	assert.Equal(t, model.EscrowTypeMADCT, sale.Escrow.Type)
	require.Len(t, sale.Options, 1)
	require.NotNil(t, sale.Options[0].Address)
	assert.Equal(t, "ps1qqp", sale.Options[0].Address.Address)

	assert.Equal(t, []message.MessagingOption{{Protocol: "SMSG", PublicKey: "pubkey1"}}, msg.Item.Messaging)

	expectedHash, err := message.HashItem(msg.Item)
	require.NoError(t, err)
	assert.Equal(t, expectedHash, msg.Hash)
}

func TestCompose_Decompose_RoundTrip(t *testing.T) {
	// Arrange
	categories := &fakeCategories{}
	c := newTestComposer(categories, testPayloads())
	template := testTemplate()
	root := testRootCategory()

	// Act
	msg, err := c.Compose(context.Background(), template)
	require.NoError(t, err)
	req, err := c.Decompose(context.Background(), wireRoundTrip(t, msg), testDeliveryMetadata(), "market-1", root)

	// Assert
	require.NoError(t, err)
	info := req.ItemInformation
	assert.Equal(t, template.ItemInformation.Title, info.Title)
	assert.Equal(t, template.ItemInformation.ShippingDestinations, info.ShippingDestinations)
	assert.Equal(t, template.ItemInformation.ItemLocation, info.ItemLocation)
	assert.Equal(t, [][]string{{"cat_phones", "cat_electronics", "cat_ROOT"}}, categories.looked)
	assert.Equal(t, template.PaymentInformation, req.PaymentInformation)
	assert.Equal(t, template.MessagingInformation, req.MessagingInformation)

	require.Len(t, req.Objects, 2)
	assert.Equal(t, template.Objects[0].DataRows, req.Objects[0].DataRows)
	assert.Equal(t, template.Objects[1].DataRows, req.Objects[1].DataRows)
	assert.Equal(t, "size", req.Objects[1].ObjectID)
	assert.True(t, req.Objects[1].ForceInput)
	assert.Equal(t, 1, req.Objects[1].Order)
	assert.Equal(t, msg.Hash, req.Hash)
}

func TestShippingDestinations_RoundTrip(t *testing.T) {
	tests := []struct {
		name         string
		destinations []model.ShippingDestination
		wire         []string
	}{
		{
			name: "ships and does not ship",
			destinations: []model.ShippingDestination{
				{Country: "US", ShippingAvailability: model.Ships},
				{Country: "CN", ShippingAvailability: model.DoesNotShip},
			},
			wire: []string{"US", "-CN"},
		},
		{
			name: "order preserved",
			destinations: []model.ShippingDestination{
				{Country: "SE", ShippingAvailability: model.DoesNotShip},
				{Country: "DE", ShippingAvailability: model.Ships},
				{Country: "FI", ShippingAvailability: model.Ships},
				{Country: "RU", ShippingAvailability: model.DoesNotShip},
			},
			wire: []string{"-SE", "DE", "FI", "-RU"},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := composeShippingDestinations(tt.destinations)
			assert.Equal(t, tt.wire, wire)
			assert.Equal(t, tt.destinations, decomposeShippingDestinations(wire))

			for i, destination := range tt.destinations {
				if destination.ShippingAvailability == model.Ships {
					assert.NotEqual(t, '-', rune(wire[i][0]))
				}
			}
		})
	}
}

func TestComposeShippingDestinations_SkipsUnencodableAvailability(t *testing.T) {
	wire := composeShippingDestinations([]model.ShippingDestination{
		{Country: "US", ShippingAvailability: model.AskShipping},
		{Country: "FI", ShippingAvailability: model.Ships},
		{Country: "CN", ShippingAvailability: model.UnknownShips},
	})

	assert.Equal(t, []string{"FI"}, wire)
}

func TestCompose_ImageVariantSelection(t *testing.T) {
	tests := []struct {
		name            string
		datas           []model.ItemImageData
		expectedVersion model.ImageVersion
		expectedPayload string
	}{
		{
			name: "resized preferred",
			datas: []model.ItemImageData{
				{ImageVersion: model.ImageVersionThumbnail},
				{ImageVersion: model.ImageVersionOriginal},
				{ImageVersion: model.ImageVersionResized},
			},
			expectedVersion: model.ImageVersionResized,
			expectedPayload: "resized-bytes",
		},
		{
			name:            "original only",
			datas:           []model.ItemImageData{{ImageVersion: model.ImageVersionOriginal}},
			expectedVersion: model.ImageVersionOriginal,
			expectedPayload: "original-bytes",
		},
		{
			name: "original fallback beside other variants",
			datas: []model.ItemImageData{
				{ImageVersion: model.ImageVersionThumbnail},
				{ImageVersion: model.ImageVersionOriginal},
			},
			expectedVersion: model.ImageVersionOriginal,
			expectedPayload: "original-bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			payloads := testPayloads()
			c := newTestComposer(&fakeCategories{}, payloads)
			template := testTemplate()
			template.ItemInformation.Images = []model.ItemImage{{Hash: "img1", ItemImageDatas: tt.datas}}

			// Act
			msg, err := c.Compose(context.Background(), template)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, []loadCall{{payloadID: "img1", version: tt.expectedVersion}}, payloads.calls)
			assert.Equal(t, []byte(tt.expectedPayload), msg.Item.Information.Images[0].Data[0].Data)
		})
	}
}

func TestCompose_ImagePayloadMissing(t *testing.T) {
	// Arrange
	payloads := testPayloads()
	c := newTestComposer(&fakeCategories{}, payloads)
	template := testTemplate()
	template.ItemInformation.Images = append(template.ItemInformation.Images, model.ItemImage{
		Hash:           "img2",
		ItemImageDatas: []model.ItemImageData{{ImageVersion: model.ImageVersionThumbnail}},
	})

	// Act
	msg, err := c.Compose(context.Background(), template)

	// Assert
	assert.Nil(t, msg)
	requireKind(t, err, KindImagePayloadMissing)
	assert.ErrorIs(t, err, ErrImagePayloadMissing)
	assert.Contains(t, err.Error(), "item.information.images[1]")
	assert.Zero(t, payloads.callCount(), "no payload should be loaded once selection fails")
}

func TestCompose_PayloadResolutionFailed(t *testing.T) {
	// Arrange
	payloads := newFakePayloads()
	c := newTestComposer(&fakeCategories{}, payloads)

	// Act
	msg, err := c.Compose(context.Background(), testTemplate())

	// Assert
	assert.Nil(t, msg)
	requireKind(t, err, KindPayloadResolutionFailed)
	assert.ErrorIs(t, err, ErrPayloadResolutionFailed)
	assert.ErrorIs(t, err, errPayloadNotFound)
}

func TestCompose_ImagesKeepInputOrderUnderConcurrency(t *testing.T) {
	// Arrange: earlier images resolve last
	payloads := newFakePayloads()
	template := testTemplate()
	template.ItemInformation.Images = nil
	hashes := []string{"a", "b", "c", "d", "e"}
	for i, hash := range hashes {
		payloads.put(hash, model.ImageVersionOriginal, []byte("payload-"+hash))
		payloads.delays[hash] = time.Duration(len(hashes)-i) * 10 * time.Millisecond
		template.ItemInformation.Images = append(template.ItemInformation.Images, model.ItemImage{
			Hash:           hash,
			ItemImageDatas: []model.ItemImageData{{ImageVersion: model.ImageVersionOriginal}},
		})
	}
	c := newTestComposer(&fakeCategories{}, payloads, WithMaxConcurrentResolutions(len(hashes)))

	// Act
	msg, err := c.Compose(context.Background(), template)

	// Assert
	require.NoError(t, err)
	require.Len(t, msg.Item.Information.Images, len(hashes))
	for i, hash := range hashes {
		assert.Equal(t, hash, msg.Item.Information.Images[i].Hash)
		assert.Equal(t, []byte("payload-"+hash), msg.Item.Information.Images[i].Data[0].Data)
	}
}

func TestCompose_DuplicateImagesResolvedIndependently(t *testing.T) {
	payloads := testPayloads()
	c := newTestComposer(&fakeCategories{}, payloads, WithMaxConcurrentResolutions(1))
	template := testTemplate()
	image := template.ItemInformation.Images[0]
	template.ItemInformation.Images = []model.ItemImage{image, image}

	msg, err := c.Compose(context.Background(), template)

	require.NoError(t, err)
	assert.Len(t, msg.Item.Information.Images, 2)
	assert.Equal(t, 2, payloads.callCount())
}

func TestCompose_UnsupportedSaleType(t *testing.T) {
	for _, saleType := range []model.SaleType{
		model.SaleTypeAuction,
		model.SaleTypeFree,
		model.SaleTypeRent,
		model.SaleTypeWanted,
		model.SaleType("BARTER"),
	} {
		t.Run(string(saleType), func(t *testing.T) {
			payloads := testPayloads()
			c := newTestComposer(&fakeCategories{}, payloads)
			template := testTemplate()
			template.PaymentInformation.Type = saleType

			msg, err := c.Compose(context.Background(), template)

			assert.Nil(t, msg)
			requireKind(t, err, KindUnsupportedSaleType)
			assert.ErrorIs(t, err, ErrUnsupportedSaleType)
			assert.Zero(t, payloads.callCount())
		})
	}
}

func TestComposePayment_AuctionReturnsNoPayment(t *testing.T) {
	payment, err := composePayment(&model.PaymentInformation{
		Type:   model.SaleTypeAuction,
		Escrow: &model.Escrow{Type: model.EscrowTypeMAD},
	})

	assert.Nil(t, payment)
	requireKind(t, err, KindUnsupportedSaleType)
}

func TestComposePayment_CryptoAddress(t *testing.T) {
	tests := []struct {
		name     string
		address  *model.CryptoAddress
		expected *message.CryptoAddress
	}{
		{name: "absent"},
		{name: "empty address", address: &model.CryptoAddress{Type: model.CryptoAddressNormal}},
		{
			name:     "present",
			address:  &model.CryptoAddress{Type: model.CryptoAddressNormal, Address: "pabc"},
			expected: &message.CryptoAddress{Type: model.CryptoAddressNormal, Address: "pabc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := testTemplate()
			template.PaymentInformation.ItemPrice.CryptoAddress = tt.address

			payment, err := composePayment(template.PaymentInformation)

			require.NoError(t, err)
			sale := payment.(message.SalePayment)
			assert.Equal(t, tt.expected, sale.Options[0].Address)

			raw, err := json.Marshal(sale)
			require.NoError(t, err)
			if tt.expected == nil {
				assert.NotContains(t, string(raw), `"address"`)
			}
		})
	}
}

func TestCompose_LocationOmissions(t *testing.T) {
	tests := []struct {
		name     string
		location *model.ItemLocation
		expected string
	}{
		{
			name:     "no gps",
			location: &model.ItemLocation{Region: lo.ToPtr("US")},
			expected: `{"country":"US"}`,
		},
		{
			name: "gps without marker texts",
			location: &model.ItemLocation{
				Address:        lo.ToPtr("Main st"),
				LocationMarker: &model.LocationMarker{Lat: 1.5, Lng: 2.5},
			},
			expected: `{"address":"Main st","gps":{"lat":1.5,"lng":2.5}}`,
		},
		{
			name: "gps with marker texts",
			location: &model.ItemLocation{
				LocationMarker: &model.LocationMarker{Lat: 1, Lng: 2, MarkerTitle: lo.ToPtr("t"), MarkerText: lo.ToPtr("x")},
			},
			expected: `{"gps":{"lat":1,"lng":2,"marker_title":"t","marker_text":"x"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(composeLocation(tt.location))

			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(raw))
		})
	}
}

func TestComposeLocation_AbsentFieldsOmitLocation(t *testing.T) {
	assert.Nil(t, composeLocation(nil))
	assert.Nil(t, composeLocation(&model.ItemLocation{Region: lo.ToPtr("")}))
}

func TestCompose_ObjectsWireShape(t *testing.T) {
	// Arrange
	c := newTestComposer(&fakeCategories{}, testPayloads())

	// Act
	msg, err := c.Compose(context.Background(), testTemplate())
	require.NoError(t, err)
	raw, err := json.Marshal(msg.Item.Objects)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"TABLE","description":"Specs","table":[{"key":"RAM","value":"8GB"},{"key":"Color","value":"Black"}]},
		{"type":"DROPDOWN","description":"Size","objectId":"size","forceInput":true,
		 "options":[{"name":"S","value":"Small"},{"name":"L","value":"Large"}]}
	]`, string(raw))
}

func TestCompose_UnsupportedObjectType(t *testing.T) {
	c := newTestComposer(&fakeCategories{}, testPayloads())
	template := testTemplate()
	template.Objects = append(template.Objects, model.ListingObject{Type: model.ObjectTypeCheckbox})

	msg, err := c.Compose(context.Background(), template)

	assert.Nil(t, msg)
	requireKind(t, err, KindUnsupportedObjectType)
	assert.Contains(t, err.Error(), "item.objects[2]")
}

func TestCompose_UnknownMessagingProtocol(t *testing.T) {
	c := newTestComposer(&fakeCategories{}, testPayloads())
	template := testTemplate()
	template.MessagingInformation = []model.MessagingInformation{{Protocol: model.MessagingProtocolUnknown}}

	msg, err := c.Compose(context.Background(), template)

	assert.Nil(t, msg)
	requireKind(t, err, KindUnknownMessagingProtocol)
}

func TestCompose_CategoryResolutionFailed(t *testing.T) {
	cause := errors.New("tree unavailable")
	c := newTestComposer(&fakeCategories{pathErr: cause}, testPayloads())

	msg, err := c.Compose(context.Background(), testTemplate())

	assert.Nil(t, msg)
	requireKind(t, err, KindCategoryResolutionFailed)
	assert.ErrorIs(t, err, cause)
}

func TestCompose_MissingGroups(t *testing.T) {
	c := newTestComposer(&fakeCategories{}, testPayloads())

	_, err := c.Compose(context.Background(), nil)
	requireKind(t, err, KindMissingField)

	template := testTemplate()
	template.PaymentInformation = nil
	_, err = c.Compose(context.Background(), template)
	requireKind(t, err, KindMissingField)

	template = testTemplate()
	template.PaymentInformation.Escrow = nil
	_, err = c.Compose(context.Background(), template)
	requireKind(t, err, KindMissingField)
}

func TestCompose_CancelledContext(t *testing.T) {
	payloads := testPayloads()
	payloads.delays["img1"] = time.Second
	c := newTestComposer(&fakeCategories{}, payloads)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg, err := c.Compose(ctx, testTemplate())

	assert.Nil(t, msg)
	assert.ErrorIs(t, err, context.Canceled)
}

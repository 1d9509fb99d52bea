package codec

import (
	"errors"
	"fmt"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
	"github.com/samber/lo"
)

// TABLE rows travel as key/value and DROPDOWN options as name/value. Both map onto key/value
// domain rows; the asymmetry is part of the wire format and is kept in both directions.

func composeObjects(objects []model.ListingObject) ([]message.Object, error) {
	var out []message.Object
	for i, object := range objects {
		switch object.Type {
		case model.ObjectTypeTable:
			out = append(out, message.TableObject{
				Description: object.Description,
				Table:       lo.Map(object.DataRows, toKeyValue),
			})
		case model.ObjectTypeDropdown:
			out = append(out, message.DropdownObject{
				Description: object.Description,
				ObjectID:    object.ObjectID,
				ForceInput:  object.ForceInput,
				Options:     lo.Map(object.DataRows, toNameValue),
			})
		default:
			return nil, newError(KindUnsupportedObjectType, objectField(i), fmt.Errorf("object type %q", object.Type))
		}
	}
	return out, nil
}

func decomposeObjects(objects []message.Object) ([]model.ListingObject, error) {
	var out []model.ListingObject
	for i, object := range objects {
		switch o := object.(type) {
		case message.TableObject:
			out = append(out, model.ListingObject{
				Type:        model.ObjectTypeTable,
				Description: o.Description,
				Order:       i,
				DataRows:    lo.Map(o.Table, fromKeyValue),
			})
		case message.DropdownObject:
			out = append(out, model.ListingObject{
				Type:        model.ObjectTypeDropdown,
				Description: o.Description,
				ObjectID:    o.ObjectID,
				ForceInput:  o.ForceInput,
				Order:       i,
				DataRows:    lo.Map(o.Options, fromNameValue),
			})
		case nil:
			return nil, newError(KindUnsupportedObjectType, objectField(i), errors.New("missing object"))
		default:
			return nil, newError(KindUnsupportedObjectType, objectField(i), fmt.Errorf("object type %q", object.ObjectType()))
		}
	}
	return out, nil
}

func objectField(i int) string {
	return fmt.Sprintf("item.objects[%d]", i)
}

func toKeyValue(row model.ObjectData, _ int) message.KeyValue {
	return message.KeyValue{Key: row.Key, Value: row.Value}
}

func toNameValue(row model.ObjectData, _ int) message.NameValue {
	return message.NameValue{Name: row.Key, Value: row.Value}
}

func fromKeyValue(row message.KeyValue, _ int) model.ObjectData {
	return model.ObjectData{Key: row.Key, Value: row.Value}
}

func fromNameValue(row message.NameValue, _ int) model.ObjectData {
	return model.ObjectData{Key: row.Name, Value: row.Value}
}

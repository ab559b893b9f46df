package mongostore

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrlokans/lingua/internal/docstore"
)

func buildFilter(filter docstore.Filter) (bson.M, error) {
	f := bson.M{}
	if filter.ID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ID)
		if err != nil {
			return nil, docstore.ErrMalformedID
		}
		f[docstore.IDField] = oid
	}
	for field, value := range filter.Fields {
		v, err := docstore.Normalize(value)
		if err != nil {
			return nil, err
		}
		f[field] = v
	}
	if filter.Elem != nil {
		v, err := docstore.Normalize(filter.Elem.Value)
		if err != nil {
			return nil, err
		}
		f[filter.Elem.Array+"."+filter.Elem.Field] = v
	}
	return f, nil
}

func buildUpdate(filter docstore.Filter, update docstore.Update) (bson.M, error) {
	if update.ReplaceMatched != nil && filter.Elem == nil {
		return nil, errors.Join(docstore.ErrInvalidUpdate, errors.New("positional replace needs an element filter"))
	}

	set := bson.M{}
	for field, value := range update.Set {
		if field == docstore.IDField {
			continue
		}
		v, err := docstore.Normalize(value)
		if err != nil {
			return nil, err
		}
		set[field] = v
	}
	if update.ReplaceMatched != nil {
		v, err := docstore.Normalize(update.ReplaceMatched)
		if err != nil {
			return nil, err
		}
		set[filter.Elem.Array+".$"] = v
	}

	u := bson.M{}
	if len(set) > 0 {
		u["$set"] = set
	}
	if len(update.Push) > 0 {
		push := bson.M{}
		for field, value := range update.Push {
			v, err := docstore.Normalize(value)
			if err != nil {
				return nil, err
			}
			push[field] = v
		}
		u["$push"] = push
	}
	if update.Pull != nil {
		v, err := docstore.Normalize(update.Pull.Value)
		if err != nil {
			return nil, err
		}
		u["$pull"] = bson.M{update.Pull.Array: bson.M{update.Pull.Field: v}}
	}

	if len(u) == 0 {
		return nil, errors.Join(docstore.ErrInvalidUpdate, errors.New("empty update"))
	}
	return u, nil
}

// toBSON normalizes doc through its JSON form and restores the ObjectID type
// of a hex _id.
func toBSON(doc docstore.Document) (bson.M, error) {
	m := bson.M{}
	for field, value := range doc {
		if field == docstore.IDField {
			continue
		}
		v, err := docstore.Normalize(value)
		if err != nil {
			return nil, err
		}
		m[field] = v
	}
	if id := docstore.IDOf(doc); id != "" {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, docstore.ErrMalformedID
		}
		m[docstore.IDField] = oid
	}
	return m, nil
}

func fromBSON(m bson.M) docstore.Document {
	doc := make(docstore.Document, len(m))
	for k, v := range m {
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = fromBSONValue(inner)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = fromBSONValue(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = fromBSONValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = fromBSONValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = fromBSONValue(inner)
		}
		return out
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	default:
		return val
	}
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

package sqlitestore

import (
	"errors"
	"reflect"

	"github.com/samber/lo"

	"github.com/mrlokans/lingua/internal/docstore"
)

func matches(doc docstore.Document, filter docstore.Filter) bool {
	for field, value := range filter.Fields {
		if !valuesEqual(doc[field], value) {
			return false
		}
	}
	if filter.Elem == nil {
		return true
	}
	arr, ok := doc[filter.Elem.Array].([]any)
	if !ok {
		return false
	}
	return lo.SomeBy(arr, elemPredicate(filter.Elem))
}

func elemPredicate(m *docstore.ElemMatch) func(any) bool {
	return func(elem any) bool {
		obj, ok := elem.(map[string]any)
		if !ok {
			return false
		}
		value, present := obj[m.Field]
		return present && valuesEqual(value, m.Value)
	}
}

// applyUpdate mutates doc in place. Operators run in a fixed order: set,
// push, pull, positional replace.
func applyUpdate(doc docstore.Document, filter docstore.Filter, update docstore.Update) error {
	for field, value := range update.Set {
		if field == docstore.IDField {
			continue
		}
		normalized, err := docstore.Normalize(value)
		if err != nil {
			return err
		}
		doc[field] = normalized
	}

	for field, value := range update.Push {
		arr, err := arrayField(doc, field)
		if err != nil {
			return err
		}
		normalized, err := docstore.Normalize(value)
		if err != nil {
			return err
		}
		doc[field] = append(arr, normalized)
	}

	if update.Pull != nil {
		arr, err := arrayField(doc, update.Pull.Array)
		if err != nil {
			return err
		}
		if arr != nil {
			pred := elemPredicate(update.Pull)
			doc[update.Pull.Array] = lo.Reject(arr, func(elem any, _ int) bool {
				return pred(elem)
			})
		}
	}

	if update.ReplaceMatched != nil {
		arr, err := arrayField(doc, filter.Elem.Array)
		if err != nil {
			return err
		}
		_, idx, found := lo.FindIndexOf(arr, elemPredicate(filter.Elem))
		if !found {
			return errors.Join(docstore.ErrInvalidUpdate, errors.New("positional operator did not find the match"))
		}
		normalized, err := docstore.Normalize(update.ReplaceMatched)
		if err != nil {
			return err
		}
		replaced := append([]any(nil), arr...)
		replaced[idx] = normalized
		doc[filter.Elem.Array] = replaced
	}

	return nil
}

func arrayField(doc docstore.Document, field string) ([]any, error) {
	raw, ok := doc[field]
	if !ok || raw == nil {
		return nil, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, errors.Join(docstore.ErrInvalidUpdate, errors.New("field "+field+" is not an array"))
	}
	return arr, nil
}

func valuesEqual(a, b any) bool {
	na, err := docstore.Normalize(a)
	if err != nil {
		return false
	}
	nb, err := docstore.Normalize(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(na, nb)
}

func normalizeDocument(doc docstore.Document) (docstore.Document, error) {
	out := make(docstore.Document, len(doc))
	for field, value := range doc {
		normalized, err := docstore.Normalize(value)
		if err != nil {
			return nil, err
		}
		out[field] = normalized
	}
	return out, nil
}

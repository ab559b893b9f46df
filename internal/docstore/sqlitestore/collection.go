package sqlitestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mrlokans/lingua/internal/docstore"
)

type collection struct {
	db   *gorm.DB
	name string
}

type loaded struct {
	rec record
	doc docstore.Document
}

func (c *collection) FindOne(ctx context.Context, filter docstore.Filter) (docstore.Document, error) {
	matches, err := c.match(c.db.WithContext(ctx), filter)
	if err != nil {
		return nil, docstore.Wrap("findOne", c.name, err)
	}
	if len(matches) == 0 {
		return nil, docstore.ErrNoDocuments
	}
	return matches[0].doc, nil
}

func (c *collection) Find(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	matches, err := c.match(c.db.WithContext(ctx), filter)
	if err != nil {
		return nil, docstore.Wrap("find", c.name, err)
	}
	return lo.Map(matches, func(m loaded, _ int) docstore.Document {
		return m.doc
	}), nil
}

func (c *collection) InsertOne(ctx context.Context, doc docstore.Document) (docstore.InsertResult, error) {
	id := docstore.IDOf(doc)
	if id == "" {
		id = docstore.NewID()
	} else if err := docstore.ValidateID(id); err != nil {
		return docstore.InsertResult{}, err
	}

	normalized, err := normalizeDocument(doc)
	if err != nil {
		return docstore.InsertResult{}, docstore.Wrap("insertOne", c.name, err)
	}
	normalized[docstore.IDField] = id

	if err := c.insert(c.db.WithContext(ctx), id, normalized); err != nil {
		return docstore.InsertResult{}, docstore.Wrap("insertOne", c.name, err)
	}
	return docstore.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *collection) UpdateOne(ctx context.Context, filter docstore.Filter, update docstore.Update, opts ...docstore.UpdateOption) (docstore.UpdateResult, error) {
	if err := validateUpdate(filter, update); err != nil {
		return docstore.UpdateResult{}, err
	}
	options := docstore.ApplyOptions(opts...)

	var result docstore.UpdateResult
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matches, err := c.match(tx, filter)
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			if !options.Upsert {
				return nil
			}
			id, err := c.upsert(tx, filter, update)
			if err != nil {
				return err
			}
			result.UpsertedCount = 1
			result.UpsertedID = &id
			return nil
		}

		target := matches[0]
		result.MatchedCount = 1

		before, err := json.Marshal(target.doc)
		if err != nil {
			return err
		}
		if err := applyUpdate(target.doc, filter, update); err != nil {
			return err
		}
		after, err := json.Marshal(target.doc)
		if err != nil {
			return err
		}
		if bytes.Equal(before, after) {
			return nil
		}

		if err := tx.Model(&record{}).Where("seq = ?", target.rec.Seq).Update("body", datatypes.JSON(after)).Error; err != nil {
			return err
		}
		result.ModifiedCount = 1
		return nil
	})
	if err != nil {
		return docstore.UpdateResult{}, docstore.Wrap("updateOne", c.name, err)
	}
	result.Acknowledged = true
	return result, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter docstore.Filter) (docstore.DeleteResult, error) {
	var result docstore.DeleteResult
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matches, err := c.match(tx, filter)
		if err != nil || len(matches) == 0 {
			return err
		}
		res := tx.Where("seq = ?", matches[0].rec.Seq).Delete(&record{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedCount = res.RowsAffected
		return nil
	})
	if err != nil {
		return docstore.DeleteResult{}, docstore.Wrap("deleteOne", c.name, err)
	}
	result.Acknowledged = true
	return result, nil
}

// match loads the candidate rows in insertion order and keeps those whose
// body satisfies filter.
func (c *collection) match(tx *gorm.DB, filter docstore.Filter) ([]loaded, error) {
	query := tx.Where("collection = ?", c.name)
	if filter.ID != "" {
		if err := docstore.ValidateID(filter.ID); err != nil {
			return nil, err
		}
		query = query.Where("doc_id = ?", filter.ID)
	}
	for field, value := range filter.Fields {
		if s, ok := value.(string); ok && field != docstore.IDField {
			query = query.Where(datatypes.JSONQuery("body").Equals(s, field))
		}
	}

	var records []record
	if err := query.Order("seq").Find(&records).Error; err != nil {
		return nil, err
	}

	out := make([]loaded, 0, len(records))
	for _, rec := range records {
		var doc docstore.Document
		if err := json.Unmarshal(rec.Body, &doc); err != nil {
			return nil, err
		}
		doc[docstore.IDField] = rec.DocID
		if matches(doc, filter) {
			out = append(out, loaded{rec: rec, doc: doc})
		}
	}
	return out, nil
}

func (c *collection) insert(tx *gorm.DB, id string, doc docstore.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return tx.Create(&record{Collection: c.name, DocID: id, Body: datatypes.JSON(body)}).Error
}

func (c *collection) upsert(tx *gorm.DB, filter docstore.Filter, update docstore.Update) (string, error) {
	doc := docstore.Document{}
	for field, value := range filter.Fields {
		doc[field] = value
	}
	id := filter.ID
	if id == "" {
		id = docstore.NewID()
	}

	doc, err := normalizeDocument(doc)
	if err != nil {
		return "", err
	}
	if err := applyUpdate(doc, docstore.Filter{}, docstore.Update{Set: update.Set, Push: update.Push}); err != nil {
		return "", err
	}
	doc[docstore.IDField] = id

	if err := c.insert(tx, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func validateUpdate(filter docstore.Filter, update docstore.Update) error {
	if update.ReplaceMatched != nil && filter.Elem == nil {
		return errors.Join(docstore.ErrInvalidUpdate, errors.New("positional replace needs an element filter"))
	}
	if len(update.Set) == 0 && len(update.Push) == 0 && update.Pull == nil && update.ReplaceMatched == nil {
		return errors.Join(docstore.ErrInvalidUpdate, errors.New("empty update"))
	}
	if id, ok := update.Set[docstore.IDField]; ok && id != filter.ID {
		return errors.Join(docstore.ErrInvalidUpdate, errors.New("_id is immutable"))
	}
	return nil
}

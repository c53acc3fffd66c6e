package resources

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
)

// Resource is a wellness article or helpline entry surfaced to students.
type Resource struct {
	ID       string
	Title    string
	Summary  string
	Category string
	URL      string
}

// Library is a full-text index over the wellness resource catalogue.
// Title matches are weighted above summary matches.
type Library struct {
	log    *slog.Logger
	writer *bluge.Writer
}

func NewLibrary(log *slog.Logger, writer *bluge.Writer) *Library {
	return &Library{log: log, writer: writer}
}

// Index upserts the given resources as a single batch.
func (l *Library) Index(items ...Resource) error {
	batch := bluge.NewBatch()
	for _, res := range items {
		doc := bluge.NewDocument(res.ID).
			AddField(bluge.NewTextField("title", res.Title).StoreValue()).
			AddField(bluge.NewTextField("summary", res.Summary).StoreValue()).
			AddField(bluge.NewKeywordField("category", res.Category).StoreValue()).
			AddField(bluge.NewKeywordField("url", res.URL).StoreValue())
		batch.Update(doc.ID(), doc)
	}
	if err := l.writer.Batch(batch); err != nil {
		return err
	}
	l.log.Debug("indexed resources", "count", len(items))
	return nil
}

// Search runs a match query over title and summary and returns up to
// limit resources, best match first. An empty category means no filter.
func (l *Library) Search(ctx context.Context, query, category string, limit int) ([]Resource, error) {
	if limit <= 0 {
		limit = 10
	}

	reader, err := l.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	q := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(query).SetField("title").SetBoost(2.0)).
		AddShould(bluge.NewMatchQuery(query).SetField("summary"))
	if category != "" {
		q.AddMust(bluge.NewTermQuery(category).SetField("category"))
	}

	request := bluge.NewTopNSearch(limit, q)
	iter, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var results []Resource
	match, err := iter.Next()
	for err == nil && match != nil {
		var res Resource
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				res.ID = string(value)
			case "title":
				res.Title = string(value)
			case "summary":
				res.Summary = string(value)
			case "category":
				res.Category = string(value)
			case "url":
				res.URL = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		results = append(results, res)
		match, err = iter.Next()
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

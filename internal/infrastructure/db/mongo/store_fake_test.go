package mongo

import (
	"cmp"
	"context"
	"regexp"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryStore is an in-memory documentStore. It understands the subset of
// MongoDB the repositories emit: equality and regex filters, $set updates and
// multi-key sorts. Aggregations are recorded and answered from aggregateRows.
type memoryStore struct {
	docs []bson.M

	insertErr    error
	findErr      error
	updateErr    error
	aggregateErr error

	aggregateRows []bson.M

	lastFilter   bson.M
	lastSpec     findSpec
	lastUpdate   bson.M
	lastPipeline mongo.Pipeline
	indexes      []mongo.IndexModel
	findOneCalls int
	updateCalls  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func toM(v any) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

func decodeAll(docs []bson.M, out any) error {
	if docs == nil {
		docs = []bson.M{}
	}
	raw, err := bson.Marshal(bson.D{{Key: "v", Value: docs}})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("v").Unmarshal(out)
}

func (s *memoryStore) FindOne(_ context.Context, filter bson.M, out any) error {
	s.findOneCalls++
	s.lastFilter = filter
	if s.findErr != nil {
		return s.findErr
	}
	for _, d := range s.docs {
		if matches(d, filter) {
			raw, err := bson.Marshal(d)
			if err != nil {
				return err
			}
			return bson.Unmarshal(raw, out)
		}
	}
	return mongo.ErrNoDocuments
}

func (s *memoryStore) Find(_ context.Context, filter bson.M, spec findSpec, out any) error {
	s.lastFilter = filter
	s.lastSpec = spec
	if s.findErr != nil {
		return s.findErr
	}

	matched := s.filter(filter)
	slices.SortStableFunc(matched, func(a, b bson.M) int {
		for _, e := range spec.Sort {
			if c := compareValues(a[e.Key], b[e.Key]); c != 0 {
				if e.Value.(int) < 0 {
					return -c
				}
				return c
			}
		}
		return 0
	})

	start := min(int(spec.Skip), len(matched))
	end := len(matched)
	if spec.Limit > 0 {
		end = min(start+int(spec.Limit), end)
	}
	return decodeAll(matched[start:end], out)
}

func (s *memoryStore) CountDocuments(_ context.Context, filter bson.M) (int64, error) {
	s.lastFilter = filter
	if s.findErr != nil {
		return 0, s.findErr
	}
	return int64(len(s.filter(filter))), nil
}

func (s *memoryStore) InsertOne(_ context.Context, doc any) (any, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	m := toM(doc)
	for _, d := range s.docs {
		if d["_id"] == m["_id"] {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}}}
		}
	}
	s.docs = append(s.docs, m)
	return m["_id"], nil
}

func (s *memoryStore) UpdateByID(_ context.Context, id string, update bson.M) (int64, error) {
	s.updateCalls++
	s.lastUpdate = update
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	for _, d := range s.docs {
		if d["_id"] != id {
			continue
		}
		for k, v := range toM(update["$set"]) {
			d[k] = v
		}
		return 1, nil
	}
	return 0, nil
}

func (s *memoryStore) DeleteByID(_ context.Context, id string) (int64, error) {
	for i, d := range s.docs {
		if d["_id"] == id {
			s.docs = slices.Delete(s.docs, i, i+1)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memoryStore) Aggregate(_ context.Context, pipeline mongo.Pipeline, out any) error {
	s.lastPipeline = pipeline
	if s.aggregateErr != nil {
		return s.aggregateErr
	}
	return decodeAll(s.aggregateRows, out)
}

func (s *memoryStore) CreateIndexes(_ context.Context, models []mongo.IndexModel) error {
	s.indexes = append(s.indexes, models...)
	return nil
}

func (s *memoryStore) filter(filter bson.M) []bson.M {
	out := make([]bson.M, 0, len(s.docs))
	for _, d := range s.docs {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	return out
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		got := doc[key]
		switch w := want.(type) {
		case primitive.Regex:
			str, ok := got.(string)
			if !ok {
				return false
			}
			pattern := w.Pattern
			if strings.Contains(w.Options, "i") {
				pattern = "(?i)" + pattern
			}
			if !regexp.MustCompile(pattern).MatchString(str) {
				return false
			}
		default:
			if got != want {
				return false
			}
		}
	}
	return true
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case float64:
		return cmp.Compare(x, b.(float64))
	case primitive.DateTime:
		return cmp.Compare(x, b.(primitive.DateTime))
	}
	return 0
}

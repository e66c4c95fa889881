package testutil

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"tugas-api/internal/apperrors"
	"tugas-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore adalah implementasi service.Store di memori untuk test.
// Dokumen dinormalkan lewat round trip bson supaya tipe nilainya sama
// dengan hasil decode driver MongoDB sungguhan.
type MemStore struct {
	mu   sync.Mutex
	docs map[string]bson.M
	ids  []string
}

func NewMemStore() *MemStore {
	return &MemStore{docs: map[string]bson.M{}}
}

var reservedParams = map[string]bool{
	"search":   true,
	"page":     true,
	"limit":    true,
	"fields":   true,
	"sort_by":  true,
	"order_by": true,
}

func normalize(doc bson.M) bson.M {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return doc
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return doc
	}
	return out
}

func (m *MemStore) Save(ctx context.Context, doc bson.M) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(doc), nil
}

func (m *MemStore) saveLocked(doc bson.M) string {
	id := primitive.NewObjectID().Hex()
	stored := normalize(doc)
	stored["_id"] = id
	m.docs[id] = stored
	m.ids = append(m.ids, id)
	return id
}

func (m *MemStore) SaveMany(ctx context.Context, docs []bson.M) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, m.saveLocked(doc))
	}
	return ids, nil
}

func (m *MemStore) SaveUnique(ctx context.Context, doc bson.M, uniqueFields []string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := normalize(doc)
	filter := bson.M{}
	for _, field := range uniqueFields {
		if value, ok := stored[field]; ok {
			filter[field] = value
		}
	}
	if len(filter) > 0 {
		for _, existing := range m.docs {
			if matches(existing, filter) {
				return "", false, nil
			}
		}
	}
	return m.saveLocked(doc), true, nil
}

func (m *MemStore) GetByID(ctx context.Context, id string, fieldsLimit string, filter bson.M) (bson.M, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.InvalidObjectID(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || !matches(doc, filter) {
		return nil, nil
	}
	return project(normalize(doc), fieldsLimit), nil
}

func (m *MemStore) GetByField(ctx context.Context, value interface{}, fieldName, fieldsLimit string, filter bson.M) (bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	query := cloneFilter(filter)
	query[fieldName] = value
	for _, id := range m.ids {
		doc, ok := m.docs[id]
		if ok && matches(doc, query) {
			return project(normalize(doc), fieldsLimit), nil
		}
	}
	return nil, nil
}

func (m *MemStore) GetAllByField(ctx context.Context, value interface{}, fieldName, fieldsLimit string, filter bson.M) ([]bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	query := cloneFilter(filter)
	query[fieldName] = value
	var results []bson.M
	for _, id := range m.ids {
		doc, ok := m.docs[id]
		if ok && matches(doc, query) {
			results = append(results, project(normalize(doc), fieldsLimit))
		}
	}
	return results, nil
}

func (m *MemStore) GetAll(ctx context.Context, params repository.ListParams) (*repository.ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := bson.M{}
	for key, value := range params.Filter {
		if !reservedParams[key] {
			query[key] = value
		}
	}
	if params.Search != "" && len(params.SearchIn) > 0 {
		or := make([]interface{}, 0, len(params.SearchIn))
		for _, field := range params.SearchIn {
			or = append(or, bson.M{field: bson.M{"$regex": params.Search, "$options": "i"}})
		}
		query["$or"] = or
	}

	var matched []bson.M
	for _, id := range m.ids {
		doc, ok := m.docs[id]
		if ok && matches(doc, query) {
			matched = append(matched, normalize(doc))
		}
	}

	if params.SortBy != "" {
		desc := params.OrderBy == "desc"
		sort.SliceStable(matched, func(i, j int) bool {
			less := compareValues(matched[i][params.SortBy], matched[j][params.SortBy]) < 0
			if desc {
				return !less
			}
			return less
		})
	}

	total := int64(len(matched))
	if params.Page > 0 && params.Limit > 0 {
		skip := (params.Page - 1) * params.Limit
		if skip >= total {
			matched = nil
		} else {
			matched = matched[skip:]
		}
	}
	if params.Limit > 0 && int64(len(matched)) > params.Limit {
		matched = matched[:params.Limit]
	}

	results := make([]bson.M, 0, len(matched))
	for _, doc := range matched {
		results = append(results, project(doc, params.FieldsLimit))
	}
	totalPages := int64(1)
	if params.Limit > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(params.Limit)))
	}
	return &repository.ListResult{
		TotalItems:     total,
		TotalPages:     totalPages,
		RecordsPerPage: len(results),
		Results:        results,
	}, nil
}

func (m *MemStore) UpdateByID(ctx context.Context, id string, data bson.M, filter bson.M) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, apperrors.InvalidObjectID(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || !matches(doc, filter) {
		return false, nil
	}
	update := normalize(data)
	changed := false
	for key, value := range update {
		if !equal(doc[key], value) {
			doc[key] = value
			changed = true
		}
	}
	return changed, nil
}

func (m *MemStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, apperrors.InvalidObjectID(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return false, nil
	}
	delete(m.docs, id)
	for i, existing := range m.ids {
		if existing == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *MemStore) DeleteFields(ctx context.Context, id string, fieldNames []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return false, nil
	}
	changed := false
	for _, field := range fieldNames {
		if _, exists := doc[field]; exists {
			delete(doc, field)
			changed = true
		}
	}
	return changed, nil
}

func (m *MemStore) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, doc := range m.docs {
		if matches(doc, normalize(filter)) {
			total++
		}
	}
	return total, nil
}

func (m *MemStore) Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error) {
	return nil, errors.New("aggregate is not supported by memstore")
}

// --- pencocokan filter ---

func matches(doc, filter bson.M) bool {
	for key, expected := range filter {
		if key == "$or" {
			if !matchesOr(doc, expected) {
				return false
			}
			continue
		}
		if !matchValue(doc[key], expected) {
			return false
		}
	}
	return true
}

func matchesOr(doc bson.M, conditions interface{}) bool {
	switch list := conditions.(type) {
	case primitive.A:
		for _, condition := range list {
			if sub, ok := toBsonM(condition); ok && matches(doc, sub) {
				return true
			}
		}
	case []interface{}:
		for _, condition := range list {
			if sub, ok := toBsonM(condition); ok && matches(doc, sub) {
				return true
			}
		}
	case []bson.M:
		for _, condition := range list {
			if matches(doc, condition) {
				return true
			}
		}
	}
	return false
}

func matchValue(actual, expected interface{}) bool {
	if operators, ok := toBsonM(expected); ok {
		if hasOperator(operators) {
			return matchOperators(actual, operators)
		}
	}
	if expected == nil {
		return actual == nil
	}
	return equal(actual, expected)
}

func hasOperator(m bson.M) bool {
	for key := range m {
		if strings.HasPrefix(key, "$") {
			return true
		}
	}
	return false
}

func matchOperators(actual interface{}, operators bson.M) bool {
	for op, operand := range operators {
		switch op {
		case "$ne":
			if equal(actual, operand) {
				return false
			}
		case "$regex":
			pattern, _ := operand.(string)
			if options, _ := operators["$options"].(string); strings.Contains(options, "i") {
				pattern = "(?i)" + pattern
			}
			text, ok := actual.(string)
			if !ok {
				return false
			}
			matched, err := regexp.MatchString(pattern, text)
			if err != nil || !matched {
				return false
			}
		case "$options":
			// sudah ditangani bersama $regex
		default:
			return false
		}
	}
	return true
}

func equal(a, b interface{}) bool {
	return compareValues(a, b) == 0 && sameKind(a, b)
}

func sameKind(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	return true
}

// compareValues membandingkan nilai yang mungkin keluar dari decode bson:
// string, angka, boolean, DateTime, dan []byte.
func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	case bool:
		if bv, ok := b.(bool); ok {
			if av == bv {
				return 0
			}
			return 1
		}
	case primitive.Binary:
		if bv, ok := b.(primitive.Binary); ok {
			return strings.Compare(string(av.Data), string(bv.Data))
		}
	case int32, int64, float64:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	case nil:
		if b == nil {
			return 0
		}
		return -1
	}
	if a == nil && b == nil {
		return 0
	}
	return 1
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func toBsonM(value interface{}) (bson.M, bool) {
	switch v := value.(type) {
	case bson.M:
		return v, true
	case bson.D:
		return v.Map(), true
	case map[string]interface{}:
		return bson.M(v), true
	default:
		return nil, false
	}
}

func project(doc bson.M, fieldsLimit string) bson.M {
	if fieldsLimit == "" {
		return doc
	}
	out := bson.M{}
	if id, ok := doc["_id"]; ok {
		out["_id"] = id
	}
	for _, field := range strings.Split(fieldsLimit, ",") {
		field = strings.TrimSpace(field)
		if value, ok := doc[field]; ok {
			out[field] = value
		}
	}
	return out
}

func cloneFilter(filter bson.M) bson.M {
	out := bson.M{}
	for key, value := range filter {
		out[key] = value
	}
	return out
}

package repository

import (
	"context"
	"math"

	"tugas-api/internal/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCRUD adalah adapter tipis di atas satu collection MongoDB.
// Tidak ada business logic di sini, hanya terjemahan operasi CRUD generik
// menjadi pemanggilan driver.
type MongoCRUD struct {
	collection *mongo.Collection
}

func NewMongoCRUD(db *mongo.Database, collection string) *MongoCRUD {
	return &MongoCRUD{collection: db.Collection(collection)}
}

// ListParams membungkus semua parameter listing: filter bebas dari caller,
// full-text search sederhana, pagination, projection, dan sorting.
type ListParams struct {
	Filter      bson.M
	Search      string
	SearchIn    []string
	Page        int64
	Limit       int64
	FieldsLimit string
	SortBy      string
	OrderBy     string
}

type ListResult struct {
	TotalItems     int64    `json:"total_items"`
	TotalPages     int64    `json:"total_pages"`
	RecordsPerPage int      `json:"records_per_page"`
	Results        []bson.M `json:"results"`
}

func (c *MongoCRUD) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return c.collection.CountDocuments(ctx, convertIDFilter(filter))
}

// Save menyimpan satu dokumen dan mengembalikan id yang di-generate store.
func (c *MongoCRUD) Save(ctx context.Context, doc bson.M) (string, error) {
	result, err := c.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", apperrors.SomethingWentWrong()
	}
	return oid.Hex(), nil
}

// SaveMany menyimpan banyak dokumen sekaligus, mengembalikan id sesuai
// urutan input.
func (c *MongoCRUD) SaveMany(ctx context.Context, docs []bson.M) ([]string, error) {
	payload := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		payload = append(payload, doc)
	}
	result, err := c.collection.InsertMany(ctx, payload)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.InsertedIDs))
	for _, inserted := range result.InsertedIDs {
		oid, ok := inserted.(primitive.ObjectID)
		if !ok {
			return nil, apperrors.SomethingWentWrong()
		}
		ids = append(ids, oid.Hex())
	}
	return ids, nil
}

// SaveUnique menyimpan dokumen hanya jika belum ada dokumen lain dengan
// nilai yang sama pada uniqueFields. Pengecekan lewat count lalu insert,
// jadi tidak atomik; race antar request ditangkap oleh unique index di
// level store (lihat EnsureIndexes).
func (c *MongoCRUD) SaveUnique(ctx context.Context, doc bson.M, uniqueFields []string) (string, bool, error) {
	filter := bson.M{}
	for _, field := range uniqueFields {
		if value, ok := doc[field]; ok {
			filter[field] = value
		}
	}
	if len(filter) > 0 {
		total, err := c.CountDocuments(ctx, filter)
		if err != nil {
			return "", false, err
		}
		if total > 0 {
			return "", false, nil
		}
	}
	id, err := c.Save(ctx, doc)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// GetByID mengambil satu dokumen berdasarkan id. Id yang tidak valid
// langsung ditolak sebelum menyentuh store. Mengembalikan nil tanpa error
// kalau dokumen tidak ditemukan.
func (c *MongoCRUD) GetByID(ctx context.Context, id string, fieldsLimit string, filter bson.M) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidObjectID(id)
	}
	query := escapeSpecialChars(cloneFilter(filter)).(bson.M)
	query["_id"] = oid
	return c.findOne(ctx, query, fieldsLimit)
}

// GetByField mengambil dokumen pertama yang cocok pada field tertentu.
func (c *MongoCRUD) GetByField(ctx context.Context, value interface{}, fieldName, fieldsLimit string, filter bson.M) (bson.M, error) {
	query := cloneFilter(filter)
	query[fieldName] = value
	query = escapeSpecialChars(query).(bson.M)
	return c.findOne(ctx, query, fieldsLimit)
}

// GetAllByField mengambil semua dokumen yang cocok pada field tertentu.
func (c *MongoCRUD) GetAllByField(ctx context.Context, value interface{}, fieldName, fieldsLimit string, filter bson.M) ([]bson.M, error) {
	query := cloneFilter(filter)
	query[fieldName] = value
	query = escapeSpecialChars(query).(bson.M)

	opts := options.Find()
	if projection := buildFieldProjection(fieldsLimit); projection != nil {
		opts.SetProjection(projection)
	}
	cursor, err := c.collection.Find(ctx, convertIDFilter(query), opts)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i] = normalizeID(docs[i])
	}
	return docs, nil
}

// GetAll mengambil dokumen dengan pagination. Parameter pagination yang
// terbawa di filter (search, page, limit, fields, sort_by, order_by)
// dibuang dulu supaya tidak ikut dikirim sebagai filter ke store.
func (c *MongoCRUD) GetAll(ctx context.Context, params ListParams) (*ListResult, error) {
	query := bson.M{}
	for key, value := range params.Filter {
		if !reservedParams[key] {
			query[key] = value
		}
	}
	query = escapeSpecialChars(query).(bson.M)
	query = convertBools(query).(bson.M)

	// Search diterjemahkan jadi disjunction substring case-insensitive
	// pada field yang ditunjuk SearchIn.
	if params.Search != "" && len(params.SearchIn) > 0 {
		escaped := escapeString(params.Search)
		or := make([]bson.M, 0, len(params.SearchIn))
		for _, field := range params.SearchIn {
			or = append(or, bson.M{field: bson.M{"$regex": ".*" + escaped + ".*", "$options": "i"}})
		}
		query["$or"] = or
	}
	query = convertIDFilter(query)

	opts := options.Find()
	if projection := buildFieldProjection(params.FieldsLimit); projection != nil {
		opts.SetProjection(projection)
	}
	if params.SortBy != "" {
		order := 1
		if params.OrderBy == "desc" {
			order = -1
		}
		opts.SetSort(bson.D{{Key: params.SortBy, Value: order}})
	}
	if params.Page > 0 && params.Limit > 0 {
		opts.SetSkip((params.Page - 1) * params.Limit)
	}
	if params.Limit > 0 {
		opts.SetLimit(params.Limit)
	}

	cursor, err := c.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i] = normalizeID(docs[i])
	}

	total, err := c.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}
	totalPages := int64(1)
	if params.Limit > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(params.Limit)))
	}
	return &ListResult{
		TotalItems:     total,
		TotalPages:     totalPages,
		RecordsPerPage: len(docs),
		Results:        docs,
	}, nil
}

// UpdateByID melakukan merge partial update ($set) ke dokumen. Return true
// hanya kalau ada field yang benar-benar berubah.
func (c *MongoCRUD) UpdateByID(ctx context.Context, id string, data bson.M, filter bson.M) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.InvalidObjectID(id)
	}
	query := cloneFilter(filter)
	query["_id"] = oid
	result, err := c.collection.UpdateOne(ctx, query, bson.M{"$set": data})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// DeleteByID menghapus dokumen secara permanen.
func (c *MongoCRUD) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.InvalidObjectID(id)
	}
	result, err := c.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// DeleteFields mencabut field tertentu dari dokumen lewat $unset.
func (c *MongoCRUD) DeleteFields(ctx context.Context, id string, fieldNames []string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.InvalidObjectID(id)
	}
	unset := bson.M{}
	for _, field := range fieldNames {
		unset[field] = 1
	}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$unset": unset})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// Aggregate meneruskan pipeline agregasi apa adanya ke store.
func (c *MongoCRUD) Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error) {
	cursor, err := c.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i] = normalizeID(docs[i])
	}
	return docs, nil
}

func (c *MongoCRUD) findOne(ctx context.Context, query bson.M, fieldsLimit string) (bson.M, error) {
	opts := options.FindOne()
	if projection := buildFieldProjection(fieldsLimit); projection != nil {
		opts.SetProjection(projection)
	}
	var doc bson.M
	err := c.collection.FindOne(ctx, convertIDFilter(query), opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalizeID(doc), nil
}

func cloneFilter(filter bson.M) bson.M {
	out := bson.M{}
	for key, value := range filter {
		out[key] = value
	}
	return out
}

package service

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"tugas-api/internal/apperrors"
	"tugas-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// Commons membawa identitas caller hasil resolve token. Nilai ini immutable,
// dibangun sekali oleh middleware lalu diteruskan sebagai parameter.
type Commons struct {
	UserID   string
	UserRole string
}

// Store adalah kontrak adapter document store yang dibutuhkan service layer.
// Dipenuhi oleh repository.MongoCRUD, dan oleh memstore di test.
type Store interface {
	Save(ctx context.Context, doc bson.M) (string, error)
	SaveMany(ctx context.Context, docs []bson.M) ([]string, error)
	SaveUnique(ctx context.Context, doc bson.M, uniqueFields []string) (string, bool, error)
	GetByID(ctx context.Context, id string, fieldsLimit string, filter bson.M) (bson.M, error)
	GetByField(ctx context.Context, value interface{}, fieldName, fieldsLimit string, filter bson.M) (bson.M, error)
	GetAllByField(ctx context.Context, value interface{}, fieldName, fieldsLimit string, filter bson.M) ([]bson.M, error)
	GetAll(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	UpdateByID(ctx context.Context, id string, data bson.M, filter bson.M) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteFields(ctx context.Context, id string, fieldNames []string) (bool, error)
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error)
}

// Options untuk operasi baca satu record.
type Options struct {
	FieldsLimit    string
	IgnoreError    bool
	IncludeDeleted bool
	Commons        *Commons
}

// ListOptions untuk operasi listing dengan pagination.
type ListOptions struct {
	Filter         bson.M
	Search         string
	SearchIn       []string
	Page           int64
	Limit          int64
	FieldsLimit    string
	SortBy         string
	OrderBy        string
	IncludeDeleted bool
	Commons        *Commons
}

// UpdateOptions untuk partial update.
type UpdateOptions struct {
	UniqueFields      []string
	SkipModifiedCheck bool
	IgnoreError       bool
	IncludeDeleted    bool
	Commons           *Commons
}

// ListResult adalah hasil listing yang sudah di-map ke model bertipe.
type ListResult[T any] struct {
	TotalItems     int64 `json:"total_items"`
	TotalPages     int64 `json:"total_pages"`
	RecordsPerPage int   `json:"records_per_page"`
	Results        []*T  `json:"results"`
}

// Service adalah service generik yang menerapkan aturan domain-agnostic
// (soft delete, ownership, uniqueness, deteksi perubahan) di atas Store.
// Satu implementasi melayani semua resource lewat type parameter T.
type Service[T any] struct {
	name           string
	store          Store
	ownershipField string
}

func New[T any](name string, store Store, ownershipField string) *Service[T] {
	return &Service[T]{
		name:           name,
		store:          store,
		ownershipField: ownershipField,
	}
}

// ownershipFilter membatasi visibilitas record ke pemiliknya. Admin tidak
// dibatasi, begitu juga request tanpa identitas caller.
func (s *Service[T]) ownershipFilter(commons *Commons) bson.M {
	if s.ownershipField == "" || commons == nil || commons.UserID == "" {
		return nil
	}
	if commons.UserRole == "admin" {
		return nil
	}
	return bson.M{s.ownershipField: commons.UserID}
}

// baseFilter menyusun filter dasar: sembunyikan record yang soft-deleted
// kecuali diminta, lalu tambahkan filter ownership.
func (s *Service[T]) baseFilter(includeDeleted bool, commons *Commons) bson.M {
	filter := bson.M{}
	if !includeDeleted {
		filter["deleted_at"] = nil
	}
	for key, value := range s.ownershipFilter(commons) {
		filter[key] = value
	}
	return filter
}

func (s *Service[T]) GetByID(ctx context.Context, id string, opts Options) (*T, error) {
	doc, err := s.store.GetByID(ctx, id, opts.FieldsLimit, s.baseFilter(opts.IncludeDeleted, opts.Commons))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		if opts.IgnoreError {
			return nil, nil
		}
		return nil, apperrors.NotFound(s.name, id)
	}
	return decode[T](doc)
}

func (s *Service[T]) GetByField(ctx context.Context, value interface{}, fieldName string, opts Options) (*T, error) {
	doc, err := s.store.GetByField(ctx, value, fieldName, opts.FieldsLimit, s.baseFilter(opts.IncludeDeleted, opts.Commons))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		if opts.IgnoreError {
			return nil, nil
		}
		return nil, apperrors.NotFound(s.name, fmt.Sprintf("%v", value))
	}
	return decode[T](doc)
}

func (s *Service[T]) GetAll(ctx context.Context, opts ListOptions) (*ListResult[T], error) {
	filter := bson.M{}
	for key, value := range opts.Filter {
		filter[key] = value
	}
	if !opts.IncludeDeleted {
		filter["deleted_at"] = nil
	}
	for key, value := range s.ownershipFilter(opts.Commons) {
		filter[key] = value
	}

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "desc"
	}

	raw, err := s.store.GetAll(ctx, repository.ListParams{
		Filter:      filter,
		Search:      opts.Search,
		SearchIn:    opts.SearchIn,
		Page:        opts.Page,
		Limit:       opts.Limit,
		FieldsLimit: opts.FieldsLimit,
		SortBy:      opts.SortBy,
		OrderBy:     opts.OrderBy,
	})
	if err != nil {
		return nil, err
	}

	result := &ListResult[T]{
		TotalItems:     raw.TotalItems,
		TotalPages:     raw.TotalPages,
		RecordsPerPage: raw.RecordsPerPage,
		Results:        make([]*T, 0, len(raw.Results)),
	}
	for _, doc := range raw.Results {
		model, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, model)
	}
	return result, nil
}

// Save menyimpan model lalu membaca ulang berdasarkan id supaya record yang
// dikembalikan mencerminkan nilai yang benar-benar tersimpan di store.
func (s *Service[T]) Save(ctx context.Context, model *T) (*T, error) {
	doc, err := toDoc(model)
	if err != nil {
		return nil, err
	}
	id, err := s.store.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id, Options{})
}

func (s *Service[T]) SaveMany(ctx context.Context, models []*T) ([]*T, error) {
	docs := make([]bson.M, 0, len(models))
	for _, model := range models {
		doc, err := toDoc(model)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	ids, err := s.store.SaveMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	results := make([]*T, 0, len(ids))
	for _, id := range ids {
		model, err := s.GetByID(ctx, id, Options{})
		if err != nil {
			return nil, err
		}
		results = append(results, model)
	}
	return results, nil
}

// SaveUnique menyimpan model kalau belum ada record lain dengan nilai sama
// pada uniqueFields; kalau sudah ada, gagal dengan Conflict.
func (s *Service[T]) SaveUnique(ctx context.Context, model *T, uniqueFields []string, ignoreError bool) (*T, error) {
	doc, err := toDoc(model)
	if err != nil {
		return nil, err
	}
	id, inserted, err := s.store.SaveUnique(ctx, doc, uniqueFields)
	if err != nil {
		return nil, err
	}
	if !inserted {
		if ignoreError {
			return nil, nil
		}
		return nil, apperrors.Conflict(s.name, fmt.Sprintf("%v", firstUniqueValue(doc, uniqueFields)))
	}
	return s.GetByID(ctx, id, Options{})
}

// UpdateByID menjalankan partial update dengan urutan: ambil record saat
// ini, cek apakah ada perubahan, cek uniqueness, apply update, baca ulang.
// Pembacaan ulang selalu menyertakan record soft-deleted supaya record yang
// baru saja di-update tetap terlihat apa pun flag delete-nya.
func (s *Service[T]) UpdateByID(ctx context.Context, id string, data interface{}, opts UpdateOptions) (*T, error) {
	current, err := s.store.GetByID(ctx, id, "", s.baseFilter(opts.IncludeDeleted, opts.Commons))
	if err != nil {
		return nil, err
	}
	if current == nil {
		if opts.IgnoreError {
			return nil, nil
		}
		return nil, apperrors.NotFound(s.name, id)
	}

	update, err := toDoc(data)
	if err != nil {
		return nil, err
	}
	if !opts.SkipModifiedCheck {
		if !isModified(current, update) {
			if opts.IgnoreError {
				return nil, nil
			}
			return nil, apperrors.NotModified(s.name)
		}
	}
	if len(opts.UniqueFields) > 0 {
		// Record yang sedang di-edit dikecualikan dari scan conflict,
		// supaya update tanpa mengubah field unik tidak bentrok dengan
		// dirinya sendiri.
		if err := s.checkUnique(ctx, update, opts.UniqueFields, id, opts.IgnoreError); err != nil {
			return nil, err
		}
	}
	if _, err := s.store.UpdateByID(ctx, id, update, nil); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id, Options{IgnoreError: opts.IgnoreError, IncludeDeleted: true})
}

// HardDeleteByID menghapus record secara permanen setelah memastikan record
// itu ada (dan terlihat oleh caller).
func (s *Service[T]) HardDeleteByID(ctx context.Context, id string, opts Options) (bool, error) {
	if _, err := s.GetByID(ctx, id, opts); err != nil {
		return false, err
	}
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, apperrors.NotFound(s.name, id)
	}
	return true, nil
}

// SoftDeleteByID menandai record tidak aktif dengan mengisi deleted_at dan
// deleted_by. Record yang sudah soft-deleted tidak terlihat oleh fetch di
// UpdateByID, jadi soft delete kedua berakhir NotFound.
func (s *Service[T]) SoftDeleteByID(ctx context.Context, id string, opts Options) (*T, error) {
	update := bson.M{
		"deleted_at": time.Now(),
	}
	if opts.Commons != nil && opts.Commons.UserID != "" {
		update["deleted_by"] = opts.Commons.UserID
	}
	return s.UpdateByID(ctx, id, update, UpdateOptions{
		SkipModifiedCheck: true,
		IgnoreError:       opts.IgnoreError,
		Commons:           opts.Commons,
	})
}

func (s *Service[T]) checkUnique(ctx context.Context, data bson.M, uniqueFields []string, excludeID string, ignoreError bool) error {
	filter := bson.M{}
	for _, field := range uniqueFields {
		if value, ok := data[field]; ok && value != nil {
			filter[field] = value
		}
	}
	if len(filter) == 0 {
		return nil
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	total, err := s.store.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if total == 0 || ignoreError {
		return nil
	}
	return apperrors.Conflict(s.name, fmt.Sprintf("%v", firstUniqueValue(data, uniqueFields)))
}

// isModified membandingkan setiap field update dengan record saat ini.
// Field audit updated_at/updated_by tidak dihitung sebagai perubahan.
func isModified(current, update bson.M) bool {
	for key, value := range update {
		if key == "updated_at" || key == "updated_by" {
			continue
		}
		if !reflect.DeepEqual(current[key], value) {
			return true
		}
	}
	return false
}

func firstUniqueValue(doc bson.M, uniqueFields []string) interface{} {
	for _, field := range uniqueFields {
		if value, ok := doc[field]; ok {
			return value
		}
	}
	return nil
}

// toDoc menormalkan model atau partial update menjadi bson.M lewat round
// trip marshal, supaya nilai yang dibandingkan isModified punya tipe yang
// sama dengan hasil baca dari store.
func toDoc(data interface{}) (bson.M, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return doc, nil
}

func decode[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	model := new(T)
	if err := bson.Unmarshal(raw, model); err != nil {
		return nil, err
	}
	return model, nil
}

package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parameter pagination yang tidak boleh ikut menjadi filter query ke store.
var reservedParams = map[string]bool{
	"search":   true,
	"page":     true,
	"limit":    true,
	"fields":   true,
	"sort_by":  true,
	"order_by": true,
}

// Karakter yang punya arti khusus di regex. Titik sengaja tidak ikut
// di-escape, mengikuti perilaku filter lama.
var specialChars = regexp.MustCompile(`([*+?^${}()|[\]\\])`)

// escapeString meng-escape karakter spesial regex supaya nilai filter
// diperlakukan sebagai literal, bukan pattern.
func escapeString(value string) string {
	return specialChars.ReplaceAllString(value, `\$1`)
}

func escapeSpecialChars(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		out := bson.M{}
		for key, item := range v {
			out[key] = escapeSpecialChars(item)
		}
		return out
	case string:
		return escapeString(v)
	default:
		return value
	}
}

// convertBools mengubah string "true"/"false" menjadi boolean sungguhan.
// Query param selalu datang sebagai string, sedangkan dokumen menyimpan
// boolean asli, jadi tanpa konversi filter tidak akan pernah match.
func convertBools(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		out := bson.M{}
		for key, item := range v {
			out[key] = convertBools(item)
		}
		return out
	case []bson.M:
		out := make([]bson.M, 0, len(v))
		for _, item := range v {
			out = append(out, convertBools(item).(bson.M))
		}
		return out
	case string:
		switch v {
		case "true":
			return true
		case "false":
			return false
		}
		return v
	default:
		return value
	}
}

// buildFieldProjection membangun projection MongoDB dari string field yang
// dipisah koma, misal "fullname,email" -> {fullname: 1, email: 1}.
func buildFieldProjection(fieldsLimit string) bson.M {
	if fieldsLimit == "" {
		return nil
	}
	projection := bson.M{}
	for _, field := range strings.Split(fieldsLimit, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			projection[field] = 1
		}
	}
	return projection
}

// convertIDFilter mengubah nilai "_id" berupa hex string menjadi ObjectID,
// termasuk di dalam operator seperti {$ne: "..."} atau {$in: [...]}.
// Format identifier adalah urusan adapter, bukan pemanggil.
func convertIDFilter(filter bson.M) bson.M {
	raw, ok := filter["_id"]
	if !ok {
		return filter
	}
	filter["_id"] = convertIDValue(raw)
	return filter
}

func convertIDValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			return oid
		}
		return v
	case bson.M:
		out := bson.M{}
		for op, item := range v {
			out[op] = convertIDValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, convertIDValue(item))
		}
		return out
	default:
		return value
	}
}

// normalizeID mengubah _id hasil baca dari ObjectID menjadi hex string.
// Semua dokumen yang keluar dari adapter selalu memakai id string.
func normalizeID(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
	return doc
}

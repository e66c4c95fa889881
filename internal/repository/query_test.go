package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEscapeString(t *testing.T) {
	assert.Equal(t, `a\+b`, escapeString("a+b"))
	assert.Equal(t, `harga \(promo\)`, escapeString("harga (promo)"))
	// Titik dibiarkan apa adanya.
	assert.Equal(t, "user@mail.com", escapeString("user@mail.com"))
	assert.Equal(t, "tanpa spesial", escapeString("tanpa spesial"))
}

func TestEscapeSpecialChars(t *testing.T) {
	in := bson.M{
		"summary": "beli [susu]",
		"nested":  bson.M{"note": "a*b"},
		"count":   3,
	}
	out := escapeSpecialChars(in).(bson.M)

	assert.Equal(t, `beli \[susu\]`, out["summary"])
	assert.Equal(t, `a\*b`, out["nested"].(bson.M)["note"])
	assert.Equal(t, 3, out["count"])
}

func TestConvertBools(t *testing.T) {
	in := bson.M{
		"done":    "true",
		"invalid": "false",
		"status":  "to-do",
		"nested":  bson.M{"flag": "true"},
	}
	out := convertBools(in).(bson.M)

	assert.Equal(t, true, out["done"])
	assert.Equal(t, false, out["invalid"])
	assert.Equal(t, "to-do", out["status"])
	assert.Equal(t, true, out["nested"].(bson.M)["flag"])
}

func TestBuildFieldProjection(t *testing.T) {
	assert.Nil(t, buildFieldProjection(""))

	projection := buildFieldProjection("fullname, email")
	assert.Equal(t, bson.M{"fullname": 1, "email": 1}, projection)

	// Field kosong karena koma beruntun diabaikan.
	projection = buildFieldProjection("summary,,status")
	assert.Equal(t, bson.M{"summary": 1, "status": 1}, projection)
}

func TestConvertIDFilter(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	out := convertIDFilter(bson.M{"_id": "507f1f77bcf86cd799439011"})
	assert.Equal(t, oid, out["_id"])

	// Operator $ne juga ikut dikonversi.
	out = convertIDFilter(bson.M{"_id": bson.M{"$ne": "507f1f77bcf86cd799439011"}})
	assert.Equal(t, bson.M{"$ne": oid}, out["_id"])

	// Hex tidak valid dibiarkan sebagai string.
	out = convertIDFilter(bson.M{"_id": "bukan-hex"})
	assert.Equal(t, "bukan-hex", out["_id"])

	// Filter tanpa _id tidak disentuh.
	out = convertIDFilter(bson.M{"email": "a@b.com"})
	assert.Equal(t, bson.M{"email": "a@b.com"}, out)
}

func TestNormalizeID(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	doc := normalizeID(bson.M{"_id": oid, "summary": "belanja"})
	assert.Equal(t, "507f1f77bcf86cd799439011", doc["_id"])
	assert.Equal(t, "belanja", doc["summary"])

	assert.Nil(t, normalizeID(nil))
}

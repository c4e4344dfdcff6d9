package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/senbank/backoffice/internal/core/domain"
)

func TestToDomainUser_Phone(t *testing.T) {
	tests := []struct {
		name      string
		numTel    string
		telephone string
		want      string
	}{
		{name: "numTel only", numTel: "771234567", want: "771234567"},
		{name: "legacy telephone only", telephone: "781234567", want: "781234567"},
		{name: "numTel wins over telephone", numTel: "771234567", telephone: "781234567", want: "771234567"},
		{name: "neither", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oid := primitive.NewObjectID()
			got := toDomainUser(&mongoUser{ID: oid, Email: "a@b.sn", NumTel: tt.numTel, Telephone: tt.telephone})
			assert.Equal(t, tt.want, got.NumTel)
			assert.Equal(t, oid.Hex(), got.ID)
			assert.Equal(t, "a@b.sn", got.Email)
		})
	}
}

func TestProfileUpdateDoc(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	phone := "771234567"
	empty := ""
	photo := "p.png"

	tests := []struct {
		name      string
		update    domain.ProfileUpdate
		wantSet   bson.M
		wantUnset bson.M
	}{
		{
			name:    "phone untouched",
			update:  domain.ProfileUpdate{Nom: "Diop", Prenom: "Awa", Email: "awa@b.sn"},
			wantSet: bson.M{"nom": "Diop", "prenom": "Awa", "email": "awa@b.sn", "updatedate": at},
		},
		{
			name:      "new phone drops legacy telephone",
			update:    domain.ProfileUpdate{Nom: "Diop", Prenom: "Awa", Email: "awa@b.sn", NumTel: &phone, Photo: &photo},
			wantSet:   bson.M{"nom": "Diop", "prenom": "Awa", "email": "awa@b.sn", "updatedate": at, "numTel": phone, "photo": photo},
			wantUnset: bson.M{"telephone": ""},
		},
		{
			name:      "cleared phone removes both fields",
			update:    domain.ProfileUpdate{Nom: "Diop", Prenom: "Awa", Email: "awa@b.sn", NumTel: &empty},
			wantSet:   bson.M{"nom": "Diop", "prenom": "Awa", "email": "awa@b.sn", "updatedate": at},
			wantUnset: bson.M{"numTel": "", "telephone": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := profileUpdateDoc(tt.update, at)
			assert.Equal(t, tt.wantSet, doc["$set"])
			if tt.wantUnset == nil {
				assert.NotContains(t, doc, "$unset")
			} else {
				assert.Equal(t, tt.wantUnset, doc["$unset"])
			}
		})
	}
}

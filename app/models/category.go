package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products by name. categoryName is unique across the
// collection (enforced by index); description defaults to "".
type Category struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryName string             `bson:"categoryName"  json:"categoryName"`
	Description  string             `bson:"description"   json:"description"`
}

// CategoryPatch is the optional-field patch for category updates.
type CategoryPatch struct {
	CategoryName *string `json:"categoryName" validate:"required"`
	Description  *string `json:"description"`
}

// IsEmpty reports whether no fields were supplied.
func (p CategoryPatch) IsEmpty() bool {
	return p.CategoryName == nil && p.Description == nil
}

// Apply copies the supplied fields onto cat. Names are stored trimmed.
func (p CategoryPatch) Apply(cat *Category) {
	if p.CategoryName != nil {
		cat.CategoryName = strings.TrimSpace(*p.CategoryName)
	}
	if p.Description != nil {
		cat.Description = *p.Description
	}
}

// SetDoc builds the $set document from the supplied fields.
func (p CategoryPatch) SetDoc() bson.M {
	set := bson.M{}
	if p.CategoryName != nil {
		set["categoryName"] = strings.TrimSpace(*p.CategoryName)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	return set
}

package models

import (
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/supermart/pkg/validate"
)

// Product is a stored supermarket product. Every persisted product
// satisfies the required-field rules on ProductPatch; no partial record
// survives a failed validation.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	Name        string             `bson:"name"                json:"name"`
	Description string             `bson:"description"         json:"description"`
	Price       float64            `bson:"price"               json:"price"`
	Category    string             `bson:"category"            json:"category"`
	Quantity    float64            `bson:"quantity"            json:"quantity"`
	InStock     bool               `bson:"inStock"             json:"inStock"`
	Supplier    string             `bson:"supplier"            json:"supplier"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

// ProductPatch is the optional-field patch structure for product writes.
// A nil pointer means "not supplied". On create every field must be
// supplied (validate.Struct); on update only supplied fields are checked
// (validate.StructPartial).
type ProductPatch struct {
	Name        *string  `json:"name"        validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price"       validate:"required"`
	Category    *string  `json:"category"    validate:"required"`
	Quantity    *float64 `json:"quantity"    validate:"required"`
	InStock     *bool    `json:"inStock"     validate:"required"`
	Supplier    *string  `json:"supplier"    validate:"required"`
}

// ProductPatchFromBody builds a patch from a decoded JSON body, coercing
// price and quantity the way the store casts them (numbers or numeric
// strings). The returned error message names the field that failed to
// cast.
func ProductPatchFromBody(body map[string]interface{}) (ProductPatch, error) {
	var p ProductPatch

	p.Name = optString(body, "name")
	p.Description = optString(body, "description")
	p.Category = optString(body, "category")
	p.Supplier = optString(body, "supplier")

	if v, ok := body["inStock"]; ok && v != nil {
		if b, ok := v.(bool); ok {
			p.InStock = &b
		} else {
			return p, fmt.Errorf("cast to Boolean failed for value %q at path \"inStock\"", fmt.Sprintf("%v", v))
		}
	}

	var err error
	if p.Price, err = optNumber(body, "price"); err != nil {
		return p, err
	}
	if p.Quantity, err = optNumber(body, "quantity"); err != nil {
		return p, err
	}

	return p, nil
}

// Validate checks the full patch against the product schema (create).
func (p ProductPatch) Validate() map[string]string {
	return validate.Struct(&p)
}

// ValidatePartial checks only the supplied fields (update).
func (p ProductPatch) ValidatePartial() map[string]string {
	return validate.StructPartial(&p)
}

// IsEmpty reports whether no fields were supplied.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Quantity == nil && p.InStock == nil && p.Supplier == nil
}

// Apply copies the supplied fields onto prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Quantity != nil {
		prod.Quantity = *p.Quantity
	}
	if p.InStock != nil {
		prod.InStock = *p.InStock
	}
	if p.Supplier != nil {
		prod.Supplier = *p.Supplier
	}
}

// SetDoc builds the $set document from the supplied fields.
func (p ProductPatch) SetDoc() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Quantity != nil {
		set["quantity"] = *p.Quantity
	}
	if p.InStock != nil {
		set["inStock"] = *p.InStock
	}
	if p.Supplier != nil {
		set["supplier"] = *p.Supplier
	}
	return set
}

// HasNumber reports whether the body carries the key with any value,
// matching the "'price' in req.body" presence semantics of the HTTP
// contract.
func HasNumber(body map[string]interface{}, key string) bool {
	_, ok := body[key]
	return ok
}

// IsNumeric reports whether the body value coerces to a number.
func IsNumeric(v interface{}) bool {
	_, ok := toNumber(v)
	return ok
}

func optString(body map[string]interface{}, key string) *string {
	v, ok := body[key]
	if !ok || v == nil {
		return nil
	}
	s := fmt.Sprintf("%v", v)
	if _, isStr := v.(string); isStr {
		s = v.(string)
	}
	return &s
}

func optNumber(body map[string]interface{}, key string) (*float64, error) {
	v, ok := body[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := toNumber(v)
	if !ok {
		return nil, fmt.Errorf("cast to Number failed for value %q at path %q", fmt.Sprintf("%v", v), key)
	}
	return &f, nil
}

// toNumber mirrors the store's cast: JSON numbers pass through, numeric
// strings are parsed.
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

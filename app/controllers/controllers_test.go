package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/supermart/app/controllers"
	"github.com/shashiranjanraj/supermart/app/repositories"
	"github.com/shashiranjanraj/supermart/app/services"
	"github.com/shashiranjanraj/supermart/internal/kernel"
	"github.com/shashiranjanraj/supermart/pkg/auth"
	"github.com/shashiranjanraj/supermart/pkg/event"
	"github.com/shashiranjanraj/supermart/pkg/router"
)

type testApp struct {
	router   *router.Router
	products *repositories.MemoryProductRepository
	userID   string
	token    string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	event.Flush()

	products := repositories.NewMemoryProductRepository()
	r := kernel.Build(kernel.Repos{
		Products:   products,
		Categories: repositories.NewMemoryCategoryRepository(),
		Users:      repositories.NewMemoryUserRepository(),
	}, services.NewGithubClient())

	userID := primitive.NewObjectID().Hex()
	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)

	return &testApp{router: r, products: products, userID: userID, token: token}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// ─── Categories ───────────────────────────────────────────────────────────────

func TestCategoryCreateThenListIncludesItOnce(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/categories", map[string]string{"categoryName": "Dairy"}, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode(t, rec)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "Dairy", created["categoryName"])
	assert.Equal(t, "", created["description"], "description defaults to empty")

	rec = app.do(t, http.MethodGet, "/api/categories", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))

	count := 0
	for _, c := range list {
		if c["categoryName"] == "Dairy" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCategoryDuplicateNameRejected(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/categories", map[string]string{"categoryName": "Dairy"}, false)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/categories", map[string]string{"categoryName": "Dairy"}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category name already exists.", decode(t, rec)["message"])

	rec = app.do(t, http.MethodGet, "/api/categories", nil, false)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1, "duplicate must not create a second record")
}

func TestCategoryCreateRequiresName(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []map[string]string{
		{},
		{"categoryName": "   "},
		{"description": "no name"},
	} {
		rec := app.do(t, http.MethodPost, "/api/categories", body, false)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Category name is required.", decode(t, rec)["message"])
	}
}

func TestCategoryUpdateValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPut, "/api/categories/not-an-id", map[string]string{"categoryName": "X"}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid category ID.", decode(t, rec)["message"])

	rec = app.do(t, http.MethodPut, "/api/categories/"+primitive.NewObjectID().Hex(), map[string]string{"categoryName": "X"}, false)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found.", decode(t, rec)["message"])
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/categories", map[string]string{"categoryName": "Drinks", "description": "old"}, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	rec = app.do(t, http.MethodPut, "/api/categories/"+id, map[string]string{"description": "new"}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "Drinks", updated["categoryName"], "unsupplied fields keep their value")
	assert.Equal(t, "new", updated["description"])

	rec = app.do(t, http.MethodDelete, "/api/categories/"+id, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Category deleted.", decode(t, rec)["message"])

	rec = app.do(t, http.MethodDelete, "/api/categories/"+id, nil, false)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// ─── Products: auth gate ──────────────────────────────────────────────────────

func TestProductRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/products"},
		{http.MethodGet, "/api/products/" + primitive.NewObjectID().Hex()},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/" + primitive.NewObjectID().Hex()},
		{http.MethodDelete, "/api/products/" + primitive.NewObjectID().Hex()},
	}
	for _, p := range paths {
		rec := app.do(t, p.method, p.path, map[string]interface{}{"name": "x", "price": 1}, false)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
		assert.Equal(t, "Unauthorized", decode(t, rec)["message"])
	}

	all, err := app.products.All(nil)
	require.NoError(t, err)
	assert.Empty(t, all, "unauthorized create must persist nothing")
}

func TestProductCreateWithoutUserIdentity(t *testing.T) {
	// Drive the handler directly, past the route gate, with no user bound
	// to the request. The controller's own check answers with the login
	// prompt.
	products := repositories.NewMemoryProductRepository()
	ctrl := controllers.NewProductController(products)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(validProductBody()))
	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)

	rec := httptest.NewRecorder()
	ctrl.Store(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized. Please log in.", decode(t, rec)["message"])

	all, err := products.All(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// ─── Products: CRUD ───────────────────────────────────────────────────────────

func validProductBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Whole Milk",
		"description": "1L whole milk",
		"price":       2.49,
		"category":    "Dairy",
		"quantity":    120,
		"inStock":     true,
		"supplier":    "Green Farms",
	}
}

func TestProductCreateRequiresNameAndPrice(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []map[string]interface{}{
		{"price": 1.5},
		{"name": "Milk"},
		{"name": "Milk", "price": nil},
		{},
	} {
		rec := app.do(t, http.MethodPost, "/api/products", body, true)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
		assert.Equal(t, "Name and price are required.", decode(t, rec)["message"])
	}

	all, err := app.products.All(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductCreateStoreValidationFailure(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name":  "Milk",
		"price": 2.49,
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	msg := decode(t, rec)["error"].(string)
	assert.Contains(t, msg, "Failed to create product.")
	assert.Contains(t, msg, "required")

	all, err := app.products.All(nil)
	require.NoError(t, err)
	assert.Empty(t, all, "no partial record survives failed validation")
}

func TestProductRoundTrip(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/products", validProductBody(), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	id := created["id"].(string)
	assert.Equal(t, app.userID, created["createdBy"], "createdBy is the creating user")

	rec = app.do(t, http.MethodGet, "/api/products/"+id, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)

	assert.Equal(t, "Whole Milk", got["name"])
	assert.Equal(t, "1L whole milk", got["description"])
	assert.Equal(t, 2.49, got["price"])
	assert.Equal(t, "Dairy", got["category"])
	assert.Equal(t, float64(120), got["quantity"])
	assert.Equal(t, true, got["inStock"])
	assert.Equal(t, "Green Farms", got["supplier"])
	assert.Equal(t, app.userID, got["createdBy"])
}

func TestProductGetInvalidAndMissingID(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/products/zzz", nil, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product ID.", decode(t, rec)["message"])

	rec = app.do(t, http.MethodGet, "/api/products/"+primitive.NewObjectID().Hex(), nil, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found.", decode(t, rec)["message"])
}

func TestProductUpdateNonNumericPriceRejected(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/products", validProductBody(), true)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	rec = app.do(t, http.MethodPut, "/api/products/"+id, map[string]interface{}{"price": "abc"}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Price must be a number.", decode(t, rec)["message"])

	rec = app.do(t, http.MethodPut, "/api/products/"+id, map[string]interface{}{"quantity": "many"}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity must be a number.", decode(t, rec)["message"])

	// Booleans never coerce to a price or quantity.
	rec = app.do(t, http.MethodPut, "/api/products/"+id, map[string]interface{}{"price": true}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Price must be a number.", decode(t, rec)["message"])

	rec = app.do(t, http.MethodGet, "/api/products/"+id, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.49, decode(t, rec)["price"], "stored record unchanged after rejected update")
}

func TestProductPartialUpdate(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/products", validProductBody(), true)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	rec = app.do(t, http.MethodPut, "/api/products/"+id, map[string]interface{}{"price": "3.99", "inStock": false}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)
	assert.Equal(t, 3.99, updated["price"], "numeric string coerces")
	assert.Equal(t, false, updated["inStock"])
	assert.Equal(t, "Whole Milk", updated["name"], "unsupplied fields untouched")
}

func TestProductUpdateAndDeleteIDChecks(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPut, "/api/products/bogus", map[string]interface{}{"price": 1}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product ID format.", decode(t, rec)["message"])

	rec = app.do(t, http.MethodDelete, "/api/products/bogus", nil, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product ID format.", decode(t, rec)["message"])

	missing := primitive.NewObjectID().Hex()
	rec = app.do(t, http.MethodPut, "/api/products/"+missing, map[string]interface{}{"price": 1}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/products/"+missing, nil, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDelete(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/products", validProductBody(), true)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	rec = app.do(t, http.MethodDelete, "/api/products/"+id, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted successfully", decode(t, rec)["message"])

	rec = app.do(t, http.MethodGet, "/api/products/"+id, nil, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// ─── Service pages ────────────────────────────────────────────────────────────

func TestLandingAndDocs(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec)["name"], "Supermart API")

	rec = app.do(t, http.MethodGet, "/docs", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	routes, ok := body["routes"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, routes)
}

func TestAuditEventsFireOnMutations(t *testing.T) {
	app := newTestApp(t)

	var fired []string
	event.Listen("product.created", func(interface{}) { fired = append(fired, "product.created") })
	event.Listen("product.deleted", func(interface{}) { fired = append(fired, "product.deleted") })

	rec := app.do(t, http.MethodPost, "/api/products", validProductBody(), true)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	rec = app.do(t, http.MethodDelete, "/api/products/"+id, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"product.created", "product.deleted"}, fired)
}

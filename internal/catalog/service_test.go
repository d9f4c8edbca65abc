package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Duc13022005/Web-Shop/pkg/api"
	"github.com/Duc13022005/Web-Shop/pkg/config"
	pkgerrors "github.com/Duc13022005/Web-Shop/pkg/errors"
	"github.com/Duc13022005/Web-Shop/pkg/logger"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := api.New(config.APIConfig{BaseURL: srv.URL}, nil, logg)
	require.NoError(t, err)
	return NewService(client, srv.URL), srv
}

func TestGetByIDNormalizesImages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 3,
			"sku": "VEG-001",
			"name": "Carrot",
			"base_price": "12000",
			"current_price": "9000",
			"sale_price": "9000",
			"unit": "kg",
			"image_path": "carrot.jpg",
			"images": ["/uploads/carrot-1.jpg", "https://cdn.example.com/carrot-2.jpg"],
			"available_stock": 40,
			"is_active": true
		}`))
	})

	svc, srv := newTestService(t, mux)

	product, err := svc.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/uploads/carrot.jpg", product.ImagePath)
	require.Equal(t, []string{
		srv.URL + "/uploads/carrot-1.jpg",
		"https://cdn.example.com/carrot-2.jpg",
	}, product.Images)
	require.True(t, product.CurrentPrice.Equal(decimal.NewFromInt(9000)))
}

func TestGetByIDDefaultsMissingImagesToEmptySlice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 5, "sku": "FRU-002", "name": "Mango", "base_price": "30000", "current_price": "30000", "unit": "kg", "available_stock": 5, "is_active": true}`))
	})

	svc, _ := newTestService(t, mux)

	product, err := svc.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, product.Images)
	require.Empty(t, product.Images)
	require.Empty(t, product.ImagePath)
}

func TestListForwardsFiltersAndNormalizes(t *testing.T) {
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [{"id": 1, "sku": "A", "name": "Apple", "base_price": "10000", "current_price": "10000", "unit": "kg", "image_path": "apple.jpg", "available_stock": 3, "is_active": true}],
			"total": 1, "page": 2, "size": 20
		}`))
	})

	svc, srv := newTestService(t, mux)

	page, err := svc.List(context.Background(), ListParams{CategoryID: 4, Search: "apple", Page: 2, Size: 20})
	require.NoError(t, err)
	require.Contains(t, query, "category_id=4")
	require.Contains(t, query, "search=apple")
	require.Contains(t, query, "page=2")
	require.Equal(t, 1, page.Total)
	require.Equal(t, srv.URL+"/uploads/apple.jpg", page.Items[0].ImagePath)
}

func TestListForwardsBackendErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})

	svc, _ := newTestService(t, mux)

	_, err := svc.List(context.Background(), ListParams{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestCategoriesUnwrapsItems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"Vegetables","image_path":"veg.jpg","product_count":12}],"total":1}`))
	})

	svc, srv := newTestService(t, mux)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Equal(t, "Vegetables", categories[0].Name)
	require.Equal(t, srv.URL+"/uploads/veg.jpg", categories[0].ImagePath)
}

func TestEffectivePriceUsesLowerSalePrice(t *testing.T) {
	sale := decimal.NewFromInt(8000)
	p := Product{BasePrice: decimal.NewFromInt(10000), SalePrice: &sale}
	require.True(t, p.EffectivePrice().Equal(sale))

	higher := decimal.NewFromInt(12000)
	p.SalePrice = &higher
	require.True(t, p.EffectivePrice().Equal(p.BasePrice))

	p.SalePrice = nil
	require.True(t, p.EffectivePrice().Equal(p.BasePrice))
}

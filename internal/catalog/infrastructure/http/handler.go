package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/crocshop/cart-service/internal/catalog/application"
	"github.com/crocshop/cart-service/internal/catalog/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("catalog-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	return r
}

type productView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Species       string  `json:"species,omitempty"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	Category      string  `json:"category,omitempty"`
	PriceCents    int64   `json:"price_cents"`
	StockQuantity int     `json:"stock_quantity"`
	Rating        float64 `json:"rating,omitempty"`
	InStock       bool    `json:"in_stock"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	f, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, err := h.service.List(ctx, f)
	if err != nil {
		h.log.Error("list products failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toView(p))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	p, err := h.service.Product(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		h.log.Error("get product failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toView(p))
}

func filterFromQuery(r *http.Request) (domain.Filter, error) {
	var f domain.Filter
	q := r.URL.Query()
	f.Category = q.Get("category")
	f.InStockOnly = q.Get("in_stock") == "true"

	var err error
	if v := q.Get("min_price_cents"); v != "" {
		if f.MinPriceCents, err = strconv.ParseInt(v, 10, 64); err != nil {
			return domain.Filter{}, errors.New("invalid min_price_cents")
		}
	}
	if v := q.Get("max_price_cents"); v != "" {
		if f.MaxPriceCents, err = strconv.ParseInt(v, 10, 64); err != nil {
			return domain.Filter{}, errors.New("invalid max_price_cents")
		}
	}
	return f, nil
}

func toView(p domain.Product) productView {
	return productView{
		ID:            p.ID,
		Name:          p.Name,
		Species:       p.Species,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		Category:      p.Category,
		PriceCents:    p.PriceCents,
		StockQuantity: p.StockQuantity,
		Rating:        p.Rating,
		InStock:       p.InStock,
	}
}

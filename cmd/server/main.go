package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"livrerjardiner-be/internal/address"
	"livrerjardiner-be/internal/catalog"
	"livrerjardiner-be/internal/config"
	"livrerjardiner-be/internal/db"
	"livrerjardiner-be/internal/logger"
	"livrerjardiner-be/internal/metrics"
	"livrerjardiner-be/internal/notification"
	"livrerjardiner-be/internal/order"
	"livrerjardiner-be/internal/stock"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	reg := metrics.NewRegistry()
	ledger := stock.NewPostgresLedger(database)

	var gateway notification.Gateway
	if cfg.SMTPHost != "" {
		gateway = notification.NewSMTPGateway(cfg)
	} else {
		gateway = notification.NewLogGateway()
	}
	gateway = notification.NewRateLimited(gateway, cfg.NotifyRate, cfg.NotifyBurst)

	svc := order.NewService(
		order.NewRepository(database),
		catalog.NewRepository(database),
		ledger,
		address.NewValidator(database),
		gateway,
		order.NewRecipients(database),
		reg,
	)

	handler := newServer(svc, ledger, reg)

	log.Printf("🚀 order service listening on :%s", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, handler))
}

type server struct {
	orders  order.Service
	ledger  stock.Ledger
	metrics *metrics.Registry
}

func newServer(orders order.Service, ledger stock.Ledger, reg *metrics.Registry) http.Handler {
	s := &server{orders: orders, ledger: ledger, metrics: reg}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("POST /orders", s.handleCreateOrder)
	mux.HandleFunc("GET /orders", s.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", s.handleGetOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("GET /stock/low", s.handleLowStock)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return mux
}

// identity reads the caller identity that an upstream auth proxy injects.
func identity(r *http.Request) (userID int64, isAdmin bool, err error) {
	userID, err = strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil {
		return 0, false, errors.New("missing or invalid X-User-ID header")
	}
	return userID, r.Header.Get("X-Admin") == "true", nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var insufficient *stock.InsufficientStockError
	var variantNotFound *order.VariantNotFoundError
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrInvalidTransition):
		return http.StatusConflict
	case errors.As(err, &insufficient):
		return http.StatusConflict
	case errors.As(err, &variantNotFound),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrTooManyLines),
		errors.Is(err, order.ErrInvalidInput),
		errors.Is(err, order.ErrAddressInvalid),
		errors.Is(err, order.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var input order.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	input.OwnerID = userID

	o, err := s.orders.CreateOrder(r.Context(), input)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (s *server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	userID, isAdmin, err := identity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	o, err := s.orders.GetOrder(r.Context(), orderID, userID, isAdmin)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 32)

	orders, total, err := s.orders.ListOrders(r.Context(), userID, int32(limit), int32(offset))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
	})
}

func (s *server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, isAdmin, err := identity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	o, err := s.orders.UpdateStatus(r.Context(), orderID, order.Status(body.Status), userID, isAdmin)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.Atoi(r.URL.Query().Get("threshold"))
	if err != nil {
		threshold = 5
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.ledger.ListBelowThreshold(r.Context(), threshold, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

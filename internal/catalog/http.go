package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductCatalog/pkg/kit"
)

const (
	statusRetrieved   = "Product Details retrieved"
	statusAdded       = "New Product added to Product Catalog"
	statusReadFailed  = "Could not retrieve information"
	statusWriteFailed = "Could not save information"
	statusInvalidArg  = "Invalid Argument"

	healthy = "healthy"

	maxPutBody = 1 << 20
)

type Server struct {
	Service *Service
	Log     *zap.Logger
}

type putReq struct {
	Name *string `json:"name"`
}

type productResp struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

type listResp struct {
	Products map[int64]string `json:"products"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Service.Store.Ping(ctx); err != nil {
			s.log().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/swagger.json", s.apiDoc)

	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", s.list)
		pr.Get("/ping", s.ping)
		pr.Get("/{id}", s.get)
		pr.Post("/{id}", s.put)
	})

	return r
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) ping(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, healthy)
}

func (s *Server) apiDoc(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, APIDocument())
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Service.ListProducts(r.Context())
	if err != nil {
		s.writeFailure(w, r, statusReadFailed, err)
		return
	}
	s.log().Debug("list products", zap.Int("count", len(products)))
	kit.WriteJSON(w, http.StatusOK, listResp{Products: products})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, r, statusReadFailed, err)
		return
	}

	name, err := s.Service.GetProduct(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, statusReadFailed, err, zap.Int64("id", id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, productResp{Status: statusRetrieved, Name: name})
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, r, statusWriteFailed, err)
		return
	}

	req, err := decodePutRequest(w, r)
	if err != nil {
		s.writeFailure(w, r, statusWriteFailed, err, zap.Int64("id", id))
		return
	}

	name, err := s.Service.PutProduct(r.Context(), id, *req.Name)
	if err != nil {
		s.writeFailure(w, r, statusWriteFailed, err, zap.Int64("id", id))
		return
	}
	s.log().Info("product saved", zap.Int64("id", id), zap.String("name", name))
	kit.WriteJSON(w, http.StatusOK, productResp{Status: statusAdded, Name: name})
}

// writeFailure maps a service error to its HTTP code. status is the route's
// failure text, replaced by statusInvalidArg for client errors.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, status string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrMalformedRequest):
		code = http.StatusBadRequest
		status = statusInvalidArg
		s.log().Info("rejected request", fields...)
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
		s.log().Info("product not found", fields...)
	case errors.Is(err, ErrStoreUnavailable):
		code = http.StatusServiceUnavailable
		s.log().Error("store unavailable", fields...)
	default:
		s.log().Error("request failed", fields...)
	}

	kit.WriteError(w, r, code, status, err.Error())
}

// parseID accepts plain decimal digits only; signs and spaces are rejected.
func parseID(raw string) (int64, error) {
	if !allDigits(raw) {
		return 0, fmt.Errorf("%w: id %q is not a non-negative integer", ErrMalformedRequest, raw)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not a non-negative integer", ErrMalformedRequest, raw)
	}
	return id, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func decodePutRequest(w http.ResponseWriter, r *http.Request) (putReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPutBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)

	var req putReq
	if err := dec.Decode(&req); err != nil {
		return putReq{}, fmt.Errorf("%w: bad json: %v", ErrMalformedRequest, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return putReq{}, fmt.Errorf("%w: extra data after json object", ErrMalformedRequest)
	}
	if req.Name == nil {
		return putReq{}, fmt.Errorf("%w: name is required", ErrMalformedRequest)
	}

	return req, nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/internal/ratio"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/redis"
)

// maxBodyBytes bounds POST /ratio bodies
const maxBodyBytes = 1 << 20

// RatioService computes the ratio response of a company
type RatioService interface {
	CalculateFinancialRatios(ctx context.Context, companyName string, year *int) (*contracts.MetricsResponse, error)
}

// CompanyLister lists stored companies
type CompanyLister interface {
	ListCompanies(ctx context.Context) ([]contracts.Company, error)
}

// RatioRequest is the body of POST /ratio
type RatioRequest struct {
	CompanyName string `json:"company_name" validate:"required,max=100"`
	Year        *int   `json:"year,omitempty" validate:"omitempty,min=1990,max=2100"`
}

// RatioHandler handles financial ratio API endpoints
// ⭐ SSOT: 재무비율 API 핸들러는 이 구조체에서만
type RatioHandler struct {
	service   RatioService
	companies CompanyLister
	cache     *redis.Cache
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewRatioHandler creates a new ratio handler. cache may be nil.
func NewRatioHandler(service RatioService, companies CompanyLister, cache *redis.Cache, log *logger.Logger) *RatioHandler {
	v := validator.New()
	// 에러 메시지에 JSON 필드명 사용
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &RatioHandler{
		service:   service,
		companies: companies,
		cache:     cache,
		validate:  v,
		logger:    log.Module("api"),
	}
}

// Calculate returns ratios for the company in the request body
// POST /ratio {"company_name": "삼성전자", "year": 2023}
func (h *RatioHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req RatioRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respondRatios(w, r, req)
}

// GetByCompany returns ratios for the company in the path
// GET /ratio/{company}?year=2023
func (h *RatioHandler) GetByCompany(w http.ResponseWriter, r *http.Request) {
	req := RatioRequest{CompanyName: mux.Vars(r)["company"]}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "year must be a number")
			return
		}
		req.Year = &year
	}

	h.respondRatios(w, r, req)
}

func (h *RatioHandler) respondRatios(w http.ResponseWriter, r *http.Request, req RatioRequest) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	resp, err := h.service.CalculateFinancialRatios(r.Context(), req.CompanyName, req.Year)
	if err != nil {
		if errors.Is(err, ratio.ErrNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.WithError(err).WithField("company", req.CompanyName).Error("Failed to calculate financial ratios")
		respondError(w, http.StatusInternalServerError, "failed to calculate financial ratios")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ListCompanies returns stored companies
// GET /ratio/companies
func (h *RatioHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	load := func() (interface{}, error) {
		return h.companies.ListCompanies(ctx)
	}

	var companies []contracts.Company
	var err error
	if h.cache != nil {
		err = h.cache.GetOrSet(ctx, redis.CompaniesKey(), &companies, redis.TTLShort, load)
	} else {
		var v interface{}
		if v, err = load(); err == nil {
			companies = v.([]contracts.Company)
		}
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to list companies")
		respondError(w, http.StatusInternalServerError, "failed to list companies")
		return
	}

	if companies == nil {
		companies = []contracts.Company{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(companies),
		"companies": companies,
	})
}

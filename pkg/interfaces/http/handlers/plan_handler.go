package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/infrastructure/cache"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
	"github.com/vsinha/sourcing/pkg/interfaces/cli/output"
)

// Response headers of a plan run
const (
	HeaderPlanID          = "X-Plan-ID"
	HeaderPlanFingerprint = "X-Plan-Fingerprint"
	HeaderPlanCache       = "X-Plan-Cache"
)

// Multipart file fields, one per input table
var uploadFields = []struct {
	field string
	table string
}{
	{"demand", sheet.DemandTable},
	{"materials", sheet.MaterialTable},
	{"clients", sheet.ClientTable},
	{"capacity", sheet.CapacityTable},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// PlanRunner computes memoized plans
type PlanRunner interface {
	Plan(ctx context.Context, in planning.Input, params planning.Params) (*cache.Result, error)
}

// PlanHandler handles plan API endpoints
type PlanHandler struct {
	runner    PlanRunner
	defaults  planning.Params
	maxUpload int64
	logger    ectologger.Logger
}

// NewPlanHandler creates a new plan handler. defaults are the run parameters
// used for every field a request leaves empty.
func NewPlanHandler(runner PlanRunner, defaults planning.Params, maxUpload int64, logger ectologger.Logger) *PlanHandler {
	return &PlanHandler{
		runner:    runner,
		defaults:  defaults,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// CreatePlanRequest holds the form fields sent alongside the four tables
type CreatePlanRequest struct {
	TransportPrice   string `form:"transport_price" validate:"omitempty,numeric"`
	PriceSource      string `form:"price_source" validate:"omitempty,oneof=fixed client"`
	DefaultThreshold string `form:"default_threshold" validate:"omitempty,numeric"`
	Thresholds       string `form:"thresholds" validate:"omitempty,json"`
	PrimaryCenter    string `form:"primary_center"`
	OrderClass       string `form:"order_class" validate:"omitempty,max=16"`
	Format           string `form:"format" validate:"omitempty,oneof=json csv xlsx"`
}

// Register registers plan routes
func (h *PlanHandler) Register(g *echo.Group) {
	g.POST("", h.Create)
}

// Create runs a plan over an uploaded scenario
func (h *PlanHandler) Create(c echo.Context) error {
	req := c.Request()
	if req.ContentLength > h.maxUpload {
		return httperror.NewHTTPErrorf(http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", h.maxUpload)
	}
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxUpload)

	if _, err := c.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperror.NewHTTPErrorf(http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", h.maxUpload)
		}
		return BadRequest("expected a multipart form upload")
	}

	var body CreatePlanRequest
	if err := c.Bind(&body); err != nil {
		return BadRequest("invalid form fields")
	}
	if err := validate.Struct(body); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid form fields: %v", err)
	}

	params, err := h.params(body)
	if err != nil {
		return err
	}

	in, err := h.readInput(c)
	if err != nil {
		return err
	}

	planID := uuid.New().String()
	ctx := req.Context()
	log := h.logger.WithContext(ctx).WithField("plan_id", planID)

	res, err := h.runner.Plan(ctx, in, params)
	if err != nil {
		return err
	}

	log.WithFields(map[string]any{
		"fingerprint": res.Fingerprint,
		"cache_hit":   res.Hit,
		"orders":      len(res.Plan.Orders),
	}).Info("Plan computed")

	header := c.Response().Header()
	header.Set(HeaderPlanID, planID)
	header.Set(HeaderPlanFingerprint, res.Fingerprint)
	header.Set(HeaderPlanCache, cacheStatus(res.Hit))

	switch body.Format {
	case output.FormatCSV:
		var buf bytes.Buffer
		if err := output.WriteCSV(&buf, res.Plan); err != nil {
			return fmt.Errorf("failed to encode csv proposal: %w", err)
		}
		return attachment(c, "text/csv; charset=utf-8", output.FormatCSV, buf.Bytes())
	case output.FormatXLSX:
		var buf bytes.Buffer
		if err := output.WriteXLSX(&buf, res.Plan); err != nil {
			return fmt.Errorf("failed to encode xlsx proposal: %w", err)
		}
		return attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", output.FormatXLSX, buf.Bytes())
	default:
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, res.Body)
	}
}

// params overlays the request fields on the handler defaults
func (h *PlanHandler) params(body CreatePlanRequest) (planning.Params, error) {
	params := h.defaults

	if body.TransportPrice != "" {
		price, err := decimal.NewFromString(body.TransportPrice)
		if err != nil {
			return params, BadRequest("transport_price must be a number")
		}
		params.PricePerDistance = price
	}
	if body.PriceSource != "" {
		params.PriceSource = body.PriceSource
	}
	if body.DefaultThreshold != "" {
		threshold, err := decimal.NewFromString(body.DefaultThreshold)
		if err != nil {
			return params, BadRequest("default_threshold must be a number")
		}
		params.DefaultThreshold = threshold
	}
	if body.Thresholds != "" {
		var weeks map[string]decimal.Decimal
		if err := json.Unmarshal([]byte(body.Thresholds), &weeks); err != nil {
			return params, BadRequest("thresholds must map week labels to numbers")
		}
		params.Thresholds = weeks
	}
	if body.PrimaryCenter != "" {
		params.Centers.PrimaryPattern = strings.TrimSpace(body.PrimaryCenter)
	}
	if body.OrderClass != "" {
		params.OrderClass = body.OrderClass
	}
	return params, nil
}

func (h *PlanHandler) readInput(c echo.Context) (planning.Input, error) {
	tables := make(map[string]*sheet.Table, len(uploadFields))
	for _, u := range uploadFields {
		fh, err := c.FormFile(u.field)
		if err != nil {
			return planning.Input{}, httperror.NewHTTPErrorf(http.StatusBadRequest, "missing %s file", u.field)
		}
		format, err := sheet.FormatFromName(fh.Filename)
		if err != nil {
			return planning.Input{}, httperror.NewHTTPErrorf(http.StatusBadRequest, "%s: %v", u.field, err)
		}

		file, err := fh.Open()
		if err != nil {
			return planning.Input{}, fmt.Errorf("failed to open uploaded %s file: %w", u.field, err)
		}
		table, err := sheet.Read(u.table, file, format)
		file.Close()
		if err != nil {
			return planning.Input{}, err
		}
		tables[u.table] = table
	}

	return planning.Input{
		Demand:    tables[sheet.DemandTable],
		Materials: tables[sheet.MaterialTable],
		Clients:   tables[sheet.ClientTable],
		Capacity:  tables[sheet.CapacityTable],
	}, nil
}

func attachment(c echo.Context, contentType, ext string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", output.BaseName+"."+ext))
	return c.Blob(http.StatusOK, contentType, data)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

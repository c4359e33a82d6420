package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/bmi/internal/app"
	"github.com/okian/bmi/internal/domain/model"
	"github.com/okian/bmi/pkg/logger"
	"github.com/okian/bmi/pkg/metrics"
)

// Calculator computes a BMI response for a decoded request.
type Calculator interface {
	Calculate(ctx context.Context, req model.Request) (model.Response, error)
}

// malformedPrefix starts every 400 body produced by a decode failure.
const malformedPrefix = "Malformed request body: "

var (
	errMissingWeight = errors.New("missing field weight_kg")
	errMissingHeight = errors.New("missing field height_m")
	errTrailingData  = errors.New("unexpected data after JSON object")
)

// Field names of the POST /api/calculate body. They are matched exactly;
// keys differing only in case count as unknown and are ignored.
const (
	fieldWeightKg = "weight_kg"
	fieldHeightM  = "height_m"
)

// decodeCalculateRequest reads exactly one JSON object from body.
func decodeCalculateRequest(body io.Reader) (model.Request, error) {
	dec := json.NewDecoder(body)

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return model.Request{}, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Request{}, err
		}
		return model.Request{}, errTrailingData
	}

	weight, err := requiredNumber(fields, fieldWeightKg, errMissingWeight)
	if err != nil {
		return model.Request{}, err
	}
	height, err := requiredNumber(fields, fieldHeightM, errMissingHeight)
	if err != nil {
		return model.Request{}, err
	}
	return model.Request{WeightKg: weight, HeightM: height}, nil
}

// requiredNumber decodes fields[name] as a number. An absent or null value
// returns missing.
func requiredNumber(fields map[string]json.RawMessage, name string, missing error) (float64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, missing
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	if v == nil {
		return 0, missing
	}
	return *v, nil
}

// CalculateHandler handles BMI calculation requests.
type CalculateHandler struct {
	calc         Calculator
	log          logger.Logger
	maxBodyBytes int64
}

// NewCalculateHandler creates a new calculate handler.
func NewCalculateHandler(calc Calculator, log logger.Logger, maxBodyBytes int64) *CalculateHandler {
	return &CalculateHandler{calc: calc, log: log, maxBodyBytes: maxBodyBytes}
}

// HandleCalculate handles POST /api/calculate requests.
func (h *CalculateHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate"
	ctx := r.Context()

	req, err := decodeCalculateRequest(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		metrics.RecordMalformedRequest()
		h.log.Warn(ctx, "rejecting request body",
			logger.Error(WrapKind(op, ErrMalformedInput, err)),
			logger.String("request_id", RequestID(ctx)),
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeText(w, http.StatusRequestEntityTooLarge, malformedPrefix+err.Error())
			return
		}
		writeText(w, http.StatusBadRequest, malformedPrefix+err.Error())
		return
	}

	resp, err := h.calc.Calculate(ctx, req)
	switch {
	case errors.Is(err, service.ErrValidation):
		writeText(w, http.StatusBadRequest, service.ValidationMessage)
	case err != nil:
		h.log.Error(ctx, "calculation failed",
			logger.Error(WrapKind(op, ErrServe, err)),
			logger.String("request_id", RequestID(ctx)),
		)
		writeText(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

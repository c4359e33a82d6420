package testrequests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	service "github.com/okian/bmi/internal/app"
	"github.com/okian/bmi/internal/domain/bmi"
)

// malformedPrefix starts the body of every decode failure.
const malformedPrefix = "Malformed request body: "

// calculateResponse is the success body of POST /api/calculate.
type calculateResponse struct {
	BMI      *float64 `json:"bmi"`
	Category *string  `json:"category"`
}

// Verify checks one outcome against the local calculator and classifier.
// It returns nil when the service answered exactly as expected.
func Verify(o Outcome) error {
	if o.Err != nil {
		return fmt.Errorf("case %d: %w", o.Case.ID, o.Err)
	}
	if o.EchoedID != o.SentID {
		return mismatch(o, "request id %q was not echoed (got %q)", o.SentID, o.EchoedID)
	}

	switch o.Case.Kind {
	case KindValid:
		return verifyValid(o)
	case KindInvalid:
		if o.StatusCode != http.StatusBadRequest {
			return mismatch(o, "status %d, want 400", o.StatusCode)
		}
		if string(o.Body) != service.ValidationMessage {
			return mismatch(o, "body %q, want %q", o.Body, service.ValidationMessage)
		}
	case KindMalformed:
		if o.StatusCode != http.StatusBadRequest {
			return mismatch(o, "status %d, want 400", o.StatusCode)
		}
		if !strings.HasPrefix(string(o.Body), malformedPrefix) {
			return mismatch(o, "body %q does not start with %q", o.Body, malformedPrefix)
		}
	default:
		return mismatch(o, "unknown case kind %q", o.Case.Kind)
	}
	return nil
}

func verifyValid(o Outcome) error {
	if o.StatusCode != http.StatusOK {
		return mismatch(o, "status %d, want 200 (body %q)", o.StatusCode, o.Body)
	}

	dec := json.NewDecoder(bytes.NewReader(o.Body))
	dec.DisallowUnknownFields()
	var resp calculateResponse
	if err := dec.Decode(&resp); err != nil {
		return mismatch(o, "undecodable body %q: %v", o.Body, err)
	}
	if resp.BMI == nil || resp.Category == nil {
		return mismatch(o, "incomplete body %q", o.Body)
	}

	wantBMI := bmi.Calculate(o.Case.WeightKg, o.Case.HeightM)
	wantCategory := bmi.Classify(wantBMI)
	if *resp.BMI != wantBMI {
		return mismatch(o, "bmi %v, want %v", *resp.BMI, wantBMI)
	}
	if *resp.Category != wantCategory.String() {
		return mismatch(o, "category %q, want %q", *resp.Category, wantCategory)
	}
	return nil
}

func mismatch(o Outcome, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: case %d (%s/%s): %s", ErrMismatch, o.Case.ID, o.Case.Kind, o.Case.Profile, detail)
}

// summarize verifies every outcome and fills stats. It returns the
// mismatch errors in case order.
func summarize(outcomes []Outcome, stats *Stats) []error {
	stats.Submitted = len(outcomes)
	stats.ByKind = make(map[Kind]int)
	stats.ByCategory = make(map[bmi.Category]int)

	var mismatches []error
	latencies := make([]time.Duration, 0, len(outcomes))
	for _, o := range outcomes {
		stats.ByKind[o.Case.Kind]++
		if o.Err != nil {
			stats.TransportErrors++
			mismatches = append(mismatches, Verify(o))
			continue
		}
		latencies = append(latencies, o.Latency)

		if err := Verify(o); err != nil {
			stats.Mismatched++
			mismatches = append(mismatches, err)
			continue
		}
		stats.Matched++
		if o.Case.Kind == KindValid {
			stats.ByCategory[bmi.Classify(bmi.Calculate(o.Case.WeightKg, o.Case.HeightM))]++
		}
	}

	slices.Sort(latencies)
	stats.LatencyP50 = percentile(latencies, p50)
	stats.LatencyP95 = percentile(latencies, p95)
	if len(latencies) > 0 {
		stats.LatencyMax = latencies[len(latencies)-1]
	}
	return mismatches
}

// percentile returns the nearest-rank percentile of sorted.
func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q*float64(len(sorted)) + 0.5)
	if idx < 1 {
		idx = 1
	}
	if idx > len(sorted) {
		idx = len(sorted)
	}
	return sorted[idx-1]
}

package testrequests

import "time"

// Endpoint paths.
const (
	pathHealth    = "/healthz"
	pathCalculate = "/api/calculate"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
)

// Report constants.
const (
	percentageMultiplier = 100
	maxLoggedMismatches  = 10
	p50                  = 0.50
	p95                  = 0.95
)

package monitoring

import "errors"

var (
	ErrUnknownMetric   = errors.New("unknown trend metric")
	errDashboardFailed = errors.New("failed to assemble monitoring dashboard")
)

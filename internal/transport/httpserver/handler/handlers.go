package handler

import (
	analyticsdomain "contribution-tracker-go/internal/domain/analytics"
	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	transferdomain "contribution-tracker-go/internal/domain/transfer"
	"contribution-tracker-go/internal/transport/httpserver/handler/common"
	"contribution-tracker-go/internal/transport/httpserver/handler/stats"
	"contribution-tracker-go/internal/transport/httpserver/handler/tracker"
	"contribution-tracker-go/internal/transport/httpserver/handler/transfer"
	"contribution-tracker-go/pkg/logger"
)

type Handlers struct {
	Common   *common.Handlers
	Tracker  *tracker.Handlers
	Stats    *stats.Handlers
	Transfer *transfer.Handlers
}

func New(trackerService *trackerdomain.Service, analyticsService *analyticsdomain.Service, transferService *transferdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Common:   common.New(log),
		Tracker:  tracker.New(trackerService, log),
		Stats:    stats.New(analyticsService, log),
		Transfer: transfer.New(transferService, log),
	}
}

package tracker

import (
	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"contribution-tracker-go/pkg/logger"
)

type Handlers struct {
	Tracker *trackerdomain.Service
	log     logger.Logger
}

func New(tracker *trackerdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Tracker: tracker,
		log:     log,
	}
}

package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"contribution-tracker-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

type fakeSource struct {
	snapshot *trackerdomain.Snapshot
	err      error
}

func (f fakeSource) Snapshot(context.Context) (*trackerdomain.Snapshot, error) {
	return f.snapshot, f.err
}

func TestStoreCollectorReportsCounts(t *testing.T) {
	source := fakeSource{snapshot: &trackerdomain.Snapshot{
		Groups: []trackerdomain.Group{{ID: 1, IsActive: true}, {ID: 2}},
		Participants: []trackerdomain.Participant{
			{ID: 1, Status: trackerdomain.StatusActive},
			{ID: 2, Status: trackerdomain.StatusInactive},
			{ID: 3, Status: trackerdomain.StatusActive},
		},
		Contributions: []trackerdomain.Contribution{
			{ID: 1, Amount: decimal.RequireFromString("10.5")},
			{ID: 2, Amount: decimal.NewFromInt(4)},
		},
	}}

	reg := prometheus.NewRegistry()
	reg.MustRegister(NewStoreCollector(source, logger.Nop()))

	expected := `
# HELP tracker_contributions_lifetime_total Sum of all contribution amounts.
# TYPE tracker_contributions_lifetime_total gauge
tracker_contributions_lifetime_total 14.5
# HELP tracker_store_active Active groups and participants.
# TYPE tracker_store_active gauge
tracker_store_active{entity="groups"} 1
tracker_store_active{entity="participants"} 2
# HELP tracker_store_rows Rows stored per entity.
# TYPE tracker_store_rows gauge
tracker_store_rows{entity="contributions"} 2
tracker_store_rows{entity="groups"} 2
tracker_store_rows{entity="participants"} 3
# HELP tracker_store_up Whether the last snapshot load succeeded.
# TYPE tracker_store_up gauge
tracker_store_up 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected)); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestStoreCollectorReportsDown(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewStoreCollector(fakeSource{err: errors.New("closed")}, logger.Nop()))

	expected := `
# HELP tracker_store_up Whether the last snapshot load succeeded.
# TYPE tracker_store_up gauge
tracker_store_up 0
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "tracker_store_up"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

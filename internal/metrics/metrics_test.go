package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/transactions/send", "200", 0.1)
	RecordHTTPRequest("POST", "/transactions/send", "200", 0.2)
	RecordHTTPRequest("POST", "/transactions/send", "400", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/transactions/send", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/transactions/send", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordTopUp(t *testing.T) {
	before := testutil.ToFloat64(TopUpsTotal)
	RecordTopUp()
	assert.Equal(t, before+1, testutil.ToFloat64(TopUpsTotal))
}

func TestRecordTransfer(t *testing.T) {
	TransfersTotal.Reset()

	RecordTransfer(StatusOK)
	RecordTransfer(StatusOK)
	RecordTransfer(StatusRejected)

	assert.Equal(t, float64(2), testutil.ToFloat64(TransfersTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(TransfersTotal.WithLabelValues(StatusRejected)))
}

func TestRecordReversal(t *testing.T) {
	ReversalsTotal.Reset()
	before := testutil.ToFloat64(NegativeBalanceReversalsTotal)

	RecordReversal(StatusOK)
	RecordNegativeBalanceReversal()

	assert.Equal(t, float64(1), testutil.ToFloat64(ReversalsTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, before+1, testutil.ToFloat64(NegativeBalanceReversalsTotal))
}

func TestRecordReservationOp(t *testing.T) {
	ReservationOpsTotal.Reset()

	RecordReservationOp("create", StatusOK)
	RecordReservationOp("update", StatusConflict)

	assert.Equal(t, float64(1), testutil.ToFloat64(ReservationOpsTotal.WithLabelValues("create", StatusOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(ReservationOpsTotal.WithLabelValues("update", StatusConflict)))
	assert.Equal(t, float64(0), testutil.ToFloat64(ReservationOpsTotal.WithLabelValues("delete", StatusOK)))
}

func TestRecordUnitConflict(t *testing.T) {
	before := testutil.ToFloat64(UnitConflictsTotal)
	RecordUnitConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(UnitConflictsTotal))
}

func TestEmailMetrics(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("transfer_receipt", "sent")
	SetEmailQueueLength(4)

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("transfer_receipt", "sent")))
	assert.Equal(t, float64(4), testutil.ToFloat64(EmailQueueLength))
}

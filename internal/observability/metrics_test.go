package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/grievances", "POST", "201"))
	RecordRequest("/grievances", "POST", 201, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/grievances", "POST", "201"))
	assert.Equal(t, before+1, after)
}

func TestRecordError(t *testing.T) {
	before := testutil.ToFloat64(HTTPErrorsTotal.WithLabelValues("/grievances", "POST", "VALIDATION_FAILED"))
	RecordError("/grievances", "POST", "VALIDATION_FAILED")
	after := testutil.ToFloat64(HTTPErrorsTotal.WithLabelValues("/grievances", "POST", "VALIDATION_FAILED"))
	assert.Equal(t, before+1, after)
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(workflowTransitionsTotal.WithLabelValues("article", "pending", "published"))

	RecordTransition("article", "pending", "published")

	after := testutil.ToFloat64(workflowTransitionsTotal.WithLabelValues("article", "pending", "published"))
	assert.Equal(t, before+1, after)
}

func TestRecordEmail(t *testing.T) {
	before := testutil.ToFloat64(emailsTotal.WithLabelValues("sent"))

	RecordEmailSent(150 * time.Millisecond)
	RecordEmail("failed")

	assert.Equal(t, before+1, testutil.ToFloat64(emailsTotal.WithLabelValues("sent")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(emailsTotal.WithLabelValues("failed")), 1.0)
}

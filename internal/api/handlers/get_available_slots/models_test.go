package get_available_slots

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUseCaseRequest(t *testing.T) {
	query := url.Values{
		"date":       {"2026-03-10"},
		"size":       {"medium"},
		"placement":  {"arm"},
		"complexity": {"4"},
		"step":       {"15"},
	}

	req, err := ToUseCaseRequest(5, query)
	require.NoError(t, err)

	assert.Equal(t, int64(5), req.ResourceID)
	assert.Equal(t, "2026-03-10", req.Date.Format("2006-01-02"))
	assert.Equal(t, 4, req.ComplexityLevel)
	assert.Equal(t, 15, req.StepMinutes)
	assert.Zero(t, req.DurationMinutes)
}

func TestToUseCaseRequest_Invalid(t *testing.T) {
	_, err := ToUseCaseRequest(5, url.Values{"date": {"10.03.2026"}})
	assert.Error(t, err)

	_, err = ToUseCaseRequest(5, url.Values{"date": {"2026-03-10"}, "durationMinutes": {"two"}})
	assert.Error(t, err)
}

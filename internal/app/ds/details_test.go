package ds

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDetailsTypedVariants(t *testing.T) {
	raw := JSONB(`{"origin":"Aberdeen","destination":"Platform Delta-7","cargo_type":"drilling mud","quantity":10}`)

	d, err := DecodeDetails(ServiceTypeSupply, raw)
	require.NoError(t, err)
	require.NotNil(t, d.Supply)
	assert.Nil(t, d.Drilling)
	assert.Nil(t, d.Generic)

	assert.Equal(t, "Aberdeen", d.Supply.Origin)
	assert.Equal(t, "Platform Delta-7", d.Supply.Destination)
	assert.Equal(t, 10, d.Supply.Quantity)

	drill, err := DecodeDetails(ServiceTypeDrilling, JSONB(`{"well_depth":"3200m","rig_type":"jack-up"}`))
	require.NoError(t, err)
	require.NotNil(t, drill.Drilling)
	assert.Equal(t, "3200m", drill.Drilling.WellDepth)
}

func TestDecodeDetailsGenericFallback(t *testing.T) {
	d, err := DecodeDetails(ServiceTypeOther, JSONB(`{"scope":"diving inspection","depth":45}`))
	require.NoError(t, err)
	require.NotNil(t, d.Generic)

	// Нестроковые значения сериализуются обратно в JSON
	assert.Equal(t, "diving inspection", d.Generic["scope"])
	assert.Equal(t, "45", d.Generic["depth"])
}

func TestDecodeDetailsEmpty(t *testing.T) {
	d, err := DecodeDetails(ServiceTypeSupply, nil)
	require.NoError(t, err)
	assert.Nil(t, d.Supply)
	assert.Nil(t, d.Generic)
}

func TestDecodeDetailsInvalidJSON(t *testing.T) {
	_, err := DecodeDetails(ServiceTypeSupply, JSONB(`{broken`))
	assert.Error(t, err)
}

func TestPlaceholderMetadata(t *testing.T) {
	m := PlaceholderMetadata(ServiceTypeSupply)
	assert.Equal(t, "Waiting for details", m["origin"])
	assert.Equal(t, "Waiting for details", m["destination"])
	assert.Equal(t, "Pending Assignment", m["vessel"])

	assert.Empty(t, PlaceholderMetadata(ServiceTypeOther))
}

func TestGenerateTrackingCode(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^IRS-\d{4}-WX-2026$`)

	for i := 0; i < 20; i++ {
		code := GenerateTrackingCode(now)
		assert.Regexp(t, re, code)
	}
}

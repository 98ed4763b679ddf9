package contract

import (
	"testing"
	"time"

	"irs-backend/internal/app/config"
	"irs-backend/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompany() config.CompanyConfig {
	return config.CompanyConfig{
		Name:    "IRS Offshore Services",
		Address: "14 Harbour Road, Aberdeen",
		Email:   "contracts@example.com",
	}
}

func TestRenderContract(t *testing.T) {
	g := NewGenerator(testCompany())

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	project := &ds.Project{
		Name:          "Supply service for North Sea Ventures",
		TrackingCode:  "IRS-0042-WX-2026",
		ServiceType:   ds.ServiceTypeSupply,
		Location:      "North Sea",
		Vessel:        "MV Aberdeen Runner",
		ContractValue: 50000,
		StartDate:     &start,
		EndDate:       &end,
	}
	client := &ds.User{
		FullName: "Erin Walsh",
		Email:    "erin@nsventures.example",
		Company:  "North Sea Ventures",
	}
	milestones := []ds.Milestone{
		{Name: "Cargo manifesting and loading", DueDate: &due},
		{Name: "Transit to destination"},
	}

	html, err := g.Render(project, client, milestones, "Weather standby billed separately.")
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "SERVICE CONTRACT")
	assert.Contains(t, s, "IRS Offshore Services")
	assert.Contains(t, s, "Erin Walsh")
	assert.Contains(t, s, "North Sea Ventures")
	assert.Contains(t, s, "Supply service for North Sea Ventures")
	assert.Contains(t, s, "IRS-0042-WX-2026")
	assert.Contains(t, s, "USD 50000.00")
	assert.Contains(t, s, "2026-01-10")
	assert.Contains(t, s, "2026-04-01")
	assert.Contains(t, s, "Cargo manifesting and loading")
	assert.Contains(t, s, "2026-02-01")
	assert.Contains(t, s, "Weather standby billed separately.")
}

func TestRenderContractMissingDates(t *testing.T) {
	g := NewGenerator(testCompany())

	project := &ds.Project{Name: "Survey project", ServiceType: ds.ServiceTypeSurvey}
	client := &ds.User{FullName: "Client"}

	html, err := g.Render(project, client, nil, "")
	require.NoError(t, err)

	s := string(html)
	// Отсутствующие даты выводятся как TBD, блоки этапов и условий опущены
	assert.Contains(t, s, "TBD")
	assert.NotContains(t, s, "Delivery milestones")
	assert.NotContains(t, s, "Additional terms")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Service Contract - Alpha", Title("Alpha"))
}

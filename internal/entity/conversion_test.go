package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/maria-crm/internal/entity"
)

func ptr[T any](v T) *T { return &v }

func TestContactFromLeadCopiesFields(t *testing.T) {
	lead := &entity.Lead{
		ID:       7,
		FullName: "A B",
		Phone:    "09120000000",
		Email:    ptr("a@b.com"),
		Budget:   ptr(500.0),
		Interest: ptr("villa"),
		OwnerID:  3,
	}

	c := entity.ContactFromLead(lead)

	assert.Equal(t, "A B", c.FullName)
	assert.Equal(t, "09120000000", c.Phone)
	assert.Equal(t, "a@b.com", *c.Email)
	assert.Equal(t, entity.ContactTypeLeadConverted, c.Type)
	assert.Equal(t, entity.ContactStatusActive, c.Status)
	assert.Equal(t, 500.0, *c.Budget)
	assert.Equal(t, "villa", *c.Interest)
	assert.Equal(t, int64(3), c.OwnerID)
	require.NotNil(t, c.LeadID)
	assert.Equal(t, int64(7), *c.LeadID)
}

func TestDealFromLead(t *testing.T) {
	lead := &entity.Lead{ID: 7, FullName: "A B", Budget: ptr(500.0), OwnerID: 3}

	d := entity.DealFromLead(lead, 11, 10)

	assert.Equal(t, "Opportunity - A B", d.Title)
	assert.Equal(t, int64(11), d.ContactID)
	assert.Equal(t, 500.0, d.Amount)
	assert.Equal(t, entity.DealStatusOpen, d.Status)
	require.NotNil(t, d.StageID)
	assert.Equal(t, int64(10), *d.StageID)
	assert.Equal(t, int64(3), d.OwnerID)
	assert.Nil(t, d.ExpectedCloseAt)
}

func TestDealFromLeadWithoutBudgetHasZeroAmount(t *testing.T) {
	d := entity.DealFromLead(&entity.Lead{FullName: "X"}, 1, 1)

	assert.Equal(t, 0.0, d.Amount)
}

func TestNewLeadDefaults(t *testing.T) {
	lead, err := entity.NewLead("  Jane Roe ", "0912", ptr(" Jane@Example.COM "), "", "", 4)

	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", lead.FullName)
	assert.Equal(t, "jane@example.com", *lead.Email)
	assert.Equal(t, "manual", lead.Source)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.Equal(t, int64(4), lead.OwnerID)
}

func TestNewLeadRejectsConvertedStatus(t *testing.T) {
	_, err := entity.NewLead("Jane", "0912", nil, "", entity.LeadStatusConverted, 1)

	assert.Error(t, err)
}

func TestNewContactDefaults(t *testing.T) {
	c, err := entity.NewContact("Jane", "0912", ptr(""), "", "", 2)

	require.NoError(t, err)
	assert.Nil(t, c.Email)
	assert.Equal(t, entity.ContactTypeBuyer, c.Type)
	assert.Equal(t, entity.ContactStatusActive, c.Status)
}

func TestProjectValidate(t *testing.T) {
	p := &entity.Project{Name: "Tower", TotalUnits: 10, AvailableUnits: 12}

	assert.Error(t, p.Validate())

	p.AvailableUnits = 4
	assert.NoError(t, p.Validate())
}

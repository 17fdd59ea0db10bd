package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `No.,Company,Valuation ($B),Entry Valuation^^ ($B),Entry,Location,Sector,Select Investors
1,Flipkart,37.6,1,2012,Bangalore,E-commerce - Marketplace,"Tiger Global, Accel, SoftBank"
2,BYJU'S,22,1,2017,Bangalore,Edtech,"Sequoia, General Atlantic"
3,Razorpay,7.5,,2020,Bangalore/Delhi,Fintech - Payments,"Tiger Global"
4,,1,1,2021,Pune,SaaS,"Accel"
`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3, "blank company rows are skipped")

	flipkart := rows[0]
	assert.Equal(t, "Flipkart", flipkart.Name)
	require.NotNil(t, flipkart.Rank)
	assert.Equal(t, 1, *flipkart.Rank)
	require.NotNil(t, flipkart.CurrentValuation)
	assert.Equal(t, 37.6, *flipkart.CurrentValuation)
	require.NotNil(t, flipkart.EntryValuation)
	assert.Equal(t, 1.0, *flipkart.EntryValuation)
	require.NotNil(t, flipkart.EntryDate)
	assert.Equal(t, "2012", *flipkart.EntryDate)
	require.NotNil(t, flipkart.Sector)
	assert.Equal(t, "E-commerce", *flipkart.Sector)
	require.NotNil(t, flipkart.SubSector)
	assert.Equal(t, "Marketplace", *flipkart.SubSector)
	assert.Equal(t, []string{"Bangalore"}, flipkart.Locations)
	assert.Equal(t, []string{"Tiger Global", "Accel", "SoftBank"}, flipkart.Investors)
}

func TestParseNullableAndMultiValueCells(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	byjus := rows[1]
	assert.Nil(t, byjus.SubSector, "sector without a dash has no subsector")
	require.NotNil(t, byjus.Sector)
	assert.Equal(t, "Edtech", *byjus.Sector)

	razorpay := rows[2]
	assert.Nil(t, razorpay.EntryValuation, "empty valuation cell stays absent")
	assert.Equal(t, []string{"Bangalore", "Delhi"}, razorpay.Locations)
}

func TestParseMissingCompanyColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("No.,Name\n1,Acme\n"))
	assert.Error(t, err)
}

func TestParseValuation(t *testing.T) {
	assert.Nil(t, parseValuation(""))
	assert.Nil(t, parseValuation("N/A"))

	v := parseValuation("$5.6")
	require.NotNil(t, v)
	assert.Equal(t, 5.6, *v)
}

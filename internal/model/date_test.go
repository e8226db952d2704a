package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d, err := ParseDate("1999-03-31")
	require.NoError(t, err)

	b, err := json.Marshal(struct {
		D *Date `json:"d"`
	}{&d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"1999-03-31"}`, string(b))

	var back struct {
		D *Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	require.NotNil(t, back.D)
	assert.True(t, back.D.Equal(d.Time))

	require.NoError(t, json.Unmarshal([]byte(`{"d":null}`), &back))
	assert.Nil(t, back.D)
	assert.Error(t, json.Unmarshal([]byte(`{"d":"31.03.1999"}`), &back))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-29", d.String())

	require.NoError(t, d.Scan("2023-01-02"))
	assert.Equal(t, "2023-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2023-01-03 00:00:00")))
	assert.Equal(t, "2023-01-03", d.String())

	assert.Error(t, d.Scan(42))
}

func TestSessionListing_Occupancy(t *testing.T) {
	s := SessionListing{HallSeats: 8, TicketCount: 2}
	assert.InDelta(t, 0.25, s.Occupancy(), 1e-9)
	s.HallSeats = 0
	assert.InDelta(t, 2.0, s.Occupancy(), 1e-9)
}

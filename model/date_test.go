package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.January, 1), d)
	assert.Equal(t, "2025-01-01", d.String())

	_, err = ParseDate("01/01/2025")
	assert.Error(t, err)
}

func TestDateOfUsesLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2025, time.March, 3, 23, 30, 0, 0, loc)
	assert.Equal(t, "2025-03-03", DateOf(late).String())
}

func TestDateScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{name: "string", src: "2025-01-02", want: "2025-01-02"},
		{name: "bytes", src: []byte("2025-01-03"), want: "2025-01-03"},
		{name: "timestamp string", src: "2025-01-04 00:00:00+00:00", want: "2025-01-04"},
		{name: "time", src: time.Date(2025, time.January, 5, 12, 0, 0, 0, time.UTC), want: "2025-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDateValue(t *testing.T) {
	v, err := NewDate(2024, time.February, 29).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", v)
}

func TestOrderTotalQuantity(t *testing.T) {
	o := Order{Items: []OrderItem{{Quantity: 2}, {Quantity: 5}}}
	assert.Equal(t, int64(7), o.TotalQuantity())
}

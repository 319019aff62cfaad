package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerValidate(t *testing.T) {
	valid := Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Address: "1 Analytical Way"}

	tests := []struct {
		name   string
		mutate func(*Customer)
		want   FieldErrors
	}{
		{
			name:   "valid",
			mutate: func(*Customer) {},
		},
		{
			name:   "missing first name",
			mutate: func(c *Customer) { c.FirstName = "" },
			want:   FieldErrors{"firstName": "First name is required"},
		},
		{
			name:   "missing last name",
			mutate: func(c *Customer) { c.LastName = "" },
			want:   FieldErrors{"lastName": "Last name is required"},
		},
		{
			name:   "missing email",
			mutate: func(c *Customer) { c.Email = "" },
			want:   FieldErrors{"email": "Email is required"},
		},
		{
			name:   "malformed email",
			mutate: func(c *Customer) { c.Email = "not-an-email" },
			want:   FieldErrors{"email": "Email must be a well-formed email address"},
		},
		{
			name:   "missing address",
			mutate: func(c *Customer) { c.Address = "" },
			want:   FieldErrors{"address": "Address is required"},
		},
		{
			name:   "address too long",
			mutate: func(c *Customer) { c.Address = strings.Repeat("x", 1001) },
			want:   FieldErrors{"address": "Must be at most 1000 characters"},
		},
		{
			name: "everything missing",
			mutate: func(c *Customer) {
				*c = Customer{}
			},
			want: FieldErrors{
				"firstName": "First name is required",
				"lastName":  "Last name is required",
				"email":     "Email is required",
				"address":   "Address is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Equal(t, tt.want, c.Validate())
		})
	}
}

func TestVegetableValidate(t *testing.T) {
	assert.Nil(t, Vegetable{Name: "Tomato"}.Validate())
	assert.Equal(t, FieldErrors{"name": "Vegetable name is required"}, Vegetable{}.Validate())
	assert.Equal(t, FieldErrors{"name": "Must be at most 100 characters"}, Vegetable{Name: strings.Repeat("a", 101)}.Validate())
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("email", "Email already exists")
	errs.Add("email", "ignored")
	errs.Add("address", "Address is required")

	require.Len(t, errs, 2)
	assert.Equal(t, "Email already exists", errs["email"])
	assert.Equal(t, "invalid fields: address: Address is required; email: Email already exists", errs.Error())
}

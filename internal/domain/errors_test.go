package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyChecksSurviveWrapping(t *testing.T) {
	cases := []struct {
		err   error
		check func(error) bool
	}{
		{Validationf("bad price"), IsValidation},
		{NotFound("product"), IsNotFound},
		{Preconditionf("insufficient stock"), IsPrecondition},
		{Integrityf("duplicate name"), IsIntegrity},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("add item: %w", tc.err)
		assert.True(t, tc.check(wrapped), wrapped.Error())
	}
}

func TestChecksAreDisjoint(t *testing.T) {
	err := Preconditionf("order not open")
	assert.False(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsIntegrity(err))
}

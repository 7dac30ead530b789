package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Limit int    `validate:"min=1,max=100"`
}

func TestValidateStructOK(t *testing.T) {
	t.Parallel()
	err := ValidateStruct(&sampleRequest{Name: "Ada", Email: "ada@example.com", Limit: 10})
	assert.NoError(t, err)
}

func TestValidateStructCollectsFieldErrors(t *testing.T) {
	t.Parallel()
	err := ValidateStruct(&sampleRequest{Limit: 500})
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Len(t, reqErr.Fields, 3)

	fields := map[string]string{}
	for _, f := range reqErr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be at most 100", fields["limit"])
}

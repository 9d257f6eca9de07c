package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campusdesk/internal/shared/errors"
)

type sampleRequest struct {
	Title    string `json:"title" validate:"required,notblank,max=10"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleRequest{Title: "leak"}))

	err := ValidateStruct(sampleRequest{Title: "   "})
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, errors.GetAppError(err).Details, "title must not be blank")

	err = ValidateStruct(sampleRequest{Title: "ok", Priority: "urgent"})
	assert.Contains(t, errors.GetAppError(err).Details, "priority must be one of")
}

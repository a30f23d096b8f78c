package request_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain/request"
)

func TestMaterialRequestValidate(t *testing.T) {
	ctx := context.Background()
	q, err := types.ParseQuantity("10")
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      *request.MaterialRequest
		wantCode string
	}{
		{
			name: "valid",
			req:  request.NewMaterialRequest(id.New(), id.New(), q, "eng-1", ""),
		},
		{
			name:     "zero project id",
			req:      request.NewMaterialRequest(id.Nil(), id.New(), q, "eng-1", ""),
			wantCode: apperror.CodeValidation,
		},
		{
			name:     "zero material id",
			req:      request.NewMaterialRequest(id.New(), id.Nil(), q, "eng-1", ""),
			wantCode: apperror.CodeValidation,
		},
		{
			name:     "zero quantity",
			req:      request.NewMaterialRequest(id.New(), id.New(), 0, "eng-1", ""),
			wantCode: apperror.CodeInvalidQuantity,
		},
		{
			name:     "missing requester",
			req:      request.NewMaterialRequest(id.New(), id.New(), q, "", ""),
			wantCode: apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(ctx)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsCode(err, tt.wantCode))
		})
	}
}

func TestMaterialRequestResolved(t *testing.T) {
	q, err := types.ParseQuantity("1")
	require.NoError(t, err)

	req := request.NewMaterialRequest(id.New(), id.New(), q, "eng-1", "")
	assert.False(t, req.Resolved())

	req.Status = request.StatusApproved
	assert.True(t, req.Resolved())
}

package usage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain/usage"
)

func TestUsageLogValidate(t *testing.T) {
	ctx := context.Background()
	q, err := types.ParseQuantity("5")
	require.NoError(t, err)

	tests := []struct {
		name     string
		log      *usage.UsageLog
		wantCode string
	}{
		{
			name: "valid",
			log:  usage.NewUsageLog(id.New(), "eng-1", q, ""),
		},
		{
			name:     "zero project material id",
			log:      usage.NewUsageLog(id.Nil(), "eng-1", q, ""),
			wantCode: apperror.CodeValidation,
		},
		{
			name:     "missing engineer",
			log:      usage.NewUsageLog(id.New(), "", q, ""),
			wantCode: apperror.CodeValidation,
		},
		{
			name:     "zero quantity",
			log:      usage.NewUsageLog(id.New(), "eng-1", 0, ""),
			wantCode: apperror.CodeInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.log.Validate(ctx)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsCode(err, tt.wantCode))
		})
	}
}

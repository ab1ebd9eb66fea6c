package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
)

func TestTrainingCost(t *testing.T) {
	tests := []struct {
		days    int
		session SessionType
		want    string
	}{
		{days: 0, session: SessionFull, want: "0"},
		{days: 0, session: SessionQuarter, want: "0"},
		{days: 1, session: SessionFull, want: "1500"},
		{days: 1, session: SessionQuarter, want: "375"},
		{days: 3, session: SessionHalf, want: "1750"},
		{days: 3, session: SessionFull, want: "3500"},
		{days: 4, session: SessionQuarter, want: "1125"},
	}

	for _, tt := range tests {
		got, err := TrainingCost(tt.days, tt.session)
		require.NoError(t, err)
		assertMoney(t, string(tt.session), tt.want, got)
	}
}

func TestTrainingCostRejectsBadInput(t *testing.T) {
	_, err := TrainingCost(-1, SessionFull)
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfiguration))

	_, err = TrainingCost(2, SessionType("weekend"))
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfiguration))
}

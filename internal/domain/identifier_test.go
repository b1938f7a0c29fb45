package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAccountID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "com prefixo", input: "act_123456", want: "123456"},
		{name: "sem prefixo", input: "123456", want: "123456"},
		{name: "com espaços", input: "  act_42 ", want: "42"},
		{name: "apenas prefixo", input: "act_", wantErr: true},
		{name: "vazio", input: "", wantErr: true},
		{name: "letras após prefixo", input: "act_12a4", wantErr: true},
		{name: "prefixo duplicado", input: "act_act_1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAccountID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindValidation, KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToExternalAccountID(t *testing.T) {
	assert.Equal(t, "act_123", ToExternalAccountID("123"))
	assert.Equal(t, "act_123", ToExternalAccountID("act_123"))

	storageID, err := NormalizeAccountID(ToExternalAccountID("987"))
	require.NoError(t, err)
	assert.Equal(t, "987", storageID)
}

func TestIsValidCampaignID(t *testing.T) {
	assert.True(t, IsValidCampaignID("120210000000001"))
	assert.False(t, IsValidCampaignID(""))
	assert.False(t, IsValidCampaignID("camp-1"))
}

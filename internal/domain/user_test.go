package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", RoleUser},
		{"   ", RoleUser},
		{"admin", RoleAdmin},
		{" Operator ", RoleOperator},
		{"USER", RoleUser},
		{"wizard", "WIZARD"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, NormalizeRole(tc.raw), "raw=%q", tc.raw)
	}
}

func TestValidRole(t *testing.T) {
	require.True(t, ValidRole(RoleUser))
	require.True(t, ValidRole(RoleOperator))
	require.True(t, ValidRole(RoleAdmin))
	require.False(t, ValidRole("WIZARD"))
	require.False(t, ValidRole("admin"))
}

func TestValidProductType(t *testing.T) {
	require.True(t, ValidProductType(ProductTypeHotCoil))
	require.True(t, ValidProductType(ProductTypeColdCoil))
	require.True(t, ValidProductType(ProductTypePlates))
	require.False(t, ValidProductType("slab"))
}

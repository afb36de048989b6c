package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectLVDT(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int64
	}{
		{"long segment preferred", "12|4077051234|9", i64(4077051234)},
		{"falls back to last segment", "5|9", i64(9)},
		{"noise stripped inside segment", "4O77o51234", i64(47751234)},
		{"long segment with noise", "x12|40-770-512-34a|9", i64(4077051234)},
		{"letters only", "abc|", nil},
		{"empty input", "", nil},
		{"single value", "4077051234", i64(4077051234)},
		{"overflow", "99999999999999999999", nil},
		{"pipes only", "|||", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectLVDT(tc.raw)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *tc.want, *got)
		})
	}
}

func i64(v int64) *int64 { return &v }

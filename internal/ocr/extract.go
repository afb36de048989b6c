package ocr

import (
	"strconv"
	"strings"
)

// SelectLVDT picks the slab identifier out of a raw recognizer line. The
// line is split on '|', every segment is reduced to its digits, and the
// first segment with 10 to 18 digits wins. When no segment is that long the
// last segment that still has digits is used. Returns nil when nothing
// usable remains or the digits overflow int64.
func SelectLVDT(raw string) *int64 {
	if raw == "" {
		return nil
	}

	segments := strings.Split(raw, "|")
	var pick string
	for _, seg := range segments {
		digits := stripNonDigits(seg)
		if digits == "" {
			continue
		}
		if len(digits) >= 10 && len(digits) <= 18 {
			pick = digits
			break
		}
		pick = digits
	}
	if pick == "" {
		return nil
	}

	v, err := strconv.ParseInt(pick, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

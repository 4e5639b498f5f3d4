// Package indicators holds the fixed set of strings a scan searches for.
package indicators

// The set is compiled in and not user-configurable. Every entry is matched
// as a literal byte substring, never as a regular expression: half of the
// entries are base64 encodings of the other half, and the "=" padding in the
// encoded forms must not pick up metacharacter meaning. Plain and encoded
// forms are tested independently even when both occur in the same file.
var indicators = []string{
	"ads/ad_limits",
	"YWRzL2FkX2xpbWl0cw==",
	"api/saveQR",
	"YXBpL3NhdmVRUg==",
	"qr/show/code",
	"cXIvc2hvdy9jb2Rl",
	"_ext_manage",
	"X2V4dF9tYW5hZ2U=",
	"_ext_log",
	"X2V4dF9sb2c=",
	"checkuninstallurl",
	"Y2hlY2t1bmluc3RhbGx1cmw=",
}

// All returns a copy of the indicator list so callers cannot mutate the set.
func All() []string {
	out := make([]string, len(indicators))
	copy(out, indicators)
	return out
}

package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exthunt/cli/internal/chromium"
)

func newEntry(code, data string) *chromium.Entry {
	return &chromium.Entry{
		CodePath: code,
		DataPath: data,
		Matches:  make(map[string]map[string]struct{}),
	}
}

func TestAttributeAssignsToOwningEntry(t *testing.T) {
	a := newEntry("/u/Extensions/aaa", "/u/Local Extension Settings/aaa")
	b := newEntry("/u/Extensions/bbb", "")

	Attribute([]Record{
		{File: "/u/Extensions/aaa/1.0_0/bg.js", Indicator: "ads/ad_limits"},
		{File: "/u/Local Extension Settings/aaa/000003.log", Indicator: "api/saveQR"},
		{File: "/u/Extensions/bbb/2.0_0/content.js", Indicator: "ads/ad_limits"},
	}, []*chromium.Entry{a, b})

	require.True(t, a.Matched())
	assert.Len(t, a.Matches, 2)
	assert.Contains(t, a.Matches["/u/Extensions/aaa/1.0_0/bg.js"], "ads/ad_limits")
	assert.Contains(t, a.Matches["/u/Local Extension Settings/aaa/000003.log"], "api/saveQR")

	require.True(t, b.Matched())
	assert.Len(t, b.Matches, 1)
}

func TestAttributeDropsRecordsOutsideEveryEntry(t *testing.T) {
	a := newEntry("/u/Extensions/aaa", "")

	Attribute([]Record{
		{File: "/elsewhere/file.js", Indicator: "ads/ad_limits"},
	}, []*chromium.Entry{a})

	assert.False(t, a.Matched())
}

func TestAttributeLongestPrefixWins(t *testing.T) {
	outer := newEntry("/u/Extensions", "")
	inner := newEntry("/u/Extensions/aaa", "")

	// Enumeration order must not matter: the more specific path owns the file.
	for _, entries := range [][]*chromium.Entry{{outer, inner}, {inner, outer}} {
		inner.Matches = make(map[string]map[string]struct{})
		outer.Matches = make(map[string]map[string]struct{})

		Attribute([]Record{
			{File: "/u/Extensions/aaa/bg.js", Indicator: "_ext_log"},
		}, entries)

		assert.True(t, inner.Matched())
		assert.False(t, outer.Matched())
	}
}

func TestAttributeDoesNotMatchSiblingPrefix(t *testing.T) {
	a := newEntry("/u/Extensions/aaa", "")

	// "/u/Extensions/aaab" shares a string prefix with a's code path but is
	// a different directory.
	Attribute([]Record{
		{File: "/u/Extensions/aaab/bg.js", Indicator: "_ext_log"},
	}, []*chromium.Entry{a})

	assert.False(t, a.Matched())
}

func TestAttributeDeduplicatesPerFile(t *testing.T) {
	a := newEntry("/u/Extensions/aaa", "")

	Attribute([]Record{
		{File: "/u/Extensions/aaa/bg.js", Indicator: "_ext_log"},
		{File: "/u/Extensions/aaa/bg.js", Indicator: "_ext_log"},
		{File: "/u/Extensions/aaa/bg.js", Indicator: "_ext_manage"},
	}, []*chromium.Entry{a})

	require.Len(t, a.Matches, 1)
	assert.Len(t, a.Matches["/u/Extensions/aaa/bg.js"], 2)
}

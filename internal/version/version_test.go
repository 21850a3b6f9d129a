package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stub(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	origRead, origVersion, origCommit := readBuildInfo, Version, Commit
	t.Cleanup(func() {
		readBuildInfo, Version, Commit = origRead, origVersion, origCommit
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return info, info != nil
	}
}

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name    string
		ldflags string
		info    *debug.BuildInfo
		want    string
		full    string
	}{
		{
			name:    "ldflags win",
			ldflags: "v1.2.3",
			info:    &debug.BuildInfo{Main: debug.Module{Version: "v0.0.1"}},
			want:    "v1.2.3",
			full:    "v1.2.3",
		},
		{
			name: "module version",
			info: &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			want: "v0.4.0",
			full: "v0.4.0",
		},
		{
			name: "vcs stamp",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: "dev-0123456789ab-dirty",
			full: "dev-0123456789ab-dirty (commit: 0123456789ab)",
		},
		{
			name: "no build info",
			want: "dev",
			full: "dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub(t, tt.info)
			Version = "dev"
			Commit = ""
			if tt.ldflags != "" {
				Version = tt.ldflags
			}
			assert.Equal(t, tt.want, GetVersion())
			assert.Equal(t, tt.full, GetFullVersion())
		})
	}
}

func TestGetFullVersionLdflagsCommit(t *testing.T) {
	stub(t, nil)
	Version = "v1.0.0"
	Commit = "abc1234"
	assert.Equal(t, "v1.0.0 (commit: abc1234)", GetFullVersion())
}

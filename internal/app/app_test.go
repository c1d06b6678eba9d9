package app

import (
	"testing"

	"school_admin_backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug 模式默认迁移", "debug", false, true},
		{"release 模式默认跳过", "release", false, false},
		{"release 模式 -migrate 强制迁移", "release", true, true},
		{"debug 模式 -migrate 仍迁移", "debug", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{ForceMigrate: tc.force}
			cfg.Server.Mode = tc.mode
			assert.Equal(t, tc.want, shouldMigrate(cfg))
		})
	}
}

package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	drain, err := cfg.DrainTimeoutDuration()
	assert.NoError(t, err)
	assert.Equal(t, time.Second, drain)

	grace, err := cfg.KillGraceDuration()
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Second, grace)

	assert.Equal(t, `\w> `, cfg.Prompt)
	assert.Equal(t, []string{".exe", ".com", ".bat", ".cmd"}, cfg.PathExtensions)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"default":        {func(*Configuration) {}, ""},
		"bad-color":      {func(c *Configuration) { c.Color = "sometimes" }, "color"},
		"no-prompt":      {func(c *Configuration) { c.Prompt = "" }, "prompt"},
		"bad-limit":      {func(c *Configuration) { c.HistoryLimit = -2 }, "history_limit"},
		"bad-drain":      {func(c *Configuration) { c.DrainTimeout = "soon" }, "drain_timeout"},
		"negative-grace": {func(c *Configuration) { c.KillGrace = "-1s" }, "kill_grace"},
		"bad-extension":  {func(c *Configuration) { c.PathExtensions = []string{"exe"} }, "path_extensions"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestShouldColor(t *testing.T) {
	cfg := defaultConfig()

	for _, tc := range []struct {
		color    string
		terminal bool
		want     bool
	}{
		{ColorAlways, false, true},
		{ColorNever, true, false},
		{ColorAuto, true, true},
		{ColorAuto, false, false},
	} {
		cfg.Color = tc.color
		assert.Equal(t, tc.want, cfg.ShouldColor(tc.terminal), "%s/%v", tc.color, tc.terminal)
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config wraps the nested YAML settings document. The document is read once at
// startup and only replaced wholesale via Reload; lookups never mutate it.
type Config struct {
	mu   sync.RWMutex
	path string
	doc  map[string]interface{}
}

// Load reads the settings document from the given path
func Load(path string) (*Config, error) {
	c := &Config{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the settings file and swaps the whole document atomically.
// A parse failure leaves the previous document in place.
func (c *Config) Reload() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", c.path, err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
	return nil
}

// Get resolves a dotted path ("filter_check.thresholds.min_badge_count")
// against the nested document. Returns false when any segment is absent.
func (c *Config) Get(path string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var current interface{} = c.doc
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetString returns the string at path, or def when absent or not a string
func (c *Config) GetString(path string, def string) string {
	if v, ok := c.Get(path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetInt returns the integer at path, or def when absent
func (c *Config) GetInt(path string, def int) int {
	if v, ok := c.Get(path); ok {
		if n, ok := toInt64(v); ok {
			return int(n)
		}
	}
	return def
}

// GetInt64 returns the 64-bit integer at path, or def when absent
func (c *Config) GetInt64(path string, def int64) int64 {
	if v, ok := c.Get(path); ok {
		if n, ok := toInt64(v); ok {
			return n
		}
	}
	return def
}

// GetInt64List returns the id list at path, or an empty list when absent
func (c *Config) GetInt64List(path string) []int64 {
	out := []int64{}
	v, ok := c.Get(path)
	if !ok {
		return out
	}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if n, ok := toInt64(item); ok {
			out = append(out, n)
		}
	}
	return out
}

// GetStringList returns the string list at path, or an empty list when absent
func (c *Config) GetStringList(path string) []string {
	out := []string{}
	v, ok := c.Get(path)
	if !ok {
		return out
	}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetInt64StringMap returns a guild-id keyed map of strings at path
// (e.g. result_channels: {guild id -> webhook URL})
func (c *Config) GetInt64StringMap(path string) map[int64]string {
	out := map[int64]string{}
	v, ok := c.Get(path)
	if !ok {
		return out
	}
	// yaml.v3 only yields map[string]interface{} when every key is a
	// string; bare integer keys (the usual way guild ids are written)
	// come back as map[interface{}]interface{}
	switch node := v.(type) {
	case map[string]interface{}:
		for key, val := range node {
			putInt64Entry(out, key, val)
		}
	case map[interface{}]interface{}:
		for key, val := range node {
			putInt64Entry(out, key, val)
		}
	}
	return out
}

func putInt64Entry(out map[int64]string, key, val interface{}) {
	id, ok := toInt64(key)
	if !ok {
		return
	}
	if s, ok := val.(string); ok {
		out[id] = s
	}
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ============================================================================
// Convenience accessors for commonly used values
// ============================================================================

// BotOwners returns the owner id set that bypasses every per-operation policy
func (c *Config) BotOwners() []int64 {
	return c.GetInt64List("general.bot_owners")
}

// TestServers returns guild ids that bypass server allow-lists
func (c *Config) TestServers() []int64 {
	return c.GetInt64List("general.test_servers")
}

// ErrorWebhookURL returns the operator diagnostic webhook, empty when unset
func (c *Config) ErrorWebhookURL() string {
	return c.GetString("general.error_webhook_url", "")
}

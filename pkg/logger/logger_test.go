package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.log")

	lg, err := New(config.Logger{Level: "info", Output: []string{out}})
	require.NoError(t, err)

	lg.Infof("customer %d updated", 15634602)
	lg.Debugf("not written at info level")
	require.NoError(t, lg.Sync())

	b, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "customer 15634602 updated", entry["msg"])
	require.Equal(t, "info", entry["level"])
	require.Contains(t, entry, "time")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.Logger{Level: "loud"})
	require.Error(t, err)
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// MainSource is a preprocessed translation unit exercising every
// annotation kind.
const MainSource = `# 1 "main.c"
int main(void);
..fs_command.. "/fs/status" "cmd_status";
..fs_command.. "/fs/" "reboot" "cmd_reboot";
..fs_counter.. "/drv/uart/rx" ..fs_separator.. "uart_rx";
..fs_parameter.. "/drv/uart/baud" "uart_baud" "int";
..log-begin.. evt_boot "booted in %lu ms" ..log-end..;
..log-begin.. evt_temp "temp=%d.%dC" ..log-end..;
`

// WriteFiles creates files relative to a fresh temporary directory and
// returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

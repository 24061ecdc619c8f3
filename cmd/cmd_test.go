package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := appName + " version: " + version
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("output: want=%q got=%q", want, got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate", "import", "token", "version"} {
		t.Run(name, func(t *testing.T) {
			c, _, err := rootCmd.Find([]string{name})
			if err != nil || c.Name() != name {
				t.Fatalf("command %s not registered: %v", name, err)
			}
		})
	}
}

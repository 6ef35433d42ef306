package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a@test\r\n" +
	"DTSTAMP:20240301T000000Z\r\n" +
	"DTSTART:20240315T090000Z\r\n" +
	"SUMMARY:Instagram: Launch teaser\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "contentcal version "+version)
}

func TestExportSeededCalendar(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.ics")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedICS), 0o644))

	cfgPath := filepath.Join(dir, "contentcal.yaml")
	cfg := "timezone: UTC\nseed_ics: " + seedPath + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out := execute(t, "export", "--config", cfgPath)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "DTSTART:20240315T090000Z")
	assert.Contains(t, out, "CATEGORIES:Instagram")

	outPath := filepath.Join(dir, "out.ics")
	execute(t, "export", "--config", cfgPath, "--out", outPath, "--name", "Launch plan")
	body, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "X-WR-CALNAME:Launch plan")
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "contentcal.yaml")
	out := execute(t, "export", "--config", cfgPath, "--log-level", "error")
	assert.Contains(t, out, "BEGIN:VCALENDAR")

	_, err := os.Stat(cfgPath)
	assert.NoError(t, err)
}

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(time.UTC)
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"eventctl"}, args...))
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ELVION Hackathon")
	assert.Contains(t, out, "Sinhgad spring fest 2026")

	out, err = run(t, "list", "--category", "sports")
	require.NoError(t, err)
	assert.Contains(t, out, "Sinhgad Olumpus 2026")
	assert.NotContains(t, out, "ELVION Hackathon")

	_, err = run(t, "list", "--category", "music")
	assert.Error(t, err)
}

func TestLink(t *testing.T) {
	out, err := run(t, "link", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "https://calendar.google.com/calendar/render?action=TEMPLATE"))

	_, err = run(t, "link", "42")
	assert.Error(t, err)
	_, err = run(t, "link")
	assert.Error(t, err)
}

func TestICS(t *testing.T) {
	out, err := run(t, "ics")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))

	out, err = run(t, "ics", "2")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:2@eventease.local")
}

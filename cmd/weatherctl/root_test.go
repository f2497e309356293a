package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	c, err := parseCoordinates("51.5", "-0.12")
	require.NoError(t, err)
	assert.Equal(t, "51.5,-0.12", c.Key())

	_, err = parseCoordinates("abc", "0")
	assert.Error(t, err)
	_, err = parseCoordinates("95", "0")
	assert.Error(t, err)
}

func TestURLsCommand(t *testing.T) {
	for _, k := range []string{"GEOCODE_LANGUAGE", "LC_ALL", "LANG", "DEFAULT_UNITS", "FORECAST_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"urls", "12.34", "56.78", "--query", "Paris", "--units", "imperial"})
	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "search\t"))
	assert.Contains(t, lines[0], "name=Paris")
	assert.Contains(t, lines[1], "latitude=12.34")
	assert.Contains(t, lines[2], "lat=12.34")
	assert.Contains(t, lines[3], "temperature_unit=fahrenheit")
}

package config

import (
	"testing"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/iostreams/iostreamstest"
	"github.com/stretchr/testify/assert"
)

func TestNewCmdConfig(t *testing.T) {
	tio := iostreamstest.New()
	cmd := NewCmdConfig(&cmdutil.Factory{IOStreams: tio.IOStreams})

	assert.Equal(t, "config", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["check"])
	assert.True(t, names["show"])
	assert.True(t, names["set"])
}

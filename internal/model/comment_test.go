package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReporter(t *testing.T) {
	c := &Comment{}

	require.NoError(t, c.AddReporter("alice"))
	assert.True(t, c.IsReported)
	assert.Equal(t, 1, c.ReportCount)
	assert.True(t, c.HasReported("alice"))
	assert.False(t, c.HasReported("bob"))

	require.NoError(t, c.AddReporter("bob"))
	assert.Equal(t, 2, c.ReportCount)
	assert.Equal(t, []string{"alice", "bob"}, c.ReporterNames())
}

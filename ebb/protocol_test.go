package ebb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommandFramesWithCR(t *testing.T) {
	framed, err := buildCommand("SM,20,100,0")
	require.NoError(t, err)
	assert.Equal(t, "SM,20,100,0\r", string(framed))
}

func TestBuildCommandRejectsEmpty(t *testing.T) {
	_, err := buildCommand("")
	require.Error(t, err)
}

func TestBuildCommandRejectsEmbeddedCR(t *testing.T) {
	_, err := buildCommand("SM,20,100,0\rextra")
	require.Error(t, err)
}

func TestBuildCommandRejectsOverlength(t *testing.T) {
	long := make([]byte, 260)
	for i := range long {
		long[i] = 'a'
	}
	_, err := buildCommand(string(long))
	require.Error(t, err)
}

func TestExpectsOKTable(t *testing.T) {
	assert.False(t, expectsOK("V"))
	assert.False(t, expectsOK("PI,A,6"))
	assert.False(t, expectsOK("QM"))
	assert.True(t, expectsOK("SM,20,100,0"))
	assert.True(t, expectsOK("SP,0"))
}

func TestStripOKRemovesSuffix(t *testing.T) {
	payload, err := stripOK("SP,0", "OK\r\n")
	require.NoError(t, err)
	assert.Equal(t, "", payload)

	payload, err = stripOK("QS", "1000,2000\r\nOK\r\n")
	require.NoError(t, err)
	assert.Equal(t, "1000,2000\r\n", payload)
}

func TestStripOKErrorsWithoutSuffix(t *testing.T) {
	_, err := stripOK("SP,0", "ERR\r\n")
	require.Error(t, err)
}

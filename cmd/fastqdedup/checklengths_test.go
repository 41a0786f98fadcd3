package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCheckLengths(t *testing.T) {
	regions, err := parseCheckLengths("8,0:8,:8,8:")
	require.NoError(t, err)
	require.Len(t, regions, 4)

	sequence := []byte("ACGTACGTACGT")
	require.Equal(t, "A", string(regions[0].apply(sequence[:9])))
	require.Equal(t, "ACGTACGT", string(regions[1].apply(sequence)))
	require.Equal(t, "ACGTACGT", string(regions[2].apply(sequence)))
	require.Equal(t, "ACGT", string(regions[3].apply(sequence)))
}

func TestParseCheckLengthsEmpty(t *testing.T) {
	regions, err := parseCheckLengths("")
	require.NoError(t, err)
	require.Nil(t, regions)
}

func TestParseCheckLengthsErrors(t *testing.T) {
	for _, arg := range []string{",", "a", "-1", "4:2", "1:2:3", "0:x"} {
		_, err := parseCheckLengths(arg)
		require.Error(t, err, "arg %q", arg)
	}
}

func TestRegionClamping(t *testing.T) {
	r := region{start: 2, stop: 8, hasStop: true}
	require.Equal(t, "GT", string(r.apply([]byte("ACGT"))))
	require.Equal(t, "", string(r.apply([]byte("AC"))))
	require.Equal(t, "", string(r.apply(nil)))
}

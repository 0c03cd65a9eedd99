package commands

import (
	"testing"

	"vybory-backend/services/elections"

	"github.com/stretchr/testify/require"
)

func targetKeys(targets []elections.Election) []string {
	keys := make([]string, len(targets))
	for i, el := range targets {
		keys[i] = el.Key
	}
	return keys
}

func TestSelectTargetsExplicit(t *testing.T) {
	targets, err := selectTargets([]string{"2024", "1991"}, false)
	require.NoError(t, err)
	require.Equal(t, []string{"2024", "1991"}, targetKeys(targets))
}

func TestSelectTargetsDefault(t *testing.T) {
	targets, err := selectTargets(nil, false)
	require.NoError(t, err)
	require.Equal(t, elections.DefaultKeys(), targetKeys(targets))
}

func TestSelectTargetsAll(t *testing.T) {
	targets, err := selectTargets(nil, true)
	require.NoError(t, err)
	require.Equal(t, elections.Keys(), targetKeys(targets))

	// --all wins over an explicit selection
	targets, err = selectTargets([]string{"2024"}, true)
	require.NoError(t, err)
	require.Len(t, targets, len(elections.Catalog))
}

func TestSelectTargetsUnknownKey(t *testing.T) {
	_, err := selectTargets([]string{"2024", "1812"}, false)
	require.ErrorContains(t, err, "1812")
	require.ErrorContains(t, err, "available")
}

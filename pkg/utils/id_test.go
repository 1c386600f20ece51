package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("auction")
	require.True(t, strings.HasPrefix(id, "auction_"))

	require.NotEqual(t, GenerateID("bid"), GenerateID("bid"))
}

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_ContainsName(t *testing.T) {
	assert.Contains(t, Info(), "momai")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc1234", short("abc1234def"))
	assert.Equal(t, "abc", short("abc"))
	assert.Equal(t, "", short(""))
}

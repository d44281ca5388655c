package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldPrefixesName(t *testing.T) {
	v := Field("playerName", Required())

	err := v("")
	assert.ErrorContains(t, err, "playerName")

	assert.NoError(t, v("Alice"))
}

func TestComposeFirstErrorWins(t *testing.T) {
	v := Compose(MinLength(3), MaxLength(5))

	assert.ErrorContains(t, v("ab"), "at least 3")
	assert.ErrorContains(t, v("abcdef"), "no more than 5")
	assert.NoError(t, v("abcd"))
}

func TestLengthBetween(t *testing.T) {
	v := LengthBetween(3, 20)

	assert.Error(t, v("ab"))
	assert.NoError(t, v("abc"))
	assert.NoError(t, v("abcdefghijklmnopqrst"))
	assert.Error(t, v("abcdefghijklmnopqrstu"))
}

func TestMatchesCustomMessage(t *testing.T) {
	v := Matches(`^[A-Z0-9]+$`, "must contain only uppercase letters and digits")

	assert.NoError(t, v("ABC234"))
	assert.ErrorContains(t, v("abc234"), "uppercase")
}

func TestOptionalSkipsEmpty(t *testing.T) {
	v := Optional(MinLength(3))

	assert.NoError(t, v(""))
	assert.Error(t, v("ab"))
	assert.NoError(t, v("abc"))
}

func TestOneOf(t *testing.T) {
	v := OneOf("host", "participant")

	assert.NoError(t, v("host"))
	assert.Error(t, v("spectator"))
}

func TestIntBetween(t *testing.T) {
	assert.NoError(t, IntBetween("timerDuration", 5, 5, 300))
	assert.NoError(t, IntBetween("timerDuration", 300, 5, 300))
	assert.ErrorContains(t, IntBetween("timerDuration", 4, 5, 300), "timerDuration")
	assert.Error(t, IntBetween("timerDuration", 301, 5, 300))
}

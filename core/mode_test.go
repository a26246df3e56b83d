package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	t.Run("parses every mode name", func(t *testing.T) {
		for _, m := range Modes() {
			got, err := ParseMode(m.String())
			require.NoError(t, err)
			assert.Equal(t, m, got)
		}
	})

	t.Run("ignores case and whitespace", func(t *testing.T) {
		got, err := ParseMode("  EXPLORATORY ")
		require.NoError(t, err)
		assert.Equal(t, ModeExploratory, got)
	})

	t.Run("unknown name lists valid modes", func(t *testing.T) {
		_, err := ParseMode("fuzzy")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMode)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, err.Error(), "specific, vague, exploratory")
	})
}

func TestModeText(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("vague")))
	assert.Equal(t, ModeVague, m)

	text, err := ModeSpecific.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "specific", string(text))

	_, err = Mode(0).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.False(t, Mode(42).IsValid())
	assert.Equal(t, "mode(42)", Mode(42).String())
}

package sensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/sortable/internal/config"
	"github.com/1broseidon/sortable/internal/sensor"
)

func TestKeyboardOptions(t *testing.T) {
	opts, err := sensor.KeyboardOptions(config.Keyboard{
		PickupKeys:   []string{"space"},
		Instructions: "Press space.",
	}, nil)
	require.NoError(t, err)

	k := sensor.NewKeyboard(nil, opts...)
	assert.Equal(t, "Press space.", k.Instructions())

	defaults, err := sensor.KeyboardOptions(config.DefaultConfig().Keyboard, nil)
	require.NoError(t, err)
	assert.Equal(t, sensor.DefaultInstructions, sensor.NewKeyboard(nil, defaults...).Instructions())
}

func TestKeyboardOptions_UnknownKey(t *testing.T) {
	_, err := sensor.KeyboardOptions(config.Keyboard{PickupKeys: []string{"tab"}}, nil)
	assert.ErrorContains(t, err, `unknown pickup key "tab"`)
}

func TestPointerOptions_KeepsDefaultsForZeroValues(t *testing.T) {
	assert.Len(t, sensor.PointerOptions(config.Pointer{}, nil), 1)
	assert.Len(t, sensor.PointerOptions(config.Pointer{ScrollThreshold: 0.1, ScrollSpeed: 5}, nil), 3)
}

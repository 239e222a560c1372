package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validBar() Bar {
	return Bar{
		Date:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Symbol: "ACME",
		Open:   100,
		High:   105,
		Low:    95,
		Close:  102,
		Volume: 10000,
	}
}

func TestBarValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Bar)
		ok     bool
	}{
		{"valid", func(b *Bar) {}, true},
		{"zero_volume_ok", func(b *Bar) { b.Volume = 0 }, true},
		{"zero_open", func(b *Bar) { b.Open = 0 }, false},
		{"negative_close", func(b *Bar) { b.Close = -1 }, false},
		{"negative_volume", func(b *Bar) { b.Volume = -1 }, false},
		{"open_above_high", func(b *Bar) { b.Open = 106 }, false},
		{"close_below_low", func(b *Bar) { b.Close = 94 }, false},
		{"high_below_low", func(b *Bar) { b.High = 90 }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := validBar()
			tt.mutate(&b)
			err := b.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBarRange(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 10.0, validBar().Range())
}

func TestSideString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
	assert.Equal(t, "unknown", Side(0).String())
}

func TestSignalClamp(t *testing.T) {
	t.Parallel()

	s := Signal{Strength: 1.5}.Clamp()
	assert.Equal(t, 1.0, s.Strength)

	s = Signal{Strength: -0.2}.Clamp()
	assert.Equal(t, 0.0, s.Strength)

	s = Signal{Strength: 0.4}.Clamp()
	assert.Equal(t, 0.4, s.Strength)
}

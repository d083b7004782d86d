package tskey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		f    Fields
		want uint32
	}{
		{"zero", Fields{}, 0},
		{"second", Fields{Second: 5}, 5},
		{"minute", Fields{Minute: 4}, 4 << 6},
		{"hour", Fields{Hour: 3}, 3 << 12},
		{"day", Fields{Day: 2}, 2 << 17},
		{"month", Fields{Month: 1}, 1 << 22},
		{"all", Fields{1, 2, 3, 4, 5}, 1<<22 | 2<<17 | 3<<12 | 4<<6 | 5},
		{"max", Fields{12, 31, 23, 59, 59}, 12<<22 | 31<<17 | 23<<12 | 59<<6 | 59},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Encode())
			assert.Equal(t, tt.want, Encode(tt.f.Month, tt.f.Day, tt.f.Hour, tt.f.Minute, tt.f.Second))
			assert.Equal(t, tt.f, Decode(tt.want))
		})
	}
}

func TestEncode_DistinctForValidFields(t *testing.T) {
	seen := make(map[uint32]Fields)
	for month := 1; month <= 12; month++ {
		for day := 1; day <= 31; day++ {
			for hour := 0; hour < 24; hour += 7 {
				for minute := 0; minute < 60; minute += 13 {
					f := Fields{month, day, hour, minute, (month + day) % 60}
					k := f.Encode()
					if prev, ok := seen[k]; ok {
						t.Fatalf("key %d for %+v collides with %+v", k, f, prev)
					}
					seen[k] = f
				}
			}
		}
	}
}

func TestEncode_OverflowSpillsIntoNextField(t *testing.T) {
	// A day of 32 does not fit in five bits and aliases month+1, day 0.
	assert.Equal(t, Encode(2, 0, 0, 0, 0), Encode(1, 32, 0, 0, 0))
	// A second of 64 aliases minute+1.
	assert.Equal(t, Encode(1, 1, 1, 2, 0), Encode(1, 1, 1, 1, 64))
}

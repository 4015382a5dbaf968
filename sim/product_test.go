package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		product *Product
		wantErr bool
	}{
		{"valid", NewProduct("P1", 1.0, Dims{0.5, 0.4, 0.3}, 80), false},
		{"empty id", NewProduct("", 1.0, Dims{0.5, 0.4, 0.3}, 80), true},
		{"zero length", NewProduct("P1", 1.0, Dims{0, 0.4, 0.3}, 80), true},
		{"zero frequency", NewProduct("P1", 1.0, Dims{0.5, 0.4, 0.3}, 0), true},
		{"negative weight", NewProduct("P1", -1, Dims{0.5, 0.4, 0.3}, 80), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProduct_NewIsUnplaced(t *testing.T) {
	p := NewProduct("P1", 1.0, Dims{0.5, 0.4, 0.3}, 80)

	assert.False(t, p.IsPlaced())
	assert.Equal(t, "", p.ShelfID())
	_, ok := p.Placement()
	assert.False(t, ok)
	assert.InDelta(t, 0.06, p.Volume(), 1e-12)
	assert.Equal(t, Voxel{5, 4, 3}, p.Footprint(0.1))
	assert.Equal(t, "Product P1", p.String())
}

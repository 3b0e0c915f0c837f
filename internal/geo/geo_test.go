package geo_test

import (
	"testing"

	"pedidos-service/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() geo.Polygon {
	return geo.Polygon{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 0},
	}
}

func TestPolygon_Validate(t *testing.T) {
	t.Run("acepta un polígono de 3 vértices", func(t *testing.T) {
		p := geo.Polygon{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 0}}
		require.NoError(t, p.Validate())
	})

	t.Run("rechaza menos de 3 vértices", func(t *testing.T) {
		p := geo.Polygon{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}}
		err := p.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, geo.ErrPolygonTooSmall)
	})
}

func TestPolygon_Contains(t *testing.T) {
	p := square()

	t.Run("punto interior", func(t *testing.T) {
		assert.True(t, p.Contains(geo.Point{Lat: 5, Lng: 5}))
	})

	t.Run("punto exterior", func(t *testing.T) {
		assert.False(t, p.Contains(geo.Point{Lat: 15, Lng: 5}))
		assert.False(t, p.Contains(geo.Point{Lat: -1, Lng: -1}))
	})

	t.Run("es idempotente", func(t *testing.T) {
		pt := geo.Point{Lat: 3.3, Lng: 7.7}
		first := p.Contains(pt)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, p.Contains(pt))
		}
	})

	t.Run("polígono cóncavo", func(t *testing.T) {
		// Forma de "L": el hueco superior derecho queda afuera.
		l := geo.Polygon{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 10},
			{Lat: 5, Lng: 10},
			{Lat: 5, Lng: 5},
			{Lat: 10, Lng: 5},
			{Lat: 10, Lng: 0},
		}
		assert.True(t, l.Contains(geo.Point{Lat: 2, Lng: 8}))
		assert.True(t, l.Contains(geo.Point{Lat: 8, Lng: 2}))
		assert.False(t, l.Contains(geo.Point{Lat: 8, Lng: 8}))
	})

	t.Run("polígono degenerado nunca contiene", func(t *testing.T) {
		p := geo.Polygon{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}
		assert.False(t, p.Contains(geo.Point{Lat: 0, Lng: 0}))
	})
}

// geo.go
package geo

import "errors"

var ErrPolygonTooSmall = errors.New("el polígono necesita al menos 3 vértices")

// Point es una coordenada (lat, lng) tal como se guarda en Mongo.
type Point struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Polygon es la secuencia ordenada de vértices de una zona de cobertura.
// Se cierra implícitamente uniendo el último vértice con el primero.
type Polygon []Point

// Validate verifica que el polígono tenga sentido antes de guardarlo.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return ErrPolygonTooSmall
	}
	return nil
}

// Contains aplica ray-casting sobre los vértices ordenados.
// Un rayo horizontal hacia +lng cuenta cuántos lados cruza: impar = adentro.
func (p Polygon) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}

	inside := false
	j := len(p) - 1
	for i := 0; i < len(p); i++ {
		vi, vj := p[i], p[j]

		intersects := (vi.Lat > pt.Lat) != (vj.Lat > pt.Lat) &&
			pt.Lng < (vj.Lng-vi.Lng)*(pt.Lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lng
		if intersects {
			inside = !inside
		}
		j = i
	}
	return inside
}

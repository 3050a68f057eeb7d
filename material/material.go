// Package material defines the renderer's closed set of surface shading
// models and the per-scene table primitives index into.
package material

import "pathtracer/math"

// Kind tags which shading model a Material uses.
type Kind int

const (
	Diffuse Kind = iota
	Metallic
	Dielectric
)

// Material is {color, emission, kind}; Dielectric additionally carries an
// index of refraction. A material is emissive iff |Emission|^2 > 0.
type Material struct {
	Color    math.Vec3
	Emission math.Vec3
	Kind     Kind
	IOR      float32 // only meaningful when Kind == Dielectric
}

// IsEmissive reports whether the material contributes direct radiance.
func (m Material) IsEmissive() bool {
	return m.Emission.LengthSqr() > 0
}

// Table is the scene's material list; primitives carry an index into it.
type Table []Material

func (t Table) Get(index uint32) Material {
	return t[index]
}

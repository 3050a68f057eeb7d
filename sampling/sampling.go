// Package sampling provides direction-sampling strategies for the path
// integrator: uniform hemisphere, cosine-weighted hemisphere, light
// importance sampling, and a 50/50 multiple-importance mixture of the
// latter two.
package sampling

import (
	stdmath "math"

	"pathtracer/bvh"
	"pathtracer/geom"
	"pathtracer/math"
)

// Directed pairs a sampled direction with its PDF with respect to solid
// angle.
type Directed struct {
	D   math.Vec3
	PDF float32
}

// Uniform samples directions uniformly over the hemisphere around n.
type Uniform struct{}

func (Uniform) Sample(n math.Vec3, rnd geom.Rand) Directed {
	d := geom.SphereUniform(rnd)
	if d.Dot(n) <= 0 {
		d = d.Negate()
	}
	return Directed{D: d, PDF: 0.5 / stdmath.Pi}
}

// Cosine samples directions proportional to cos(theta) around n, the
// distribution that exactly cancels a Lambertian BRDF's cosine term.
type Cosine struct{}

func (Cosine) Sample(n math.Vec3, rnd geom.Rand) math.Vec3 {
	d := geom.SphereUniform(rnd)
	return d.Add(n).Normalize()
}

func (Cosine) PDF(n, d math.Vec3) float32 {
	cos := n.Dot(d)
	if cos < 0 {
		cos = 0
	}
	return cos / stdmath.Pi
}

// Light is anything EnumerateAllHits can traverse and SamplePoint can draw
// a point from: the emissive-only BVH built over a scene's light
// primitives. It is a narrow interface so sampling does not depend on the
// concrete primitive type a scene uses.
type Light[T geom.Surface] interface {
	Len() int
	Item(i int) T
	EnumerateAllHits(ray geom.Ray, fn bvh.HitFunc[T])
}

// ToLight draws directions toward a uniformly chosen light's surface, and
// estimates the solid-angle PDF of an arbitrary direction by summing over
// every light primitive a ray towards it could cross (accounting for both
// the near and far surface of convex lights, mirroring the BVH's
// EnumerateAllHits semantics). With no lights it degrades to Cosine.
type ToLight[T geom.Surface] struct {
	Lights Light[T]
}

func (tl ToLight[T]) Sample(p, n math.Vec3, rnd geom.Rand) math.Vec3 {
	count := tl.Lights.Len()
	if count == 0 {
		return Cosine{}.Sample(n, rnd)
	}
	idx := int(rnd.Float32() * float32(count))
	if idx >= count {
		idx = count - 1
	}
	light := tl.Lights.Item(idx)

	sampler, ok := any(light).(geom.Sampler)
	if !ok {
		return Cosine{}.Sample(n, rnd)
	}
	pLight := sampler.SamplePoint(rnd)
	return pLight.Sub(p).Normalize()
}

func (tl ToLight[T]) PDF(p, n, d math.Vec3) float32 {
	count := tl.Lights.Len()
	if count == 0 {
		return Cosine{}.PDF(n, d)
	}

	ray := geom.NewRay(p, d)
	var pdf float32

	tl.Lights.EnumerateAllHits(ray, func(item T, r geom.Ray, hit geom.Hit) {
		sampler, ok := any(item).(geom.Sampler)
		if !ok {
			return
		}
		q := r.At(hit.T)
		denom := r.Direction.Dot(hit.N)
		if denom < 0 {
			denom = -denom
		}
		if denom < 1e-8 {
			return
		}
		pdf += sampler.AreaPDF(q) * p.Sub(q).LengthSqr() / denom
	})

	return pdf / float32(count)
}

// MIS is the renderer's single outgoing-direction strategy: a 50/50
// mixture of Cosine and ToLight, weighted by the balance heuristic.
type MIS[T geom.Surface] struct {
	ToLight ToLight[T]
}

const cosineProb = 0.5

func (m MIS[T]) Sample(p, n math.Vec3, rnd geom.Rand) Directed {
	var d math.Vec3
	if rnd.Float32() < cosineProb {
		d = Cosine{}.Sample(n, rnd)
	} else {
		d = m.ToLight.Sample(p, n, rnd)
	}

	pdf := Cosine{}.PDF(n, d)*cosineProb + m.ToLight.PDF(p, n, d)*(1-cosineProb)
	return Directed{D: d, PDF: pdf}
}

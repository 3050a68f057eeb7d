// Package integrator implements the recursive Monte-Carlo path tracer:
// given a ray into a scene, it returns an unbiased radiance estimate by
// recursing according to the hit primitive's material.
package integrator

import (
	stdmath "math"

	"pathtracer/geom"
	"pathtracer/material"
	"pathtracer/math"
	"pathtracer/sampling"
	"pathtracer/scenepkg"
)

const minPDF = 1e-6

// Trace returns a Monte-Carlo radiance estimate along ray, recursing up to
// scene.RayDepth bounces. rnd supplies all randomness for this call tree;
// callers must give each concurrent worker its own source, never share one
// across goroutines.
func Trace(scene *scenepkg.Scene, ray geom.Ray, depth int, rnd geom.Rand) math.Vec3 {
	if depth >= scene.RayDepth {
		return math.Vec3Zero
	}

	hit, ok := scene.Intersect(ray)
	if !ok {
		return scene.BackgroundColor
	}

	primitive := scene.Primitive(hit.Index)
	mat := scene.Materials.Get(primitive.MaterialIndex)
	point := ray.At(hit.T)
	normal := hit.N

	var color math.Vec3
	switch mat.Kind {
	case material.Diffuse:
		color = traceDiffuse(scene, mat, point, normal, depth, rnd)
	case material.Metallic:
		color = traceMetallic(scene, mat, ray, point, normal, depth, rnd)
	case material.Dielectric:
		color = traceDielectric(scene, mat, ray, point, normal, hit.Inside, depth, rnd)
	}

	return color.Add(mat.Emission)
}

func traceDiffuse(scene *scenepkg.Scene, mat material.Material, point, normal math.Vec3, depth int, rnd geom.Rand) math.Vec3 {
	colorOverPi := mat.Color.Mul(1 / float32(stdmath.Pi))

	mis := sampling.MIS[scenepkg.Primitive]{ToLight: sampling.ToLight[scenepkg.Primitive]{Lights: scene.LightBVH}}
	dir := mis.Sample(point, normal, rnd)

	cos := normal.Dot(dir.D)
	if cos < 0 {
		return math.Vec3Zero
	}
	if !isFinite(dir.PDF) || dir.PDF < minPDF {
		return math.Vec3Zero
	}

	newRay := geom.NewShiftedRay(point, dir.D)
	incoming := Trace(scene, newRay, depth+1, rnd)
	return incoming.MulVec(colorOverPi).Mul(cos / dir.PDF)
}

func traceMetallic(scene *scenepkg.Scene, mat material.Material, ray geom.Ray, point, normal math.Vec3, depth int, rnd geom.Rand) math.Vec3 {
	reflected := reflectedRay(ray.Direction, point, normal)
	incoming := Trace(scene, reflected, depth+1, rnd)
	return incoming.MulVec(mat.Color)
}

func traceDielectric(scene *scenepkg.Scene, mat material.Material, ray geom.Ray, point, normal math.Vec3, inside bool, depth int, rnd geom.Rand) math.Vec3 {
	eta := 1 / mat.IOR
	if inside {
		eta = mat.IOR
	}

	reflected := reflectedRay(ray.Direction, point, normal)
	refracted, hasRefraction := refractedRay(ray.Direction, point, normal, eta)
	reflectance := schlick(eta, -ray.Direction.Dot(normal))

	if hasRefraction && rnd.Float32() < 1-reflectance {
		color := Trace(scene, refracted, depth+1, rnd)
		if !inside {
			color = color.MulVec(mat.Color)
		}
		return color
	}
	return Trace(scene, reflected, depth+1, rnd)
}

func reflectedRay(direction, point, normal math.Vec3) geom.Ray {
	newDir := direction.Sub(normal.Mul(2 * direction.Dot(normal)))
	return geom.NewShiftedRay(point, newDir)
}

// refractedRay applies Snell's law with relative index eta = eta_from /
// eta_to; it reports no refraction on total internal reflection.
func refractedRay(direction, point, normal math.Vec3, eta float32) (geom.Ray, bool) {
	cos1 := -normal.Dot(direction)
	sin2 := eta * float32(stdmath.Sqrt(float64(1-cos1*cos1)))
	if sin2 > 1 || sin2 < -1 {
		return geom.Ray{}, false
	}

	cos2 := float32(stdmath.Sqrt(float64(1 - sin2*sin2)))
	newDir := direction.Mul(eta).Add(normal.Mul(eta*cos1 - cos2))
	return geom.NewShiftedRay(point, newDir), true
}

// schlick is the Schlick approximation of the Fresnel reflectance at
// relative index eta and incidence cosine cos.
func schlick(eta, cos float32) float32 {
	r0 := (eta - 1) / (eta + 1)
	r0 *= r0
	return r0 + (1-r0)*pow5(1-cos)
}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}

func isFinite(f float32) bool {
	return !stdmath.IsNaN(float64(f)) && !stdmath.IsInf(float64(f), 0)
}

// Package gltfio loads the renderer's glTF scene subset: node TRS
// composed into world-space triangles, the first camera found in the
// document, and a PBR-to-renderer material mapping.
package gltfio

import (
	"encoding/json"
	"fmt"
	stdmath "math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"pathtracer/geom"
	"pathtracer/material"
	"pathtracer/math"
	"pathtracer/scenepkg"
)

const dielectricIOR = 1.5

// Load opens a .gltf or .glb document and flattens it into the inputs
// scenepkg.Build needs. The first camera node found in the node tree
// becomes the scene camera; aspect must be supplied by the caller (image
// height / width). It sets the camera's vertical extent, and it also stands
// in for the camera's own aspectRatio when the document does not give one.
func Load(path string, aspect float32) (*scenepkg.Camera, []scenepkg.Primitive, material.Table, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("gltfio: open %q: %w", path, err)
	}

	materials, err := loadMaterials(doc)
	if err != nil {
		return nil, nil, nil, err
	}

	var primitives []scenepkg.Primitive
	var camera *scenepkg.Camera

	roots := sceneRoots(doc)
	for _, root := range roots {
		prims, cam, err := walk(doc, root, math.Mat4Identity(), aspect)
		if err != nil {
			return nil, nil, nil, err
		}
		primitives = append(primitives, prims...)
		if camera == nil {
			camera = cam
		}
	}

	if camera == nil {
		return nil, nil, nil, fmt.Errorf("gltfio: no camera node found in %q", path)
	}
	return camera, primitives, materials, nil
}

func sceneRoots(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			hasParent[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// walk composes node TRS into a parent-concatenated matrix, flattening
// meshes into world-space triangles and recording the first camera it
// finds along the way.
func walk(doc *gltf.Document, nodeIdx uint32, parent math.Mat4, aspect float32) ([]scenepkg.Primitive, *scenepkg.Camera, error) {
	node := doc.Nodes[nodeIdx]
	local := nodeMatrix(node)
	world := local.Mul(parent)

	var primitives []scenepkg.Primitive
	var camera *scenepkg.Camera

	if node.Mesh != nil {
		prims, err := loadMesh(doc, doc.Meshes[*node.Mesh], world)
		if err != nil {
			return nil, nil, fmt.Errorf("gltfio: node %d mesh: %w", nodeIdx, err)
		}
		for _, tp := range prims {
			tri := tp.triangle
			primitives = append(primitives, scenepkg.Primitive{
				Figure:        geom.NewPositionedFigure(geom.Figure{Triangle: &tri}),
				MaterialIndex: tp.materialIndex,
			})
		}
	}

	if node.Camera != nil {
		camera = buildCamera(doc.Cameras[*node.Camera], world, aspect)
	}

	for _, child := range node.Children {
		childPrims, childCam, err := walk(doc, child, world, aspect)
		if err != nil {
			return nil, nil, err
		}
		primitives = append(primitives, childPrims...)
		if camera == nil {
			camera = childCam
		}
	}

	return primitives, camera, nil
}

func nodeMatrix(n *gltf.Node) math.Mat4 {
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()

	translation := math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])})
	rotation := math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}.ToMat4()
	scale := math.Mat4Scale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])})

	// Matrices act on row vectors (v*M), so this order applies scale, then
	// rotation, then translation.
	return scale.Mul(rotation).Mul(translation)
}

// triWithMaterial pairs a world-space triangle with the material index of
// the glTF primitive it came from.
type triWithMaterial struct {
	triangle      geom.Triangle
	materialIndex uint32
}

func loadMesh(doc *gltf.Document, mesh *gltf.Mesh, world math.Mat4) ([]triWithMaterial, error) {
	var out []triWithMaterial

	for _, prim := range mesh.Primitives {
		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			return nil, fmt.Errorf("primitive missing POSITION attribute")
		}
		accessor := doc.Accessors[posIdx]
		if accessor.ComponentType != gltf.ComponentFloat {
			return nil, fmt.Errorf("POSITION accessor must be componentType 5126 (float32), got %d", accessor.ComponentType)
		}

		positions, err := modeler.ReadPosition(doc, accessor, nil)
		if err != nil {
			return nil, fmt.Errorf("reading positions: %w", err)
		}

		verts := make([]math.Vec3, len(positions))
		for i, p := range positions {
			verts[i] = world.MulVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
		}

		indices, err := readIndices(doc, prim)
		if err != nil {
			return nil, err
		}
		if indices == nil {
			indices = make([]uint32, len(verts))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		matIdx := uint32(0)
		if prim.Material != nil {
			matIdx = uint32(*prim.Material)
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]]
			out = append(out, triWithMaterial{triangle: geom.NewTriangle(a, b, c), materialIndex: matIdx})
		}
	}

	return out, nil
}

func readIndices(doc *gltf.Document, prim *gltf.Primitive) ([]uint32, error) {
	if prim.Indices == nil {
		return nil, nil
	}
	accessor := doc.Accessors[*prim.Indices]
	if accessor.ComponentType != gltf.ComponentUshort && accessor.ComponentType != gltf.ComponentUint {
		return nil, fmt.Errorf("index accessor must be componentType 5123 or 5125, got %d", accessor.ComponentType)
	}
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("index accessor must be type SCALAR")
	}
	indices, err := modeler.ReadIndices(doc, accessor, nil)
	if err != nil {
		return nil, fmt.Errorf("reading indices: %w", err)
	}
	return indices, nil
}

func buildCamera(cam *gltf.Camera, world math.Mat4, aspect float32) *scenepkg.Camera {
	fovX := float32(1.0)
	if cam.Perspective != nil && cam.Perspective.Yfov != 0 {
		yfov := float32(cam.Perspective.Yfov)
		camAspect := aspect
		if cam.Perspective.AspectRatio != nil && *cam.Perspective.AspectRatio != 0 {
			camAspect = 1 / float32(*cam.Perspective.AspectRatio)
		}
		fovX = 2 * atan(tan(yfov/2)/camAspect)
	}

	position := world.MulVec3(math.Vec3{})
	right := world.MulVec3(math.Vec3{X: 1}).Sub(position).Normalize()
	up := world.MulVec3(math.Vec3{Y: 1}).Sub(position).Normalize()
	forward := world.MulVec3(math.Vec3{Z: -1}).Sub(position).Normalize()

	tanHalfX := tan(fovX / 2)
	return &scenepkg.Camera{
		Position:    position,
		Right:       right,
		Up:          up,
		Forward:     forward,
		TanHalfFovX: tanHalfX,
		TanHalfFovY: aspect * tanHalfX,
	}
}

func loadMaterials(doc *gltf.Document) (material.Table, error) {
	table := make(material.Table, len(doc.Materials))
	for i, gm := range doc.Materials {
		m := material.Material{Color: math.Vec3One}

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			m.Color = math.Vec3{X: float32(cf[0]), Y: float32(cf[1]), Z: float32(cf[2])}

			switch {
			case cf[3] < 1:
				m.Kind = material.Dielectric
				m.IOR = dielectricIOR
			case pbr.MetallicFactorOrDefault() > 0:
				m.Kind = material.Metallic
			default:
				m.Kind = material.Diffuse
			}
		}

		ef := gm.EmissiveFactor
		emission := math.Vec3{X: float32(ef[0]), Y: float32(ef[1]), Z: float32(ef[2])}
		if strength, ok := emissiveStrength(gm); ok {
			emission = emission.Mul(strength)
		}
		m.Emission = emission

		table[i] = m
	}
	if len(table) == 0 {
		table = material.Table{{Color: math.Vec3One, Kind: material.Diffuse}}
	}
	return table, nil
}

// emissiveStrength reads extensions.KHR_materials_emissive_strength if
// present; the gltf library exposes unregistered extensions as raw JSON.
func emissiveStrength(gm *gltf.Material) (float32, bool) {
	raw, ok := gm.Extensions["KHR_materials_emissive_strength"]
	if !ok {
		return 0, false
	}
	var obj map[string]interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		obj = v
	case json.RawMessage:
		if err := json.Unmarshal(v, &obj); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	v, ok := obj["emissiveStrength"]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return float32(f), true
}

func tan(x float32) float32 {
	return float32(stdmath.Tan(float64(x)))
}

func atan(x float32) float32 {
	return float32(stdmath.Atan(float64(x)))
}

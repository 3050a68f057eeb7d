package gltfio

import (
	"testing"

	"github.com/qmuntal/gltf"

	"pathtracer/material"
	"pathtracer/math"
)

func TestLoadMaterialsDerivesKindFromBaseColorAndMetallic(t *testing.T) {
	doc := &gltf.Document{
		Materials: []*gltf.Material{
			{
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float32{1, 0, 0, 0.5},
				},
			},
			{
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float32{0, 1, 0, 1},
					MetallicFactor:  float64Ptr(1),
				},
			},
			{
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float32{0, 0, 1, 1},
				},
				EmissiveFactor: [3]float32{2, 2, 2},
			},
		},
	}

	table, err := loadMaterials(doc)
	if err != nil {
		t.Fatalf("loadMaterials: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("expected 3 materials, got %d", len(table))
	}
	if table[0].Kind != material.Dielectric || table[0].IOR != dielectricIOR {
		t.Errorf("alpha<1 material should be dielectric with ior %v, got %+v", dielectricIOR, table[0])
	}
	if table[1].Kind != material.Metallic {
		t.Errorf("metallicFactor>0 material should be metallic, got %+v", table[1])
	}
	if table[2].Kind != material.Diffuse {
		t.Errorf("opaque non-metallic material should be diffuse, got %+v", table[2])
	}
	if !table[2].IsEmissive() {
		t.Errorf("material with nonzero emissiveFactor should be emissive, got %+v", table[2])
	}
}

func TestLoadMaterialsDefaultsToWhiteDiffuseWhenEmpty(t *testing.T) {
	table, err := loadMaterials(&gltf.Document{})
	if err != nil {
		t.Fatalf("loadMaterials: %v", err)
	}
	if len(table) != 1 || table[0].Kind != material.Diffuse {
		t.Errorf("empty document should get one default diffuse material, got %+v", table)
	}
}

func TestEmissiveStrengthScalesEmission(t *testing.T) {
	gm := &gltf.Material{
		EmissiveFactor: [3]float32{1, 1, 1},
		Extensions: map[string]interface{}{
			"KHR_materials_emissive_strength": map[string]interface{}{"emissiveStrength": 5.0},
		},
	}
	doc := &gltf.Document{Materials: []*gltf.Material{gm}}

	table, err := loadMaterials(doc)
	if err != nil {
		t.Fatalf("loadMaterials: %v", err)
	}
	want := math.Vec3{X: 5, Y: 5, Z: 5}
	if table[0].Emission != want {
		t.Errorf("emission = %+v, want %+v", table[0].Emission, want)
	}
}

func TestNodeMatrixAppliesTranslation(t *testing.T) {
	n := &gltf.Node{
		Translation: [3]float64{1, 2, 3},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{1, 1, 1},
	}
	m := nodeMatrix(n)
	got := m.MulVec3(math.Vec3{})
	want := math.Vec3{X: 1, Y: 2, Z: 3}
	if got != want {
		t.Errorf("nodeMatrix translation = %+v, want %+v", got, want)
	}
}

func TestBuildCameraDerivesOrthonormalBasis(t *testing.T) {
	yfov := 1.0
	cam := &gltf.Camera{
		Perspective: &gltf.Perspective{Yfov: yfov},
	}
	sc := buildCamera(cam, math.Mat4Identity(), 1.0)

	if sc.Forward.Dot(math.Vec3{Z: -1}) < 0.999 {
		t.Errorf("identity-transform camera should face -Z, got %+v", sc.Forward)
	}
	if sc.TanHalfFovX <= 0 {
		t.Errorf("expected a positive half-fov tangent, got %v", sc.TanHalfFovX)
	}
}

func float64Ptr(v float64) *float64 { return &v }

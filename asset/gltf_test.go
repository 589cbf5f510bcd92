package asset

import (
	"path/filepath"
	"testing"

	"github.com/Thrillerninja/go-raytracer/types"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLoadGltf(t *testing.T) {
	doc := gltf.NewDocument()

	rough := float32(0.25)
	doc.Materials = append(doc.Materials, &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{0.8, 0.2, 0.1, 1},
			RoughnessFactor: &rough,
		},
		EmissiveFactor: [3]float32{1.5, 0, 0},
	})

	matIndex := uint32(0)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2, 2, 1, 3})),
			Attributes: map[string]uint32{
				gltf.POSITION: modeler.WritePosition(doc, [][3]float32{
					{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
				}),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, [][2]float32{
					{0, 0}, {1, 0}, {0, 1}, {1, 1},
				}),
			},
			Material: &matIndex,
		}},
	})

	path := filepath.Join(t.TempDir(), "mesh.gltf")
	if err := gltf.Save(doc, path); err != nil {
		t.Fatal(err)
	}

	triangles, materials, err := LoadGltf(path, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(triangles) != 2 {
		t.Fatalf("expected 2 triangles; got %d", len(triangles))
	}
	if len(materials) != 1 {
		t.Fatalf("expected 1 converted material; got %d", len(materials))
	}

	for i, tri := range triangles {
		if tri.Material.MaterialId != 3 {
			t.Fatalf("[tri %d] expected material id 3; got %d", i, tri.Material.MaterialId)
		}
		expNormal := types.Vec3{0, 0, 1}
		if tri.Normal != expNormal {
			t.Fatalf("[tri %d] expected normal %v; got %v", i, expNormal, tri.Normal)
		}
	}

	if triangles[0].V1 != (types.Vec3{1, 0, 0}) {
		t.Fatalf("expected V1 (1,0,0); got %v", triangles[0].V1)
	}
	if triangles[1].UV[2] != (types.Vec2{1, 1}) {
		t.Fatalf("expected UV (1,1) for second triangle corner; got %v", triangles[1].UV[2])
	}

	mat := materials[0]
	if !floatsEqual(mat.Albedo[0], 0.8) || !floatsEqual(mat.Albedo[1], 0.2) || !floatsEqual(mat.Albedo[2], 0.1) {
		t.Fatalf("expected base color factor as albedo; got %v", mat.Albedo)
	}
	if !floatsEqual(mat.Roughness, 0.25) {
		t.Fatalf("expected roughness 0.25; got %f", mat.Roughness)
	}
	if !floatsEqual(mat.Emission, 1.5) {
		t.Fatalf("expected emission 1.5; got %f", mat.Emission)
	}
}

func TestLoadGltfWithoutIndices(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{
				gltf.POSITION: modeler.WritePosition(doc, [][3]float32{
					{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
				}),
			},
		}},
	})

	path := filepath.Join(t.TempDir(), "mesh.gltf")
	if err := gltf.Save(doc, path); err != nil {
		t.Fatal(err)
	}

	triangles, materials, err := LoadGltf(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(triangles) != 1 {
		t.Fatalf("expected 1 triangle from sequential vertices; got %d", len(triangles))
	}
	// The default material for an unassigned primitive stays diffuse white.
	if len(materials) != 1 || materials[0].Albedo != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected fallback material; got %v", materials)
	}
}

func TestLoadGltfMissingFile(t *testing.T) {
	if _, _, err := LoadGltf(filepath.Join(t.TempDir(), "missing.gltf"), 0); err == nil {
		t.Fatal("expected load error for missing file")
	}
}

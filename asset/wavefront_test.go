package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Thrillerninja/go-raytracer/types"
)

func TestLoadWavefront(t *testing.T) {
	payload := `
# quad + tri with tex coords
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
f 1 2 3
`
	objFile := writeTestFile(t, "mesh.obj", payload)

	triangles, err := LoadWavefront(objFile, PlainMaterialRef(2))
	if err != nil {
		t.Fatal(err)
	}

	// Quad triangulates into 2 triangles plus the standalone face.
	if len(triangles) != 3 {
		t.Fatalf("expected 3 triangles; got %d", len(triangles))
	}

	for i, tri := range triangles {
		if tri.Material.MaterialId != 2 {
			t.Fatalf("[tri %d] expected material id 2; got %d", i, tri.Material.MaterialId)
		}
		expNormal := types.Vec3{0, 0, 1}
		if tri.Normal != expNormal {
			t.Fatalf("[tri %d] expected normal %v; got %v", i, expNormal, tri.Normal)
		}
	}

	// Second fan triangle of the quad uses corners 0, 2, 3.
	if triangles[1].UV[1][0] != 1 || triangles[1].UV[1][1] != 1 {
		t.Fatalf("expected UV (1,1) for fan triangle corner; got %v", triangles[1].UV[1])
	}
}

func TestLoadWavefrontNegativeIndices(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	objFile := writeTestFile(t, "mesh.obj", payload)

	triangles, err := LoadWavefront(objFile, PlainMaterialRef(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(triangles) != 1 {
		t.Fatalf("expected 1 triangle; got %d", len(triangles))
	}
	if triangles[0].V1 != (types.Vec3{1, 0, 0}) {
		t.Fatalf("expected V1 (1,0,0); got %v", triangles[0].V1)
	}
}

func TestLoadWavefrontErrors(t *testing.T) {
	type spec struct {
		payload string
	}
	specs := []spec{
		{"v 0 0\nf 1 2 3\n"},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2\n"},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"v 0 0 0\n"},
	}

	for specIndex, s := range specs {
		objFile := writeTestFile(t, "mesh.obj", s.payload)
		if _, err := LoadWavefront(objFile, PlainMaterialRef(0)); err == nil {
			t.Fatalf("[spec %d] expected parse error", specIndex)
		}
	}
}

func writeTestFile(t *testing.T, name, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

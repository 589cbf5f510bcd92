package asset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Thrillerninja/go-raytracer/types"
)

// Read a wavefront OBJ file and convert its faces into a triangle list.
// Faces with more than 3 vertices are triangulated as a fan. All emitted
// triangles are assigned the given material reference.
func LoadWavefront(path string, material MaterialRef) ([]Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavefront: %s", err.Error())
	}
	defer f.Close()

	var (
		vertices  []types.Vec3
		texCoords []types.Vec2
		triangles []Triangle
		lineNum   int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("wavefront: %q line %d: %s", path, lineNum, err.Error())
			}
			vertices = append(vertices, v)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("wavefront: %q line %d: unsupported syntax for tex coord", path, lineNum)
			}
			u, err0 := strconv.ParseFloat(fields[1], 32)
			v, err1 := strconv.ParseFloat(fields[2], 32)
			if err0 != nil || err1 != nil {
				return nil, fmt.Errorf("wavefront: %q line %d: could not parse tex coord", path, lineNum)
			}
			texCoords = append(texCoords, types.Vec2{float32(u), float32(v)})
		case "f":
			tris, err := parseFace(fields[1:], vertices, texCoords, material)
			if err != nil {
				return nil, fmt.Errorf("wavefront: %q line %d: %s", path, lineNum, err.Error())
			}
			triangles = append(triangles, tris...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wavefront: %q: %s", path, err.Error())
	}

	if len(triangles) == 0 {
		return nil, fmt.Errorf("wavefront: %q: no faces found", path)
	}
	return triangles, nil
}

func parseVec3(fields []string) (types.Vec3, error) {
	if len(fields) < 3 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for vertex")
	}
	var out types.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return types.Vec3{}, fmt.Errorf("could not parse coord %d", i)
		}
		out[i] = float32(val)
	}
	return out, nil
}

// Triangulate a face entry as a fan anchored on the first vertex. Each
// corner uses the v/vt/vn index syntax; missing tex coord indices yield
// zero UVs and the face normal is always derived geometrically.
func parseFace(fields []string, vertices []types.Vec3, texCoords []types.Vec2, material MaterialRef) ([]Triangle, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face requires at least 3 vertices")
	}

	faceVerts := make([]types.Vec3, len(fields))
	faceUVs := make([]types.Vec2, len(fields))
	for i, field := range fields {
		refs := strings.Split(field, "/")

		vIndex, err := resolveIndex(refs[0], len(vertices))
		if err != nil {
			return nil, fmt.Errorf("vertex ref %q: %s", field, err.Error())
		}
		faceVerts[i] = vertices[vIndex]

		if len(refs) > 1 && refs[1] != "" {
			tIndex, err := resolveIndex(refs[1], len(texCoords))
			if err != nil {
				return nil, fmt.Errorf("tex coord ref %q: %s", field, err.Error())
			}
			faceUVs[i] = texCoords[tIndex]
		}
	}

	triangles := make([]Triangle, 0, len(fields)-2)
	for i := 2; i < len(fields); i++ {
		tri := Triangle{
			V0:       faceVerts[0],
			V1:       faceVerts[i-1],
			V2:       faceVerts[i],
			UV:       [3]types.Vec2{faceUVs[0], faceUVs[i-1], faceUVs[i]},
			Material: material,
		}
		tri.Normal = tri.V1.Sub(tri.V0).Cross(tri.V2.Sub(tri.V0)).Normalize()
		triangles = append(triangles, tri)
	}
	return triangles, nil
}

// Resolve a 1-based OBJ index; negative values count back from the end of
// the list.
func resolveIndex(ref string, listLen int) (int, error) {
	index, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("could not parse index")
	}
	if index < 0 {
		index += listLen
	} else {
		index--
	}
	if index < 0 || index >= listLen {
		return 0, fmt.Errorf("index out of range")
	}
	return index, nil
}

package asset

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// A fully assembled scene in the flattened layout the tracing kernels
// consume. All slices are immutable for the session once the scene has
// been handed to a renderer.
type Scene struct {
	// Explicit analytic primitives, intersected by linear scan.
	Spheres []Sphere

	// Mesh primitives, intersected through the BVH.
	Triangles []Triangle

	// Flattened BVH over Triangles and the primitive index permutation
	// its leaves reference.
	BvhNodes   []BvhNode
	BvhIndices []uint32

	Materials []Material

	// Texture maps addressed by the id slots in MaterialRef.
	Textures []*Texture

	Background Background

	// Optional equirectangular environment map; nil selects the
	// procedural sky gradient.
	EnvTexture *Texture

	// The scene camera.
	Camera *Camera
}

// Look up a material by id; out of range or unassigned ids resolve to the
// default material.
func (sc *Scene) MaterialById(id int32) Material {
	if id < 0 || int(id) >= len(sc.Materials) {
		return DefaultMaterial()
	}
	return sc.Materials[id]
}

// Look up a texture by id; unassigned ids resolve to nil.
func (sc *Scene) TextureById(id int32) *Texture {
	if id < 0 || int(id) >= len(sc.Textures) {
		return nil
	}
	return sc.Textures[id]
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Size"})
	table.Append([]string{"Geometry", "---", fmtSize(sc.Spheres, sc.Triangles, sc.BvhNodes, sc.BvhIndices)})
	table.Append([]string{"", fmt.Sprintf("Spheres (%d)", len(sc.Spheres)), fmtSize(sc.Spheres)})
	table.Append([]string{"", fmt.Sprintf("Triangles (%d)", len(sc.Triangles)), fmtSize(sc.Triangles)})
	table.Append([]string{"", fmt.Sprintf("BVH nodes (%d)", len(sc.BvhNodes)), fmtSize(sc.BvhNodes)})
	table.Append([]string{"", "BVH indices", fmtSize(sc.BvhIndices)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", fmt.Sprintf("(%d)", len(sc.Materials)), fmtSize(sc.Materials)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Textures", fmt.Sprintf("(%d)", len(sc.Textures)), fmtSize(texData(sc.Textures)...)})
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(append(texData(sc.Textures), sc.Spheres, sc.Triangles, sc.BvhNodes, sc.BvhIndices, sc.Materials)...), " ")})

	table.Render()
	return buf.String()
}

func texData(textures []*Texture) []interface{} {
	out := make([]interface{}, len(textures))
	for i, tex := range textures {
		out[i] = tex.Pix
	}
	return out
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}

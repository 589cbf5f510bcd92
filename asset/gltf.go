package asset

import (
	"fmt"

	"github.com/Thrillerninja/go-raytracer/types"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Load triangle meshes from a glTF 2.0 asset. Each primitive contributes
// one converted material; its triangles reference that material at
// materialBase plus the primitive ordinal, so callers append the returned
// materials to their scene list starting at materialBase.
func LoadGltf(path string, materialBase int32) ([]Triangle, []Material, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gltf: %s", err.Error())
	}

	var triangles []Triangle
	var materials []Material

	for meshIndex, mesh := range doc.Meshes {
		for primIndex, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}

			posIndex, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				return nil, nil, fmt.Errorf("gltf: mesh %d primitive %d: missing position data", meshIndex, primIndex)
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("gltf: mesh %d primitive %d: %s", meshIndex, primIndex, err.Error())
			}

			var uvs [][2]float32
			if uvIndex, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIndex], nil)
				if err != nil {
					return nil, nil, fmt.Errorf("gltf: mesh %d primitive %d: %s", meshIndex, primIndex, err.Error())
				}
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, nil, fmt.Errorf("gltf: mesh %d primitive %d: %s", meshIndex, primIndex, err.Error())
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}
			if len(indices)%3 != 0 {
				return nil, nil, fmt.Errorf("gltf: mesh %d primitive %d: index count not a multiple of 3", meshIndex, primIndex)
			}

			matRef := PlainMaterialRef(materialBase + int32(len(materials)))
			materials = append(materials, convertGltfMaterial(doc, prim.Material))

			for i := 0; i < len(indices); i += 3 {
				tri := Triangle{
					V0:       types.Vec3(positions[indices[i]]),
					V1:       types.Vec3(positions[indices[i+1]]),
					V2:       types.Vec3(positions[indices[i+2]]),
					Material: matRef,
				}
				tri.Normal = tri.V1.Sub(tri.V0).Cross(tri.V2.Sub(tri.V0)).Normalize()
				if uvs != nil {
					tri.UV[0] = types.Vec2(uvs[indices[i]])
					tri.UV[1] = types.Vec2(uvs[indices[i+1]])
					tri.UV[2] = types.Vec2(uvs[indices[i+2]])
				}
				triangles = append(triangles, tri)
			}
		}
	}

	return triangles, materials, nil
}

// Convert a glTF PBR material into the renderer's material model. Metallic
// workflow parameters that have no counterpart here (attenuation, ior) use
// fixed defaults; emission keeps only the first emissive channel.
func convertGltfMaterial(doc *gltf.Document, matIndex *uint32) Material {
	mat := Material{
		Albedo:      types.Vec3{1, 1, 1},
		Attenuation: types.Vec3{0.6, 0.6, 0.6},
		Roughness:   1.0,
	}
	if matIndex == nil || int(*matIndex) >= len(doc.Materials) {
		return mat
	}

	src := doc.Materials[*matIndex]
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			mat.Albedo = types.Vec3{f[0], f[1], f[2]}
		}
		if r := pbr.RoughnessFactor; r != nil {
			mat.Roughness = *r
		}
	}
	mat.Emission = src.EmissiveFactor[0]

	return mat
}

package asset

import "github.com/Thrillerninja/go-raytracer/types"

// Surface parameters for a scene material.
//
// Ior > 0 marks a dielectric surface; Emission > 0 marks a light source
// which terminates scattering.
type Material struct {
	// Surface color.
	Albedo types.Vec3

	// Per-bounce energy multiplier.
	Attenuation types.Vec3

	// 0 = mirror, 1 = fully diffuse.
	Roughness float32

	// 0 = no emission; emissive strength otherwise.
	Emission float32

	// Index of refraction; 0 for opaque surfaces.
	Ior float32
}

// Create a default white material.
func DefaultMaterial() Material {
	return Material{
		Albedo:      types.Vec3{1, 1, 1},
		Attenuation: types.Vec3{1, 1, 1},
		Roughness:   0.5,
	}
}

// Background/environment settings. With a texture assigned the environment
// is sampled from an equirectangular map; otherwise a procedural sky
// gradient is used.
type Background struct {
	MaterialId int32
	TextureId  int32
	Intensity  float32
}

// Create the default untextured background.
func DefaultBackground() Background {
	return Background{
		MaterialId: NoId,
		TextureId:  NoId,
		Intensity:  1.0,
	}
}

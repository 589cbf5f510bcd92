package cpu

import (
	"math"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/types"
)

// Offset applied to scattered ray origins to avoid immediate
// self-re-intersection.
const normalOffset float32 = 1e-3

// The nearest hit found for a ray. Exactly one of sphereIndex/triIndex is
// assigned on a hit; both hold -1 on a miss.
type hitRecord struct {
	dist        float32
	sphereIndex int32
	triIndex    int32

	// BVH nodes visited while searching; feeds the heatmap debug view.
	visited uint32
}

func (h *hitRecord) miss() bool {
	return h.sphereIndex == -1 && h.triIndex == -1
}

// Resolved surface data at a hit point.
type surface struct {
	point     types.Vec3
	normal    types.Vec3
	uv        types.Vec2
	mat       asset.Material
	albedo    types.Vec3
	roughness float32
}

// Find the nearest hit among explicit spheres (linear scan) and
// BVH-accelerated triangles.
func nearestHit(sc *asset.Scene, origin, dir types.Vec3, maxDist float32) hitRecord {
	rec := hitRecord{
		dist:        maxDist,
		sphereIndex: -1,
		triIndex:    -1,
	}

	for sphereIndex := range sc.Spheres {
		t := intersectSphere(origin, dir, &sc.Spheres[sphereIndex])
		if t > 0 && t < rec.dist {
			rec.dist = t
			rec.sphereIndex = int32(sphereIndex)
		}
	}

	triIndex, dist, visited := traverseBvh(sc, origin, dir, rec.dist)
	rec.visited = visited
	if triIndex != -1 {
		rec.dist = dist
		rec.triIndex = triIndex
		rec.sphereIndex = -1
	}

	return rec
}

// Run the iterative bounce loop for one primary ray and return its
// radiance sample.
func tracePath(sc *asset.Scene, cfg *asset.ShaderConfig, origin, dir types.Vec3, rnd *rng) types.Vec3 {
	color := types.Vec3{1, 1, 1}
	weight := types.Vec3{1, 1, 1}

	for depth := int32(0); depth <= cfg.MaxBounces; depth++ {
		rec := nearestHit(sc, origin, dir, cfg.MaxRayDistance)
		if rec.miss() {
			return color.MulVec(weight).MulVec(backgroundColor(sc, dir))
		}

		surf := resolveSurface(sc, &rec, origin, dir)

		// Emissive surfaces terminate the path.
		if surf.mat.Emission > 0 {
			return color.MulVec(weight).MulVec(surf.albedo).Mul(surf.mat.Emission)
		}

		origin, dir = scatter(&surf, dir, rnd)
		color = color.MulVec(surf.albedo)
		weight = weight.MulVec(surf.mat.Attenuation)
	}

	// Bounce budget exhausted; soft cutoff.
	return color.MulVec(weight)
}

// Resolve the hit surface: position, shading normal, UVs and the texture
// modulated material parameters.
func resolveSurface(sc *asset.Scene, rec *hitRecord, origin, dir types.Vec3) surface {
	var surf surface
	surf.point = origin.Add(dir.Mul(rec.dist))

	var matRef asset.MaterialRef
	if rec.sphereIndex != -1 {
		sp := &sc.Spheres[rec.sphereIndex]
		matRef = sp.Material
		surf.normal = surf.point.Sub(sp.Center).Mul(1.0 / sp.Radius)
		surf.uv = sphereUV(surf.normal)
	} else {
		tri := &sc.Triangles[rec.triIndex]
		matRef = tri.Material
		surf.normal = tri.Normal

		// Two-sided shading.
		if dir.Dot(surf.normal) > 0 {
			surf.normal = surf.normal.Mul(-1)
		}

		_, u, v := intersectTriangle(origin, dir, tri)
		surf.uv = tri.UV[0].Mul(1.0 - u - v).
			Add(tri.UV[1].Mul(u)).
			Add(tri.UV[2].Mul(v))
	}

	surf.mat = sc.MaterialById(matRef.MaterialId)
	surf.albedo = surf.mat.Albedo
	surf.roughness = surf.mat.Roughness

	if tex := sc.TextureById(matRef.DiffuseTexId); tex != nil {
		surf.albedo = tex.Sample(surf.uv[0], surf.uv[1])
	}
	if tex := sc.TextureById(matRef.RoughnessTexId); tex != nil {
		surf.roughness = tex.Sample(surf.uv[0], surf.uv[1])[0]
	}
	if tex := sc.TextureById(matRef.NormalTexId); tex != nil {
		surf.normal = perturbNormal(surf.normal, tex.Sample(surf.uv[0], surf.uv[1]))
	}

	return surf
}

// Pick exactly one scatter behavior and return the new ray.
func scatter(surf *surface, dir types.Vec3, rnd *rng) (types.Vec3, types.Vec3) {
	unitDir := dir.Normalize()

	if surf.mat.Ior > 0 {
		return scatterDielectric(surf, unitDir, rnd)
	}

	// Reflect about the surface normal perturbed by a roughness-scaled
	// random unit-sphere offset. Mirrors use roughness 0.
	newDir := reflect(unitDir, surf.normal).Add(rnd.unitSphere().Mul(surf.roughness))
	newOrigin := surf.point.Add(surf.normal.Mul(normalOffset))
	return newOrigin, newDir
}

func scatterDielectric(surf *surface, unitDir types.Vec3, rnd *rng) (types.Vec3, types.Vec3) {
	outwardNormal := surf.normal
	ratio := 1.0 / surf.mat.Ior
	if unitDir.Dot(surf.normal) > 0 {
		// Exiting the surface.
		outwardNormal = surf.normal.Mul(-1)
		ratio = surf.mat.Ior
	}

	cosTheta := -unitDir.Dot(outwardNormal)
	if cosTheta > 1 {
		cosTheta = 1
	}
	sinThetaSq := 1.0 - cosTheta*cosTheta

	var newDir types.Vec3
	cannotRefract := ratio*ratio*sinThetaSq > 1.0
	if cannotRefract || schlick(cosTheta, ratio) > rnd.next() {
		newDir = reflect(unitDir, outwardNormal)
	} else {
		newDir = refract(unitDir, outwardNormal, ratio, cosTheta)
	}

	// Offset towards the side of the surface the new ray travels in.
	offsetNormal := outwardNormal
	if newDir.Dot(outwardNormal) < 0 {
		offsetNormal = outwardNormal.Mul(-1)
	}
	return surf.point.Add(offsetNormal.Mul(normalOffset)), newDir
}

func reflect(v, n types.Vec3) types.Vec3 {
	return v.Sub(n.Mul(2.0 * v.Dot(n)))
}

func refract(v, n types.Vec3, ratio, cosTheta float32) types.Vec3 {
	outPerp := v.Add(n.Mul(cosTheta)).Mul(ratio)
	parallelSq := 1.0 - outPerp.LenSq()
	if parallelSq < 0 {
		parallelSq = -parallelSq
	}
	outParallel := n.Mul(-float32(math.Sqrt(float64(parallelSq))))
	return outPerp.Add(outParallel)
}

// Schlick approximation of the Fresnel reflectance.
func schlick(cosTheta, ratio float32) float32 {
	r0 := (1.0 - ratio) / (1.0 + ratio)
	r0 = r0 * r0
	return r0 + (1.0-r0)*float32(math.Pow(float64(1.0-cosTheta), 5))
}

// Background/environment radiance for a ray that escapes the scene. An
// assigned environment texture takes precedence over the procedural sky
// gradient; a background material tints the result.
func backgroundColor(sc *asset.Scene, dir types.Vec3) types.Vec3 {
	var col types.Vec3
	if sc.EnvTexture != nil {
		col = sc.EnvTexture.SampleEquirect(dir)
	} else {
		unit := dir.Normalize()
		t := 0.5 * (unit[1] + 1.0)
		col = types.Vec3{1, 1, 1}.Mix(types.Vec3{0.5, 0.7, 1.0}, t)
	}

	if sc.Background.MaterialId != asset.NoId {
		col = col.MulVec(sc.MaterialById(sc.Background.MaterialId).Albedo)
	}
	return col.Mul(sc.Background.Intensity)
}

// Map a unit sphere normal to equirectangular UV coordinates.
func sphereUV(normal types.Vec3) types.Vec2 {
	u := 0.5 + float32(math.Atan2(float64(normal[2]), float64(normal[0])))/twoPi
	v := 0.5 - float32(math.Asin(float64(normal[1])))/math.Pi
	return types.Vec2{u, v}
}

// Rotate a tangent-space normal map sample into world space around the
// geometric normal.
func perturbNormal(normal, sample types.Vec3) types.Vec3 {
	helper := types.Vec3{0, 1, 0}
	if normal[1] > 0.99 || normal[1] < -0.99 {
		helper = types.Vec3{1, 0, 0}
	}
	tangent := normal.Cross(helper).Normalize()
	bitangent := normal.Cross(tangent)

	mapped := sample.Mul(2.0).Sub(types.Vec3{1, 1, 1})
	return tangent.Mul(mapped[0]).
		Add(bitangent.Mul(mapped[1])).
		Add(normal.Mul(mapped[2])).
		Normalize()
}

package asset

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Thrillerninja/go-raytracer/log"
	"github.com/Thrillerninja/go-raytracer/types"
)

var readerLogger = log.New("scene reader")

// The on-disk TOML scene description. Everything apart from the camera is
// optional. All relative resource paths are resolved against the config
// file location.
type sceneConfig struct {
	Camera     cameraConfig      `toml:"camera"`
	Materials  []materialConfig  `toml:"materials"`
	Textures   []textureConfig   `toml:"textures"`
	Background *backgroundConfig `toml:"background"`
	Spheres    []sphereConfig    `toml:"spheres"`
	ModelPaths modelPathsConfig  `toml:"3d_model_paths"`
}

type cameraConfig struct {
	Position []float32 `toml:"position"`
	Rotation []float32 `toml:"rotation"`
	NearFar  []float32 `toml:"near_far"`
	FOV      float32   `toml:"fov"`
}

type materialConfig struct {
	Color       []float32 `toml:"color"`
	Attenuation []float32 `toml:"attenuation"`
	Roughness   float32   `toml:"roughness"`
	Emission    float32   `toml:"emission"`
	Ior         float32   `toml:"ior"`
}

type textureConfig struct {
	Diffuse   string `toml:"diffuse"`
	Normal    string `toml:"normal"`
	Roughness string `toml:"roughness"`
}

type backgroundConfig struct {
	MaterialId     int32   `toml:"material_id"`
	BackgroundPath string  `toml:"background_path"`
	Intensity      float32 `toml:"intensity"`
}

type sphereConfig struct {
	Position   []float32 `toml:"position"`
	Radius     float32   `toml:"radius"`
	MaterialId int32     `toml:"material_id"`
	TextureId  []int32   `toml:"texture_id"`
}

type modelPathsConfig struct {
	GltfPath      string `toml:"gltf_path"`
	ObjPath       string `toml:"obj_path"`
	ObjMaterialId int32  `toml:"obj_material_id"`
}

// Read a TOML scene description and assemble a scene from it. The returned
// scene does not yet contain BVH data; the caller is expected to run the
// BVH builder over the triangle list.
func ReadScene(path string) (*Scene, error) {
	start := time.Now()
	readerLogger.Noticef(`parsing scene from "%s"`, path)

	var cfg sceneConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("scene reader: %s", err.Error())
	}

	baseDir := filepath.Dir(path)
	sc := &Scene{
		Background: DefaultBackground(),
	}

	camera, err := parseCamera(&cfg.Camera)
	if err != nil {
		return nil, err
	}
	sc.Camera = camera

	for _, matCfg := range cfg.Materials {
		mat, err := parseMaterial(&matCfg)
		if err != nil {
			return nil, err
		}
		sc.Materials = append(sc.Materials, mat)
	}

	// Each texture set contributes its assigned maps to the flat scene
	// texture list in declaration order (diffuse, normal, roughness).
	// Primitive texture_id entries index directly into that list.
	for setIndex, texCfg := range cfg.Textures {
		for _, texPath := range []string{texCfg.Diffuse, texCfg.Normal, texCfg.Roughness} {
			if texPath == "" {
				continue
			}
			tex, err := LoadTexture(resolvePath(baseDir, texPath))
			if err != nil {
				return nil, fmt.Errorf("scene reader: texture set %d: %s", setIndex, err.Error())
			}
			sc.Textures = append(sc.Textures, tex)
		}
	}

	if cfg.Background != nil {
		sc.Background = Background{
			MaterialId: cfg.Background.MaterialId,
			TextureId:  NoId,
			Intensity:  cfg.Background.Intensity,
		}
		if cfg.Background.BackgroundPath != "" {
			tex, err := LoadTexture(resolvePath(baseDir, cfg.Background.BackgroundPath))
			if err != nil {
				return nil, fmt.Errorf("scene reader: background: %s", err.Error())
			}
			sc.EnvTexture = tex
		}
	}

	for sphereIndex, sphereCfg := range cfg.Spheres {
		sphere, err := parseSphere(&sphereCfg)
		if err != nil {
			return nil, fmt.Errorf("scene reader: sphere %d: %s", sphereIndex, err.Error())
		}
		sc.Spheres = append(sc.Spheres, sphere)
	}

	if cfg.ModelPaths.ObjPath != "" {
		triangles, err := LoadWavefront(
			resolvePath(baseDir, cfg.ModelPaths.ObjPath),
			PlainMaterialRef(cfg.ModelPaths.ObjMaterialId),
		)
		if err != nil {
			return nil, fmt.Errorf("scene reader: %s", err.Error())
		}
		sc.Triangles = triangles
	}

	// glTF models carry their own materials; these are appended after the
	// ones declared in the scene file.
	if cfg.ModelPaths.GltfPath != "" {
		triangles, materials, err := LoadGltf(
			resolvePath(baseDir, cfg.ModelPaths.GltfPath),
			int32(len(sc.Materials)),
		)
		if err != nil {
			return nil, fmt.Errorf("scene reader: %s", err.Error())
		}
		sc.Triangles = append(sc.Triangles, triangles...)
		sc.Materials = append(sc.Materials, materials...)
	}

	readerLogger.Noticef(
		"parsed scene in %d ms (%d spheres, %d triangles, %d materials, %d textures)",
		time.Since(start).Nanoseconds()/1e6,
		len(sc.Spheres), len(sc.Triangles), len(sc.Materials), len(sc.Textures),
	)
	return sc, nil
}

func parseCamera(cfg *cameraConfig) (*Camera, error) {
	if len(cfg.Position) != 3 {
		return nil, fmt.Errorf("scene reader: camera: position requires 3 components")
	}
	if len(cfg.Rotation) != 2 {
		return nil, fmt.Errorf("scene reader: camera: rotation requires 2 components")
	}
	if cfg.FOV <= 0 {
		return nil, fmt.Errorf("scene reader: camera: missing or invalid fov")
	}

	camera := NewCamera(cfg.FOV)
	camera.Position = types.Vec3{cfg.Position[0], cfg.Position[1], cfg.Position[2]}
	camera.Yaw = cfg.Rotation[0]
	camera.Pitch = cfg.Rotation[1]
	if len(cfg.NearFar) == 2 {
		camera.Near = cfg.NearFar[0]
		camera.Far = cfg.NearFar[1]
	}
	camera.Update()
	return camera, nil
}

func parseMaterial(cfg *materialConfig) (Material, error) {
	if len(cfg.Color) != 3 || len(cfg.Attenuation) != 3 {
		return Material{}, fmt.Errorf("scene reader: material: color and attenuation require 3 components")
	}
	return Material{
		Albedo:      types.Vec3{cfg.Color[0], cfg.Color[1], cfg.Color[2]},
		Attenuation: types.Vec3{cfg.Attenuation[0], cfg.Attenuation[1], cfg.Attenuation[2]},
		Roughness:   cfg.Roughness,
		Emission:    cfg.Emission,
		Ior:         cfg.Ior,
	}, nil
}

func parseSphere(cfg *sphereConfig) (Sphere, error) {
	if len(cfg.Position) != 3 {
		return Sphere{}, fmt.Errorf("position requires 3 components")
	}
	if cfg.Radius <= 0 {
		return Sphere{}, fmt.Errorf("missing or invalid radius")
	}

	matRef := PlainMaterialRef(cfg.MaterialId)
	if len(cfg.TextureId) == 3 {
		matRef.DiffuseTexId = cfg.TextureId[0]
		matRef.RoughnessTexId = cfg.TextureId[1]
		matRef.NormalTexId = cfg.TextureId[2]
	} else if len(cfg.TextureId) != 0 {
		return Sphere{}, fmt.Errorf("texture_id requires 3 components")
	}

	return Sphere{
		Center:   types.Vec3{cfg.Position[0], cfg.Position[1], cfg.Position[2]},
		Radius:   cfg.Radius,
		Material: matRef,
	}, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

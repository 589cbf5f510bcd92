package asset

// Selects the behavior of one denoiser pass.
type FilterKind int32

const (
	// Arithmetic mean over a square neighborhood of the color buffer.
	FilterSpatialBox FilterKind = iota

	// Spatial+color Gaussian weighting over the temporal buffer.
	FilterBilateral

	// Patch-similarity weighting over the color buffer.
	FilterNonLocalMeans

	// History blend with a fixed threshold ramp.
	FilterTemporalBasic

	// History blend bypassed while the camera moves.
	FilterTemporalAdaptive
)

// Per-frame kernel settings. The host refreshes this record every frame;
// kernels treat it as read-only.
type ShaderConfig struct {
	// Ray tracing.
	MaxBounces      int32   `toml:"max_bounces"`
	SamplesPerPixel int32   `toml:"samples_per_pixel"`
	MaxRayDistance  float32 `toml:"max_ray_distance"`

	// Depth of field.
	FocusDistance float32 `toml:"focus_distance"`
	Aperture      float32 `toml:"aperture"`
	LensRadius    float32 `toml:"lens_radius"`

	// Debug visualizations.
	DebugRandColor bool `toml:"debug_rand_color"`
	DebugBvhHeat   bool `toml:"debug_bvh_heat"`
	DebugNormals   bool `toml:"debug_normals"`

	// Filter kind per denoiser pass.
	FirstPass  FilterKind `toml:"first_pass"`
	SecondPass FilterKind `toml:"second_pass"`

	// Fixed temporal blend.
	TemporalBasicLowThreshold    float32 `toml:"temporal_basic_low_threshold"`
	TemporalBasicHighThreshold   float32 `toml:"temporal_basic_high_threshold"`
	TemporalBasicLowBlendFactor  float32 `toml:"temporal_basic_low_blend_factor"`
	TemporalBasicHighBlendFactor float32 `toml:"temporal_basic_high_blend_factor"`

	// Adaptive temporal blend.
	TemporalAdaptiveMotionThreshold    float32 `toml:"temporal_adaptive_motion_threshold"`
	TemporalAdaptiveDirectionThreshold float32 `toml:"temporal_adaptive_direction_threshold"`
	TemporalAdaptiveLowThreshold       float32 `toml:"temporal_adaptive_low_threshold"`
	TemporalAdaptiveHighThreshold      float32 `toml:"temporal_adaptive_high_threshold"`
	TemporalAdaptiveLowBlendFactor     float32 `toml:"temporal_adaptive_low_blend_factor"`
	TemporalAdaptiveHighBlendFactor    float32 `toml:"temporal_adaptive_high_blend_factor"`

	// Spatial box filter.
	SpatialKernelSize int32 `toml:"spatial_kernel_size"`

	// Bilateral filter.
	SpatialBilatSpaceSigma float32 `toml:"spatial_bilat_space_sigma"`
	SpatialBilatColorSigma float32 `toml:"spatial_bilat_color_sigma"`
	SpatialBilatRadius     int32   `toml:"spatial_bilat_radius"`

	// Non-local means filter.
	SpatialNlmCompareRadius     int32   `toml:"spatial_nlm_compare_radius"`
	SpatialNlmPatchRadius       int32   `toml:"spatial_nlm_patch_radius"`
	SpatialNlmSignificantWeight float32 `toml:"spatial_nlm_significant_weight"`
}

// Create a shader config with the stock settings.
func DefaultShaderConfig() ShaderConfig {
	return ShaderConfig{
		MaxBounces:      10,
		SamplesPerPixel: 1,
		MaxRayDistance:  10000.0,

		FocusDistance: 2.5,
		Aperture:      0.005,
		LensRadius:    0.0,

		FirstPass:  FilterTemporalAdaptive,
		SecondPass: FilterNonLocalMeans,

		TemporalBasicLowThreshold:    0.05,
		TemporalBasicHighThreshold:   0.2,
		TemporalBasicLowBlendFactor:  0.03,
		TemporalBasicHighBlendFactor: 0.2,

		TemporalAdaptiveMotionThreshold:    0.005,
		TemporalAdaptiveDirectionThreshold: 0.01,
		TemporalAdaptiveLowThreshold:       0.05,
		TemporalAdaptiveHighThreshold:      0.2,
		TemporalAdaptiveLowBlendFactor:     0.03,
		TemporalAdaptiveHighBlendFactor:    0.2,

		SpatialKernelSize: 3,

		SpatialBilatSpaceSigma: 100.0,
		SpatialBilatColorSigma: 20.0,
		SpatialBilatRadius:     3,

		SpatialNlmCompareRadius:     13,
		SpatialNlmPatchRadius:       5,
		SpatialNlmSignificantWeight: 0.001,
	}
}

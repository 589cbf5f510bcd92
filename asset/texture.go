package asset

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/Thrillerninja/go-raytracer/types"
	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"
)

// A decoded RGBA texture. Texel data is stored as float32 RGBA scaled to
// [0,1] so kernels can sample without per-lookup conversions.
type Texture struct {
	Width  int
	Height int
	Pix    []float32
}

// Load a texture from a png, jpeg or radiance hdr file. HDR texel values
// keep their full radiance range instead of being clamped to [0,1].
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %s", err.Error())
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %q: %s", path, err.Error())
	}

	if hdrImg, ok := img.(hdr.Image); ok {
		return newTextureFromHDRImage(hdrImg), nil
	}
	return NewTextureFromImage(img), nil
}

// Convert a decoded image into a sampleable texture.
func NewTextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := &Texture{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]float32, bounds.Dx()*bounds.Dy()*4),
	}

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			tex.Pix[offset] = float32(r) / 65535.0
			tex.Pix[offset+1] = float32(g) / 65535.0
			tex.Pix[offset+2] = float32(b) / 65535.0
			tex.Pix[offset+3] = float32(a) / 65535.0
			offset += 4
		}
	}

	return tex
}

// Convert a decoded high dynamic range image into a texture, preserving
// radiance values above 1.
func newTextureFromHDRImage(img hdr.Image) *Texture {
	bounds := img.Bounds()
	tex := &Texture{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]float32, bounds.Dx()*bounds.Dy()*4),
	}

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.HDRAt(x, y).HDRRGBA()
			tex.Pix[offset] = float32(r)
			tex.Pix[offset+1] = float32(g)
			tex.Pix[offset+2] = float32(b)
			tex.Pix[offset+3] = float32(a)
			offset += 4
		}
	}

	return tex
}

// Sample the texture at the given UV coordinates using bilinear filtering.
// Coordinates outside [0,1] wrap around.
func (t *Texture) Sample(u, v float32) types.Vec3 {
	u = wrap(u)
	v = wrap(v)

	fx := u * float32(t.Width-1)
	fy := v * float32(t.Height-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= t.Width {
		x1 = t.Width - 1
	}
	if y1 >= t.Height {
		y1 = t.Height - 1
	}
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x1, y0)
	c01 := t.texel(x0, y1)
	c11 := t.texel(x1, y1)

	top := c00.Mix(c10, tx)
	bottom := c01.Mix(c11, tx)
	return top.Mix(bottom, ty)
}

// Sample the texture as an equirectangular environment map in the given
// direction.
func (t *Texture) SampleEquirect(dir types.Vec3) types.Vec3 {
	d := dir.Normalize()
	u := 0.5 + float32(math.Atan2(float64(d[2]), float64(d[0])))/(2.0*math.Pi)
	v := 0.5 - float32(math.Asin(float64(d[1])))/math.Pi
	return t.Sample(u, v)
}

func (t *Texture) texel(x, y int) types.Vec3 {
	offset := (y*t.Width + x) * 4
	return types.Vec3{t.Pix[offset], t.Pix[offset+1], t.Pix[offset+2]}
}

func wrap(v float32) float32 {
	v = v - float32(math.Floor(float64(v)))
	if v < 0 {
		v += 1.0
	}
	return v
}

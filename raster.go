package jpeg

// Raster is the decoded image: a read-only rectangular grid of RGB samples,
// already clamped to [0,255] by the colour converter. Collaborators (bmp,
// term) consume it through this view rather than reaching into the decoder.
type Raster struct {
	width, height int
	pix           []byte // row-major R,G,B, len == width*height*3
}

func newRaster(width, height uint16) *Raster {
	w, h := int(width), int(height)
	return &Raster{width: w, height: h, pix: make([]byte, w*h*3)}
}

// NewRaster allocates a blank width x height raster. Collaborators that
// build a Raster from a format other than JPEG (bmp.Decode) use this rather
// than reaching into unexported fields.
func NewRaster(width, height int) *Raster {
	return &Raster{width: width, height: height, pix: make([]byte, width*height*3)}
}

// Set writes the RGB sample at pixel (x, y). Exported for collaborators
// populating a Raster from a non-JPEG source.
func (r *Raster) Set(x, y int, red, green, blue uint8) {
	r.set(x, y, red, green, blue)
}

// Width returns the image width in pixels.
func (r *Raster) Width() int { return r.width }

// Height returns the image height in pixels.
func (r *Raster) Height() int { return r.height }

// At returns the RGB sample at pixel (x, y).
func (r *Raster) At(x, y int) (red, green, blue uint8) {
	i := (y*r.width + x) * 3
	return r.pix[i], r.pix[i+1], r.pix[i+2]
}

func (r *Raster) set(x, y int, red, green, blue uint8) {
	i := (y*r.width + x) * 3
	r.pix[i], r.pix[i+1], r.pix[i+2] = red, green, blue
}

// Package term renders a decoded raster to an ANSI 24-bit-colour terminal:
// one downsampling step shared by both axes, two space characters per
// sampled pixel carrying a background colour escape.
package term

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/term"

	jpeg "github.com/mbranch/termview"
)

const (
	background = "\x1b[48;2;%d;%d;%dm  "
	reset      = "\x1b[0m"
)

// Render writes r to w as ANSI background-colour blocks, downsampled to the
// terminal size reported for fd (typically the stdout file descriptor). If
// the terminal size can't be determined, the image is rendered 1:1.
func Render(w io.Writer, r *jpeg.Raster, fd int) error {
	termWidth, termHeight, err := term.GetSize(fd)
	if err != nil {
		termWidth, termHeight = r.Width(), r.Height()
	}
	return renderAt(w, r, termWidth, termHeight)
}

// renderAt is the downsampling rule, isolated from terminal detection so it
// can be tested without a real tty: step is the larger of the two axis
// ratios, applied uniformly so the image keeps its aspect ratio.
func renderAt(w io.Writer, r *jpeg.Raster, termWidth, termHeight int) error {
	step := 1
	if termWidth > 0 && termHeight > 0 {
		if s := maxInt(r.Width()/termWidth, r.Height()/termHeight); s > 1 {
			step = s
		}
	}

	bw := bufio.NewWriter(w)
	for y := 0; y < r.Height(); y += step {
		for x := 0; x < r.Width(); x += step {
			red, green, blue := r.At(x, y)
			if _, err := fmt.Fprintf(bw, background, red, green, blue); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(bw, reset+"\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package jpeg

import "math"

// AAN (Arai-Agui-Nakajima) scale and butterfly constants for the 8-point
// inverse DCT: S[0..7] pre-scale the input, M[1..5] drive the butterfly
// stage.
const (
	aanS0 = 2.828427124746190097603377448419
	aanS1 = 3.923141121612921796504728944537
	aanS2 = 3.695518130045147024512732757587
	aanS3 = 3.325878449210180948315153510472
	aanS4 = 2.828427124746190097603377448419
	aanS5 = 2.222280932078408898971323255794
	aanS6 = 1.530733729460359086913839936122
	aanS7 = 0.780361288064513071393139473908

	aanM1 = 1.414213562373095048801688724209
	aanM2 = 0.541196100146196984399723205367
	aanM3 = 1.414213562373095048801688724209
	aanM4 = 1.306562964876376527856643173427
	aanM5 = 0.382683432365089771728459984030
)

// aanButterfly8 applies the AAN 1-D inverse transform to eight coefficients.
func aanButterfly8(in [8]float64) [8]float64 {
	v15 := in[0] * aanS0
	v26 := in[1] * aanS1
	v21 := in[2] * aanS2
	v28 := in[3] * aanS3
	v16 := in[4] * aanS4
	v25 := in[5] * aanS5
	v22 := in[6] * aanS6
	v27 := in[7] * aanS7

	v19 := (v25 - v28) * 0.5
	v20 := (v26 - v27) * 0.5
	v23 := (v26 + v27) * 0.5
	v24 := (v25 + v28) * 0.5

	v7 := (v23 + v24) * 0.5
	v11 := (v21 + v22) * 0.5
	v13 := (v23 - v24) * 0.5
	v17 := (v21 - v22) * 0.5

	v8 := (v15 + v16) * 0.5
	v9 := (v15 - v16) * 0.5

	term := (v19 - v20) * aanM5
	// 1/(a2*a5 - a2*a4 - a4*a5) simplifies to -1, collapsing what would
	// otherwise be two divisions.
	v12 := term - v19*aanM4
	v14 := v20*aanM2 - term

	v6 := v14 - v7
	v5 := v13*aanM3 - v6
	v4 := -v5 - v12
	v10 := v17*aanM1 - v11

	v0 := (v8 + v11) * 0.5
	v1 := (v9 + v10) * 0.5
	v2 := (v9 - v10) * 0.5
	v3 := (v8 - v11) * 0.5

	return [8]float64{
		(v0 + v7) * 0.5, (v1 + v6) * 0.5, (v2 + v5) * 0.5, (v3 + v4) * 0.5,
		(v3 - v4) * 0.5, (v2 - v5) * 0.5, (v1 - v6) * 0.5, (v0 - v7) * 0.5,
	}
}

// inverseDCT8x8 transforms block in place: a row pass into a scratch plane
// followed by a column pass back into block, each an 8-point AAN inverse
// transform. Output is rounded to the nearest integer but neither
// level-shifted nor clamped; that is the colour converter's job.
func inverseDCT8x8(block *[64]int32) {
	var scratch [64]float64

	for row := 0; row < 8; row++ {
		var in [8]float64
		for col := 0; col < 8; col++ {
			in[col] = float64(block[row*8+col])
		}
		out := aanButterfly8(in)
		copy(scratch[row*8:row*8+8], out[:])
	}

	for col := 0; col < 8; col++ {
		var in [8]float64
		for row := 0; row < 8; row++ {
			in[row] = scratch[row*8+col]
		}
		out := aanButterfly8(in)
		for row := 0; row < 8; row++ {
			block[row*8+col] = int32(math.Round(out[row]))
		}
	}
}

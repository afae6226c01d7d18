package jpeg

// component is one colour component declared by SOF0 and (optionally)
// referenced by a scan's SOS. Sampling factors are fixed at 1 in this
// baseline decoder; readSOF0 rejects anything else as UnsupportedFeature.
type component struct {
	id                       uint8
	horizontalSamplingFactor uint8
	verticalSamplingFactor   uint8
	quantTableID             uint8
	dcTableID                uint8
	acTableID                uint8
	usedInFrame              bool
	usedInScan               bool
	previousDC               int32
}

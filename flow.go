package ecverify

import "math/bits"

// flowStep names one sub-step of the verification protocol
type flowStep uint64

const (
	stepImportSignature flowStep = iota + 1
	stepRangeCheck
	stepImportDigest
	stepTruncateDigest
	stepReduceDigest
	stepInvert
	stepMulU1
	stepMulU2
	stepPointCheck
	stepBuildTable
	stepPointMult
	stepPrecompute
	stepPointAdd
	stepToAffine
	stepReduceR
	stepCompareArith
	stepCompareBytes
	stepReimportParams
)

// flowMix is the 64-bit golden ratio, odd so that every step value spreads
// over the whole word
const flowMix = 0x9e3779b97f4a7c15

// flowMonitor keeps two checksums over the steps of a call: one fed by the
// steps as they execute and one fed by the steps the current state was
// expected to run. The checksum is order sensitive, so a skipped, repeated or
// reordered step leaves the two unbalanced.
type flowMonitor struct {
	actual   uint64
	expected uint64
}

func flowUpdate(acc uint64, s flowStep) uint64 {
	return bits.RotateLeft64(acc, 7) ^ uint64(s)*flowMix
}

// record logs a step that has just run
func (fm *flowMonitor) record(s flowStep) {
	fm.actual = flowUpdate(fm.actual, s)
}

// expect logs the steps a state should have run
func (fm *flowMonitor) expect(steps ...flowStep) {
	for _, s := range steps {
		fm.expected = flowUpdate(fm.expected, s)
	}
}

// balanced reports whether the executed trace matches the expected one
func (fm *flowMonitor) balanced() bool {
	return fm.actual == fm.expected
}

package ecverify

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowMonitorOrderSensitive(t *testing.T) {
	var a, b flowMonitor
	a.record(stepInvert)
	a.record(stepMulU1)
	b.record(stepMulU1)
	b.record(stepInvert)
	assert.NotEqual(t, a.actual, b.actual)

	a.expect(stepInvert, stepMulU1)
	assert.True(t, a.balanced())
	b.expect(stepInvert, stepMulU1)
	assert.False(t, b.balanced())

	// a repeated step does not cancel out
	var c flowMonitor
	c.record(stepPointCheck)
	c.record(stepPointCheck)
	assert.NotZero(t, c.actual)
}

func newTestVerification(t *testing.T, params *DomainParams) *verification {
	v := p256Vector(t)
	return verificationOf(t, params, v.pub, v.sig, v.hash)
}

func verificationOf(t *testing.T, params *DomainParams, pub, sig, hash []byte) *verification {
	vf, err := newVerification(params, pub, sig, hash)
	require.NoError(t, err)
	t.Cleanup(vf.release)
	return vf
}

// stepUntil runs the states that precede stop, requiring each to succeed
func stepUntil(t *testing.T, vf *verification, stop verifyState) {
	for _, s := range verifySequence {
		if s == stop {
			return
		}
		require.Equal(t, StatusOK, vf.step(s), "state %s", s)
	}
}

func TestRunVisitsEveryState(t *testing.T) {
	vf := newTestVerification(t, P256())
	var seen []verifyState
	st, last, err := vf.run(context.Background(), func(s verifyState) { seen = append(seen, s) })
	require.NoError(t, err)
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, stateDone, last)

	want := append([]verifyState{stateInit}, verifySequence[:]...)
	want = append(want, stateDone)
	assert.Equal(t, want, seen)
}

func TestStepDetectsExtraSubStep(t *testing.T) {
	vf := newTestVerification(t, P256())
	require.Equal(t, StatusOK, vf.step(stateRangeCheck))

	vf.w.flow.record(stepMulU1)
	assert.Equal(t, StatusFault, vf.step(statePrepareDigest))
	assert.Contains(t, vf.reason, "call trace mismatch")
	assert.Contains(t, vf.reason, "PrepareDigest")
}

func TestStepDetectsMissingSubStep(t *testing.T) {
	vf := newTestVerification(t, P256())
	// pretend the range check ran without recording it
	assert.Equal(t, StatusOK, stateHandlers[stateRangeCheck](vf))
	vf.w.flow = flowMonitor{}
	vf.w.flow.expect(vf.expectedSteps(stateRangeCheck, StatusOK)...)
	require.False(t, vf.w.flow.balanced())
	assert.Equal(t, StatusFault, vf.step(statePrepareDigest))
}

func TestStepChecksTraceOnReject(t *testing.T) {
	v := p256Vector(t)
	flip := func(b []byte, i int) []byte {
		out := append([]byte(nil), b...)
		out[i] ^= 0x01
		return out
	}
	neutralPub, neutralSig, neutralHash := neutralSumInputs(t, P256())

	tests := []struct {
		name           string
		pub, sig, hash []byte
		state          verifyState
		want           Status
	}{
		{"r is zero", v.pub, withR(v.sig, big.NewInt(0), 32), v.hash, stateRangeCheck, StatusInvalidSignature},
		{"public key off curve", flip(v.pub, 63), v.sig, v.hash, stateImportCheckPubKey, StatusInvalidParams},
		{"neutral sum", neutralPub, neutralSig, neutralHash, stateComputeP2AndCombine, StatusInvalidSignature},
		{"r mismatch", v.pub, flip(v.sig, 31), v.hash, stateRecoverRAndCompare, StatusInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean := verificationOf(t, P256(), tt.pub, tt.sig, tt.hash)
			stepUntil(t, clean, tt.state)
			assert.Equal(t, tt.want, clean.step(tt.state))
			assert.Empty(t, clean.reason)

			// one extra step on the way to the reject must not be hidden by it
			vf := verificationOf(t, P256(), tt.pub, tt.sig, tt.hash)
			stepUntil(t, vf, tt.state)
			vf.w.flow.record(stepPointAdd)
			assert.Equal(t, StatusFault, vf.step(tt.state))
			assert.Contains(t, vf.reason, "call trace mismatch in "+tt.state.String())
			assert.Nil(t, vf.r)
		})
	}
}

func TestRejectDoesNotHideEarlierMismatch(t *testing.T) {
	v := p256Vector(t)
	vf := verificationOf(t, P256(), v.pub, withR(v.sig, big.NewInt(0), 32), v.hash)
	// a stray step ahead of a rejecting range check
	vf.w.flow.record(stepInvert)
	assert.Equal(t, StatusFault, vf.step(stateRangeCheck))

	st, last, err := verificationOf(t, P256(), v.pub, withR(v.sig, big.NewInt(0), 32), v.hash).
		run(context.Background(), func(verifyState) {})
	require.NoError(t, err)
	assert.Equal(t, StatusInvalidSignature, st)
	assert.Equal(t, stateRangeCheck, last)
}

func TestExpectedStepsFollowInputs(t *testing.T) {
	vf := newTestVerification(t, P256())
	assert.Len(t, vf.expectedSteps(statePrepareDigest, StatusOK), 3)
	vf.hash = vf.hash[:16]
	assert.Len(t, vf.expectedSteps(statePrepareDigest, StatusOK), 2)

	assert.Len(t, vf.expectedSteps(stateComputeP1, StatusOK), 4)
	assert.Contains(t, vf.expectedSteps(stateComputeP2AndCombine, StatusOK), stepPointAdd)
	assert.Equal(t, []flowStep{stepPrecompute, stepBuildTable, stepPointMult, stepPointAdd},
		vf.expectedSteps(stateComputeP2AndCombine, StatusInvalidSignature))
	assert.Len(t, vf.expectedSteps(stateRangeCheck, StatusInvalidSignature), 2)
	assert.Equal(t, []flowStep{stepPointCheck}, vf.expectedSteps(stateImportCheckPubKey, StatusInvalidParams))

	vf.hashZero = true
	assert.Empty(t, vf.expectedSteps(stateComputeP1, StatusOK))
	assert.NotContains(t, vf.expectedSteps(stateComputeP2AndCombine, StatusOK), stepPointAdd)

	assert.Nil(t, vf.expectedSteps(stateDone, StatusOK))
}

func TestParamsChangedDuringVerification(t *testing.T) {
	for _, tt := range []struct {
		name   string
		mutate func(d *DomainParams)
	}{
		{"p", func(d *DomainParams) { d.P[31] ^= 0x02 }},
		{"n", func(d *DomainParams) { d.N[0] ^= 0x10 }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			d := P256()
			vf := newTestVerification(t, d)
			for _, s := range verifySequence[:len(verifySequence)-1] {
				require.Equal(t, StatusOK, vf.step(s), "state %s", s)
			}
			tt.mutate(d)
			assert.Equal(t, StatusFault, vf.step(stateRecoverRAndCompare))
			assert.Contains(t, vf.reason, "domain parameters changed")
			assert.Nil(t, vf.r)
		})
	}
}

func TestCompareDecision(t *testing.T) {
	tests := []struct {
		eqArith, eqBytes, paramsOK bool
		want                       Status
	}{
		{true, true, true, StatusOK},
		{false, false, true, StatusInvalidSignature},
		{true, false, true, StatusFault},
		{false, true, true, StatusFault},
		{true, true, false, StatusFault},
		{false, false, false, StatusFault},
	}
	for _, tt := range tests {
		st, reason := compareDecision(tt.eqArith, tt.eqBytes, tt.paramsOK)
		assert.Equal(t, tt.want, st, "%v/%v/%v", tt.eqArith, tt.eqBytes, tt.paramsOK)
		if st == StatusFault {
			assert.NotEmpty(t, reason)
		} else {
			assert.Empty(t, reason)
		}
	}
}

func TestVerifyStateString(t *testing.T) {
	assert.Equal(t, "Init", stateInit.String())
	assert.Equal(t, "RecoverRAndCompare", stateRecoverRAndCompare.String())
	assert.Equal(t, "Done", stateDone.String())
	assert.Equal(t, "Unknown", verifyState(-1).String())
	assert.Equal(t, "Unknown", (stateDone + 1).String())
}

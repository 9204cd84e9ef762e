package ecverify

import (
	"context"
	"crypto/subtle"
)

// verifyState is a stage of the verification protocol
type verifyState int

const (
	stateInit verifyState = iota
	stateRangeCheck
	statePrepareDigest
	stateComputeU1U2
	stateComputeP1
	stateImportCheckPubKey
	stateComputeP2AndCombine
	stateRecoverRAndCompare
	stateDone
)

var stateNames = [...]string{
	stateInit:                "Init",
	stateRangeCheck:          "RangeCheck",
	statePrepareDigest:       "PrepareDigest",
	stateComputeU1U2:         "ComputeU1U2",
	stateComputeP1:           "ComputeP1",
	stateImportCheckPubKey:   "ImportCheckPubKey",
	stateComputeP2AndCombine: "ComputeP2AndCombine",
	stateRecoverRAndCompare:  "RecoverRAndCompare",
	stateDone:                "Done",
}

func (s verifyState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// verifySequence is the order in which the states run
var verifySequence = [...]verifyState{
	stateRangeCheck,
	statePrepareDigest,
	stateComputeU1U2,
	stateComputeP1,
	stateImportCheckPubKey,
	stateComputeP2AndCombine,
	stateRecoverRAndCompare,
}

var stateHandlers = [...]func(*verification) Status{
	stateRangeCheck:          (*verification).rangeCheck,
	statePrepareDigest:       (*verification).prepareDigest,
	stateComputeU1U2:         (*verification).computeU1U2,
	stateComputeP1:           (*verification).computeP1,
	stateImportCheckPubKey:   (*verification).importCheckPubKey,
	stateComputeP2AndCombine: (*verification).computeP2AndCombine,
	stateRecoverRAndCompare:  (*verification).recoverRAndCompare,
}

// verification is one in-flight call. It owns its workarea exclusively.
type verification struct {
	params    *DomainParams
	w         *workarea
	publicKey []byte
	signature []byte
	hash      []byte

	hashZero bool   // e ≡ 0 (mod n), so u1 = 0 and P1 is skipped
	r        []byte // recovered R, set on success
	reason   string // why the call faulted
}

// newVerification checks the shape of the inputs and sets up the workarea.
// An error here means the caller supplied unusable parameters.
func newVerification(params *DomainParams, publicKey, signature, hash []byte) (*verification, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(publicKey) != 2*params.ByteLenP {
		return nil, makeError(ErrInvalidLength, "public key must be 2*ByteLenP long")
	}
	if len(signature) != 2*params.ByteLenN {
		return nil, makeError(ErrInvalidLength, "signature must be 2*ByteLenN long")
	}
	c, err := newCurve(params)
	if err != nil {
		return nil, err
	}
	return &verification{
		params:    params,
		w:         newWorkarea(c),
		publicKey: publicKey,
		signature: signature,
		hash:      hash,
	}, nil
}

// release wipes the workarea
func (vf *verification) release() {
	vf.w.release()
}

func (vf *verification) fault(reason string) Status {
	vf.reason = reason
	vf.r = nil
	return StatusFault
}

// run drives the states in order and stops at the first one that does not
// return StatusOK. The context is consulted between states only. enter is
// called on every transition. run returns the final status and the state it
// stopped in.
func (vf *verification) run(ctx context.Context, enter func(verifyState)) (Status, verifyState, error) {
	enter(stateInit)
	for _, s := range verifySequence {
		if err := ctx.Err(); err != nil {
			return StatusCanceled, s, err
		}
		enter(s)
		if st := vf.step(s); st != StatusOK {
			return st, s, nil
		}
	}
	enter(stateDone)
	return StatusOK, stateDone, nil
}

// step runs one state and then checks that the steps it executed match the
// steps it was expected to execute. The check also runs when the state
// rejects, so a corrupted trace on a reject path still ends in a fault.
func (vf *verification) step(s verifyState) Status {
	st := stateHandlers[s](vf)
	if st == StatusFault {
		return st
	}
	vf.w.flow.expect(vf.expectedSteps(s, st)...)
	if !vf.w.flow.balanced() {
		return vf.fault("call trace mismatch in " + s.String())
	}
	return st
}

// expectedSteps lists the sub-steps of s for a state that ended in st. The
// list is derived from the public inputs and the exit status only,
// independently of the handlers.
func (vf *verification) expectedSteps(s verifyState, st Status) []flowStep {
	switch s {
	case stateRangeCheck:
		return []flowStep{stepImportSignature, stepRangeCheck}
	case statePrepareDigest:
		if len(vf.hash) >= vf.params.ByteLenN {
			return []flowStep{stepImportDigest, stepTruncateDigest, stepReduceDigest}
		}
		return []flowStep{stepImportDigest, stepReduceDigest}
	case stateComputeU1U2:
		return []flowStep{stepInvert, stepMulU1, stepMulU2}
	case stateComputeP1:
		if vf.hashZero {
			return nil
		}
		return []flowStep{stepPointCheck, stepPointCheck, stepBuildTable, stepPointMult}
	case stateImportCheckPubKey:
		return []flowStep{stepPointCheck}
	case stateComputeP2AndCombine:
		steps := []flowStep{stepPrecompute, stepBuildTable, stepPointMult}
		if !vf.hashZero {
			steps = append(steps, stepPointAdd)
		}
		if st == StatusInvalidSignature {
			// the sum was the neutral point
			return steps
		}
		return append(steps, stepToAffine, stepPointCheck, stepReduceR)
	case stateRecoverRAndCompare:
		return []flowStep{stepCompareArith, stepCompareBytes, stepReimportParams}
	}
	return nil
}

// rangeCheck imports r and s and rejects either outside [1, n-1]
func (vf *verification) rangeCheck() Status {
	w, ln := vf.w, vf.params.ByteLenN
	w.r.setBytes(vf.signature[:ln])
	w.s.setBytes(vf.signature[ln:])
	w.flow.record(stepImportSignature)

	ok := w.c.n.inRange(w.r) & w.c.n.inRange(w.s)
	w.flow.record(stepRangeCheck)
	if ok != 1 {
		return StatusInvalidSignature
	}
	return StatusOK
}

// prepareDigest computes e, the leftmost bitLen(n) bits of the hash mod n,
// without touching the caller's buffer
func (vf *verification) prepareDigest() Status {
	w, ln := vf.w, vf.params.ByteLenN
	wide := loadDigest(w.e, vf.hash, ln)
	w.flow.record(stepImportDigest)
	if wide {
		truncateDigest(w.e, w.c.n, ln)
		w.flow.record(stepTruncateDigest)
	}
	reduceDigest(w.e, w.c.n)
	w.flow.record(stepReduceDigest)
	vf.hashZero = w.e.isZero() == 1
	return StatusOK
}

// computeU1U2 sets u1 = e*s^-1 and u2 = r*s^-1 mod n
func (vf *verification) computeU1U2() Status {
	w := vf.w
	n := w.c.n
	if err := n.inverse(w.sInv, w.s); err != nil {
		return vf.fault("s has no inverse modulo n")
	}
	w.flow.record(stepInvert)
	n.mulMod(w.u1, w.e, w.sInv)
	w.flow.record(stepMulU1)
	n.mulMod(w.u2, w.r, w.sInv)
	w.flow.record(stepMulU2)

	if (w.u1.isZero() == 1) != vf.hashZero {
		return vf.fault("u1 disagrees with the digest")
	}
	return StatusOK
}

// computeP1 sets P1 = u1*G, or leaves it at infinity when u1 is zero
func (vf *verification) computeP1() Status {
	w := vf.w
	w.f.setInfinity(&w.p1)
	if vf.hashZero {
		return StatusOK
	}
	okG := w.importPoint(&w.g, vf.params.G)
	w.flow.record(stepPointCheck)
	okPrec := w.importPoint(&w.precG, vf.params.PrecG)
	w.flow.record(stepPointCheck)
	if !okG || !okPrec {
		return vf.fault("base point or its precomputed multiple is not on the curve")
	}
	ok := w.fixedBaseTable(&w.tbl, &w.g, &w.precG)
	w.flow.record(stepBuildTable)
	if !ok {
		return vf.fault("base point and its precomputed multiple coincide")
	}
	w.pointMult(&w.p1, &w.tbl, w.u1)
	w.flow.record(stepPointMult)
	if w.p1.isInfinity() {
		return vf.fault("u1*G is the point at infinity")
	}
	return StatusOK
}

// importCheckPubKey loads Q and checks it against the curve equation
func (vf *verification) importCheckPubKey() Status {
	w := vf.w
	ok := w.importPoint(&w.q, vf.publicKey)
	w.flow.record(stepPointCheck)
	if !ok {
		return StatusInvalidParams
	}
	return StatusOK
}

// computeP2AndCombine sets P2 = u2*Q, adds P1 and reduces the affine X of
// the sum mod n into rRec
func (vf *verification) computeP2AndCombine() Status {
	w := vf.w
	f := &w.f
	w.precompute(&w.prec, &w.q)
	w.flow.record(stepPrecompute)
	if w.prec.isInfinity() {
		return vf.fault("precomputed multiple of the public key is at infinity")
	}
	ok := w.variableBaseTable(&w.tbl, &w.q, &w.prec)
	w.flow.record(stepBuildTable)
	if !ok {
		return vf.fault("public key and its precomputed multiple coincide")
	}
	w.pointMult(&w.p2, &w.tbl, w.u2)
	w.flow.record(stepPointMult)
	if w.p2.isInfinity() {
		return vf.fault("u2*Q is the point at infinity")
	}

	if !vf.hashZero {
		neutral := f.addFull(&w.p2, &w.p1, &w.p2, w.c.a)
		w.flow.record(stepPointAdd)
		if neutral {
			return StatusInvalidSignature
		}
	}

	err := f.toAffine(&w.res, &w.p2)
	w.flow.record(stepToAffine)
	if err != nil {
		return vf.fault("combined point cannot be normalized")
	}
	ok = f.isOnCurve(&w.res, w.c.a, w.c.b)
	w.flow.record(stepPointCheck)
	if !ok {
		return vf.fault("combined point is not on the curve")
	}

	f.fromMont(w.x, w.res.x)
	w.c.n.reduce(w.rRec, w.x)
	w.flow.record(stepReduceR)
	return StatusOK
}

// recoverRAndCompare checks the recovered R against r twice, through the
// arithmetic compare and through a constant-time byte compare, and checks
// that p and n still match the caller's parameters
func (vf *verification) recoverRAndCompare() Status {
	w, ln := vf.w, vf.params.ByteLenN

	// s^-1 is dead, its register takes a fresh import of r
	rAgain := w.sInv.setBytes(vf.signature[:ln])
	eqArith := cmp(w.rRec, rAgain)&flagZero != 0
	w.flow.record(stepCompareArith)

	rOut := w.rRec.fillBytes(make([]byte, ln))
	eqBytes := subtle.ConstantTimeCompare(rOut, vf.signature[:ln]) == 1
	w.flow.record(stepCompareBytes)

	paramsOK := w.c.p.matches(vf.params.P) && w.c.n.matches(vf.params.N)
	w.flow.record(stepReimportParams)

	st, reason := compareDecision(eqArith, eqBytes, paramsOK)
	switch st {
	case StatusOK:
		vf.r = rOut
	case StatusFault:
		return vf.fault(reason)
	}
	return st
}

// compareDecision maps the outcomes of the final checks to a status. A
// mismatch between the two R comparisons or a changed p or n is a fault, never
// a rejected signature.
func compareDecision(eqArith, eqBytes, paramsOK bool) (Status, string) {
	switch {
	case !paramsOK:
		return StatusFault, "domain parameters changed during verification"
	case eqArith != eqBytes:
		return StatusFault, "R comparisons disagree"
	case eqArith:
		return StatusOK, ""
	}
	return StatusInvalidSignature, ""
}

package kernel

import "math"

func kScalarBody(body *Body, r, n Vec) float64 {
	rcn := r.Cross(n)
	return body.mInv + body.iInv*rcn*rcn
}

// kScalar is the effective inverse mass of the pair along direction n at
// anchors r1 and r2.
func kScalar(a, b *Body, r1, r2, n Vec) float64 {
	return kScalarBody(a, r1, n) + kScalarBody(b, r2, n)
}

func relativeVelocity(a, b *Body, r1, r2 Vec) Vec {
	return b.v.Add(r2.Perp().Mult(b.w)).Sub(a.v.Add(r1.Perp().Mult(a.w)))
}

func normalRelativeVelocity(a, b *Body, r1, r2, n Vec) float64 {
	return relativeVelocity(a, b, r1, r2).Dot(n)
}

func applyImpulses(a, b *Body, r1, r2, j Vec) {
	a.v = a.v.Sub(j.Mult(a.mInv))
	a.w -= a.iInv * r1.Cross(j)
	b.v = b.v.Add(j.Mult(b.mInv))
	b.w += b.iInv * r2.Cross(j)
}

// applyBiasImpulses is applyImpulses against the positional correction
// pseudo-velocities, so overlap resolution adds no momentum.
func applyBiasImpulses(a, b *Body, r1, r2, j Vec) {
	a.vBias = a.vBias.Sub(j.Mult(a.mInv))
	a.wBias -= a.iInv * r1.Cross(j)
	b.vBias = b.vBias.Add(j.Mult(b.mInv))
	b.wBias += b.iInv * r2.Cross(j)
}

// preStep computes the solver quantities for each contact: effective
// masses, the positional correction target velocity and the bounce
// target from the approach speed and pair restitution.
func (arb *Arbiter) preStep(dt, slop, bias float64) {
	a := arb.a.body
	b := arb.b.body
	cogA := a.worldCOG()
	cogB := b.worldCOG()

	for i := 0; i < arb.count; i++ {
		con := &arb.contacts[i]
		con.r1 = con.pa.Sub(cogA)
		con.r2 = con.pb.Sub(cogB)

		con.nMass = 1 / kScalar(a, b, con.r1, con.r2, arb.n)
		con.tMass = 1 / kScalar(a, b, con.r1, con.r2, arb.n.Perp())

		con.bias = -bias * math.Min(0, con.dist+slop) / dt
		con.jBias = 0

		con.bounce = normalRelativeVelocity(a, b, con.r1, con.r2, arb.n) * arb.e
		con.jnAcc = 0
		con.jtAcc = 0
	}
}

// applyImpulse runs one solver iteration over the arbiter's contacts.
// Normal impulses accumulate non-negative, friction impulses clamp to
// the friction cone, and correction impulses go through the bias
// velocities only.
func (arb *Arbiter) applyImpulse() {
	a := arb.a.body
	b := arb.b.body
	n := arb.n
	surfaceVr := arb.surfaceVr
	friction := arb.u

	for i := 0; i < arb.count; i++ {
		con := &arb.contacts[i]
		r1 := con.r1
		r2 := con.r2

		vb1 := a.vBias.Add(r1.Perp().Mult(a.wBias))
		vb2 := b.vBias.Add(r2.Perp().Mult(b.wBias))
		vr := relativeVelocity(a, b, r1, r2)

		vbn := vb2.Sub(vb1).Dot(n)
		vrn := vr.Dot(n)
		vrt := vr.Add(surfaceVr).Dot(n.Perp())

		jbn := (con.bias - vbn) * con.nMass
		jbnOld := con.jBias
		con.jBias = math.Max(jbnOld+jbn, 0)

		jn := -(con.bounce + vrn) * con.nMass
		jnOld := con.jnAcc
		con.jnAcc = math.Max(jnOld+jn, 0)

		jtMax := friction * con.jnAcc
		jt := -vrt * con.tMass
		jtOld := con.jtAcc
		con.jtAcc = clamp(jtOld+jt, -jtMax, jtMax)

		applyBiasImpulses(a, b, r1, r2, n.Mult(con.jBias-jbnOld))
		applyImpulses(a, b, r1, r2, n.Rotate(Vec{con.jnAcc - jnOld, con.jtAcc - jtOld}))
	}
}

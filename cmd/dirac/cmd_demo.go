package main

import (
	"fmt"
	"log"
	"math"

	"github.com/spf13/cobra"

	"github.com/dirac-go/dirac/channel"
	"github.com/dirac-go/dirac/hilbert"
	"github.com/dirac-go/dirac/serialization"
)

// must unwraps setup errors; the demos operate on known-good shapes.
func must[T any](v T, err error) T {
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return v
}

func runBell(cmd *cobra.Command, args []string) {
	s := hilbert.NewComplexSession()
	a := must(s.Qubit("a"))
	b := must(s.Qubit("b"))
	sp := must(hilbert.Product(a, b))

	inv := complex(1/math.Sqrt2, 0)
	bell := must(sp.FromSlice([]complex128{inv, 0, 0, inv}))

	fmt.Println("Bell state |Phi+> on a, b:")
	fmt.Println(bell)

	za := must(a.PauliZ())
	zb := must(b.PauliZ())
	xa := must(a.PauliX())
	xb := must(b.PauliX())

	zz := must(must(za.Mul(zb)).Mul(bell))
	xx := must(must(xa.Mul(xb)).Mul(bell))
	ezz := must(must(bell.H().Mul(zz)).Item())
	exx := must(must(bell.H().Mul(xx)).Item())
	fmt.Printf("<ZZ> = %.4f\n", real(ezz))
	fmt.Printf("<XX> = %.4f\n", real(exx))

	rho := must(bell.Mul(bell.H()))
	rhoA := must(rho.PartialTrace(b))
	purity := must(must(rhoA.Mul(rhoA)).Trace())
	fmt.Printf("reduced state of a: purity %.4f (fully mixed is 0.5)\n", real(purity))

	if outputPath != "" {
		err := serialization.Save(outputPath, map[string]*hilbert.Array{"bell": bell},
			map[string]string{"state": "bell-phi-plus"})
		if err != nil {
			log.Fatalf("Error saving %s: %v", outputPath, err)
		}
		fmt.Printf("Saved to %s\n", outputPath)
	}
}

func runTeleport(cmd *cobra.Command, args []string) {
	s := hilbert.NewComplexSession()
	q := must(s.Qubit("q")) // the state to send
	a := must(s.Qubit("a")) // Alice's half of the pair
	b := must(s.Qubit("b")) // Bob's half

	psi := must(q.Space().RandomArray().Normalized())
	fmt.Println("teleporting random state:")
	fmt.Println(psi)

	// Shared pair, optionally depolarized.
	spAB := must(hilbert.Product(a, b))
	inv := complex(1/math.Sqrt2, 0)
	pair := must(spAB.FromSlice([]complex128{inv, 0, 0, inv}))
	rhoPair := must(pair.Mul(pair.H()))
	if noiseProb > 0 {
		noisy := must(channel.Noisy(spAB, noiseProb))
		rhoPair = must(noisy.Apply(rhoPair))
		fmt.Printf("pair depolarized with p = %.2f\n", noiseProb)
	}

	rho := must(must(psi.Mul(psi.H())).Mul(rhoPair))

	// Bell basis on (q, a).
	spQA := must(hilbert.Product(q, a))
	bellQA := must(spQA.FromSlice([]complex128{inv, 0, 0, inv}))
	xq := must(q.PauliX())
	zq := must(q.PauliZ())
	basis := func(px, pz int) *hilbert.Array {
		st := bellQA
		if pz == 1 {
			st = must(zq.Mul(st))
		}
		if px == 1 {
			st = must(xq.Mul(st))
		}
		return st
	}

	// Bob's correction X^x Z^z.
	xb := must(b.PauliX())
	zb := must(b.PauliZ())
	correction := func(px, pz int) *hilbert.Array {
		u := must(must(b.O()).Eye())
		if pz == 1 {
			u = must(u.Mul(zb))
		}
		if px == 1 {
			u = must(xb.Mul(u))
		}
		return u
	}

	psiB := must(psi.Relabel(q, b))
	avg := 0.0
	for px := 0; px < 2; px++ {
		for pz := 0; pz < 2; pz++ {
			proj := basis(px, pz)
			cond := must(must(proj.H().Mul(rho)).Mul(proj))
			prob := real(must(cond.Trace()))
			cond = must(cond.DivScalar(complex(prob, 0)))

			u := correction(px, pz)
			out := must(must(u.Mul(cond)).Mul(u.H()))
			fid := real(must(must(must(psiB.H().Mul(out)).Mul(psiB)).Item()))

			fmt.Printf("outcome (x=%d, z=%d): probability %.4f, fidelity %.6f\n",
				px, pz, prob, fid)
			avg += prob * fid
		}
	}
	fmt.Printf("average fidelity: %.6f\n", avg)
}

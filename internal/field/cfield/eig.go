package cfield

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// Eig returns the eigenvalues and right eigenvectors of the n x n
// matrix. The hermitian path runs cyclic Jacobi and produces real
// eigenvalues in ascending order with orthonormal eigenvectors; the
// general path goes through the real embedding of the matrix.
func (f *ComplexField) Eig(a *hilbert.Buffer, n int, hermitian bool) (vals, vecs *hilbert.Buffer, err error) {
	if hermitian {
		return f.eigHermitian(a, n)
	}
	return f.eigGeneral(a, n)
}

// eigHermitian diagonalizes a Hermitian matrix with two-sided Jacobi
// rotations. Each rotation is a unitary similarity that zeroes one
// off-diagonal pair; the accumulated rotations are the eigenvectors.
func (f *ComplexField) eigHermitian(a *hilbert.Buffer, n int) (*hilbert.Buffer, *hilbert.Buffer, error) {
	h := make([]complex128, n*n)
	copy(h, a.AsComplex128())
	v := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		v[i*n+i] = 1
	}

	frob := 0.0
	for _, x := range h {
		frob += real(x)*real(x) + imag(x)*imag(x)
	}
	frob = math.Sqrt(frob)
	thresh := 1e-13 * frob

	converged := frob == 0
	for sweep := 0; sweep < svdMaxSweeps && !converged; sweep++ {
		converged = true
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				apq := h[p*n+q]
				g := cmplx.Abs(apq)
				if g <= thresh {
					continue
				}
				converged = false

				// Pull the phase of the pivot out, then the real
				// Jacobi angle zeroes the rotated pivot.
				ph := apq / complex(g, 0)
				tau := (real(h[q*n+q]) - real(h[p*n+p])) / (2 * g)
				t := 1 / (math.Abs(tau) + math.Sqrt(1+tau*tau))
				if tau < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(1+t*t)
				cs := complex(c, 0)
				s := complex(c*t, 0)
				sph := s * ph
				sphC := s * cmplx.Conj(ph)
				cph := cs * ph
				cphC := cs * cmplx.Conj(ph)

				// H <- G.H * H
				for j := 0; j < n; j++ {
					hp, hq := h[p*n+j], h[q*n+j]
					h[p*n+j] = cs*hp - sph*hq
					h[q*n+j] = s*hp + cph*hq
				}
				// H <- H * G, V <- V * G
				for r := 0; r < n; r++ {
					hp, hq := h[r*n+p], h[r*n+q]
					h[r*n+p] = cs*hp - sphC*hq
					h[r*n+q] = s*hp + cphC*hq
					vp, vq := v[r*n+p], v[r*n+q]
					v[r*n+p] = cs*vp - sphC*vq
					v[r*n+q] = s*vp + cphC*vq
				}
			}
		}
	}
	if !converged {
		return nil, nil, fmt.Errorf("%w: hermitian eigendecomposition did not converge",
			hilbert.ErrSingular)
	}

	ev := make([]float64, n)
	for i := 0; i < n; i++ {
		ev[i] = real(h[i*n+i])
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(x, y int) bool {
		return ev[perm[x]] < ev[perm[y]]
	})

	vals := newBuf(n)
	vdata := vals.AsComplex128()
	for i := 0; i < n; i++ {
		vdata[i] = complex(ev[perm[i]], 0)
	}
	vecs := newBuf(n, n)
	vecdata := vecs.AsComplex128()
	for r := 0; r < n; r++ {
		for j := 0; j < n; j++ {
			vecdata[r*n+j] = v[r*n+perm[j]]
		}
	}
	return vals, vecs, nil
}

// eigGeneral computes the eigendecomposition of an arbitrary matrix by
// embedding it as the real 2n x 2n matrix [[X, -Y], [Y, X]]. The
// embedding's spectrum is spec(A) together with its conjugate; the
// eigenvectors of A live in the complex-linear subspace and are
// recovered as top + i*bottom.
func (f *ComplexField) eigGeneral(a *hilbert.Buffer, n int) (*hilbert.Buffer, *hilbert.Buffer, error) {
	src := a.AsComplex128()
	m := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			re, im := real(src[i*n+j]), imag(src[i*n+j])
			m.Set(i, j, re)
			m.Set(i, j+n, -im)
			m.Set(i+n, j, im)
			m.Set(i+n, j+n, re)
		}
	}

	var eig mat.Eigen
	if !eig.Factorize(m, mat.EigenRight) {
		return nil, nil, fmt.Errorf("%w: eigendecomposition did not converge", hilbert.ErrSingular)
	}
	ev := eig.Values(nil)
	var w mat.CDense
	eig.VectorsTo(&w)

	scale := 0.0
	for _, lam := range ev {
		if ab := cmplx.Abs(lam); ab > scale {
			scale = ab
		}
	}
	clusterTol := 1e-8 * (1 + scale)

	type candidate struct {
		lam complex128
		vec []complex128
		nrm float64
	}
	cands := make([]candidate, 0, 2*n)
	for j := 0; j < 2*n; j++ {
		vec := make([]complex128, n)
		sum := 0.0
		for i := 0; i < n; i++ {
			vec[i] = (w.At(i, j) + complex(0, 1)*w.At(i+n, j)) / 2
			sum += real(vec[i])*real(vec[i]) + imag(vec[i])*imag(vec[i])
		}
		cands = append(cands, candidate{ev[j], vec, math.Sqrt(sum)})
	}
	sort.SliceStable(cands, func(x, y int) bool {
		return cands[x].nrm > cands[y].nrm
	})

	// The 2n embedded pairs project onto at most n independent
	// eigenvectors of A; keep the strongest projection per direction,
	// orthonormalizing within eigenvalue clusters to detect duplicates.
	accepted := make([]candidate, 0, n)
	for _, c := range cands {
		if len(accepted) == n {
			break
		}
		if c.nrm < 1e-8 {
			continue
		}
		resid := make([]complex128, n)
		for i := range resid {
			resid[i] = c.vec[i] / complex(c.nrm, 0)
		}
		for _, acc := range accepted {
			if cmplx.Abs(acc.lam-c.lam) > clusterTol {
				continue
			}
			var proj complex128
			for i := range resid {
				proj += cmplx.Conj(acc.vec[i]) * resid[i]
			}
			for i := range resid {
				resid[i] -= proj * acc.vec[i]
			}
		}
		sum := 0.0
		for _, x := range resid {
			sum += real(x)*real(x) + imag(x)*imag(x)
		}
		rn := math.Sqrt(sum)
		if rn < 1e-6 {
			continue
		}
		for i := range resid {
			resid[i] /= complex(rn, 0)
		}
		accepted = append(accepted, candidate{c.lam, resid, 1})
	}
	if len(accepted) != n {
		return nil, nil, fmt.Errorf("%w: could not separate %d eigenvectors from the embedding",
			hilbert.ErrSingular, n)
	}

	sort.SliceStable(accepted, func(x, y int) bool {
		if real(accepted[x].lam) != real(accepted[y].lam) {
			return real(accepted[x].lam) < real(accepted[y].lam)
		}
		return imag(accepted[x].lam) < imag(accepted[y].lam)
	})

	vals, vecs := newBuf(n), newBuf(n, n)
	vdata, vecdata := vals.AsComplex128(), vecs.AsComplex128()
	for j, acc := range accepted {
		vdata[j] = acc.lam
		for i := 0; i < n; i++ {
			vecdata[i*n+j] = acc.vec[i]
		}
	}
	return vals, vecs, nil
}

package cfield

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/dirac-go/dirac/internal/hilbert"
)

const (
	// svdEps is the relative off-diagonal threshold that stops the
	// Jacobi sweeps.
	svdEps = 1e-13

	// svdMaxSweeps bounds the sweep count; Jacobi converges in a
	// handful of sweeps for any conditioning, so hitting the bound
	// means the input was not finite.
	svdMaxSweeps = 60
)

// SVD returns U, the singular values, and V.H of the rows x cols
// matrix, computed by one-sided Jacobi rotations. With full set, U and
// V.H are square; otherwise both are cut to min(rows, cols). The
// singular values come back in a Float64 buffer, descending.
func (f *ComplexField) SVD(a *hilbert.Buffer, rows, cols int, full bool) (u, s, vh *hilbert.Buffer, err error) {
	// One-sided Jacobi wants at least as many rows as columns; a wide
	// matrix decomposes through its adjoint, A = (U2 S V2.H).H.
	if rows < cols {
		u2, s2, vh2, err := f.SVD(f.Adjoint(a, rows, cols), cols, rows, full)
		if err != nil {
			return nil, nil, nil, err
		}
		uc := rows
		if full {
			uc = cols
		}
		return f.Adjoint(vh2, rows, rows), s2, f.Adjoint(u2, cols, uc), nil
	}

	n := cols
	work := make([]complex128, rows*n)
	copy(work, a.AsComplex128())
	v := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		v[i*n+i] = 1
	}

	// Rotate column pairs until all are mutually orthogonal. Each
	// rotation is a unitary acting from the right, accumulated into v,
	// so work converges to U * diag(sigma) and v to V.
	converged := false
	for sweep := 0; sweep < svdMaxSweeps && !converged; sweep++ {
		converged = true
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				var alpha, beta float64
				var gamma complex128
				for r := 0; r < rows; r++ {
					ap, aq := work[r*n+p], work[r*n+q]
					alpha += real(ap)*real(ap) + imag(ap)*imag(ap)
					beta += real(aq)*real(aq) + imag(aq)*imag(aq)
					gamma += cmplx.Conj(ap) * aq
				}
				g := cmplx.Abs(gamma)
				if g <= svdEps*math.Sqrt(alpha*beta) {
					continue
				}
				converged = false

				// Factor out the phase of gamma, then the classic real
				// Jacobi rotation zeroes the cross term.
				ph := gamma / complex(g, 0)
				tau := (beta - alpha) / (2 * g)
				t := 1 / (math.Abs(tau) + math.Sqrt(1+tau*tau))
				if tau < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(1+t*t)
				cs := complex(c, 0)
				sphC := complex(c*t, 0) * cmplx.Conj(ph)
				sph := complex(c*t, 0) * ph

				for r := 0; r < rows; r++ {
					ap, aq := work[r*n+p], work[r*n+q]
					work[r*n+p] = cs*ap - sphC*aq
					work[r*n+q] = sph*ap + cs*aq
				}
				for r := 0; r < n; r++ {
					vp, vq := v[r*n+p], v[r*n+q]
					v[r*n+p] = cs*vp - sphC*vq
					v[r*n+q] = sph*vp + cs*vq
				}
			}
		}
	}
	if !converged {
		return nil, nil, nil, fmt.Errorf("%w: svd did not converge", hilbert.ErrSingular)
	}

	// Column norms are the singular values; sort them descending.
	sigma := make([]float64, n)
	for j := 0; j < n; j++ {
		sum := 0.0
		for r := 0; r < rows; r++ {
			w := work[r*n+j]
			sum += real(w)*real(w) + imag(w)*imag(w)
		}
		sigma[j] = math.Sqrt(sum)
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(x, y int) bool {
		return sigma[perm[x]] > sigma[perm[y]]
	})

	sMax := sigma[perm[0]]
	tol := sMax * 1e-12

	uCols := n
	if full {
		uCols = rows
	}
	u = newBuf(rows, uCols)
	udata := u.AsComplex128()
	have := 0
	for j := 0; j < n && sigma[perm[j]] > tol; j++ {
		inv := complex(1/sigma[perm[j]], 0)
		for r := 0; r < rows; r++ {
			udata[r*uCols+j] = work[r*n+perm[j]] * inv
		}
		have++
	}
	// Null-space columns (and the extension to a square U) get an
	// orthonormal completion.
	orthoComplete(udata, rows, uCols, have)

	s = sBuf(n)
	sdata := s.AsFloat64()
	for j := 0; j < n; j++ {
		sdata[j] = sigma[perm[j]]
	}

	vh = newBuf(n, n)
	vdata := vh.AsComplex128()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			vdata[i*n+j] = cmplx.Conj(v[j*n+perm[i]])
		}
	}
	return u, s, vh, nil
}

// sBuf allocates a Float64 buffer for singular values.
func sBuf(n int) *hilbert.Buffer {
	buf, err := hilbert.NewBuffer(hilbert.Shape{n}, hilbert.Float64)
	if err != nil {
		panic(fmt.Sprintf("cfield: %v", err))
	}
	return buf
}

// orthoComplete extends the first have orthonormal columns of the
// row-major rows x want matrix to a full orthonormal set, picking for
// each new column the basis vector with the most weight outside the
// current span.
func orthoComplete(u []complex128, rows, want, have int) {
	for col := have; col < want; col++ {
		var best []complex128
		bestNorm := -1.0
		for k := 0; k < rows; k++ {
			cand := make([]complex128, rows)
			cand[k] = 1
			for c := 0; c < col; c++ {
				var proj complex128
				for r := 0; r < rows; r++ {
					proj += cmplx.Conj(u[r*want+c]) * cand[r]
				}
				for r := 0; r < rows; r++ {
					cand[r] -= proj * u[r*want+c]
				}
			}
			sum := 0.0
			for _, cv := range cand {
				sum += real(cv)*real(cv) + imag(cv)*imag(cv)
			}
			if nrm := math.Sqrt(sum); nrm > bestNorm {
				bestNorm, best = nrm, cand
			}
		}
		inv := complex(1/bestNorm, 0)
		for r := 0; r < rows; r++ {
			u[r*want+col] = best[r] * inv
		}
	}
}

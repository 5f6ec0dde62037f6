package svd

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"

	"github.com/predrag3141/IPSLQ/bignumber"
)

func init() {
	if err := bignumber.Init(extendedPrecisionBits); err != nil {
		panic("svd: bignumber.Init failed: " + err.Error())
	}
}

// floatAlmostEqual reports whether a and b differ by less than
// threshold. Every call site in kernelSVD compares a quantity against
// 0.0, so a plain absolute difference is exactly what each comparison
// needs.
func floatAlmostEqual(a, b, threshold float64) bool {
	return math.Abs(a-b) < threshold
}

func toBigNumber(v float64) (*bignumber.BigNumber, error) {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	bn, err := bignumber.NewFromDecimalString(s)
	if err != nil {
		return nil, fmt.Errorf("toBigNumber(%v): %w", v, err)
	}
	return bn, nil
}

// rescueProduct recomputes f = x*cs + g*sn at extended precision,
// after lifting each factor losslessly into a BigNumber and scaling
// by 1e30, mirroring the long-double rescue path of the original
// kernel. The returned value is zero only if the cancellation in f is
// real rather than an artifact of float64 rounding.
func rescueProduct(x, g, cs, sn float64) (*bignumber.BigNumber, error) {
	caller := "rescueProduct"
	operands := [4]float64{x, g, cs, sn}
	var big [4]*bignumber.BigNumber
	for i, v := range operands {
		bn, err := toBigNumber(v)
		if err != nil {
			return nil, newUnrecoverableSVDError(caller, err.Error())
		}
		big[i] = bn
	}
	tinyFactor, err := toBigNumber(1e30)
	if err != nil {
		return nil, newUnrecoverableSVDError(caller, err.Error())
	}
	largeX := bignumber.NewFromInt64(0).Mul(big[0], tinyFactor)
	largeG := bignumber.NewFromInt64(0).Mul(big[1], tinyFactor)
	largeCs := bignumber.NewFromInt64(0).Mul(big[2], tinyFactor)
	largeSn := bignumber.NewFromInt64(0).Mul(big[3], tinyFactor)
	term1 := bignumber.NewFromInt64(0).Mul(largeX, largeCs)
	term2 := bignumber.NewFromInt64(0).Mul(largeG, largeSn)
	return bignumber.NewFromInt64(0).Add(term1, term2), nil
}

// kernelSVD computes the singular value decomposition of a using
// Businger-Golub Householder bidiagonalization followed by an
// implicit-QR bulge-chasing sweep with a Wilkinson shift, entirely
// over complex128 arithmetic. It returns U, S (descending,
// non-negative) and V (not V-dagger) such that a = U * diag(S) * V'.
//
// It returns a *convergenceFailure when a Givens normalization is
// degenerate even after the extended-precision rescue check;
// kernelSVDWithRetry is responsible for deciding whether to retry.
func kernelSVD(a *ComplexMatrix) (*ComplexMatrix, []float64, *ComplexMatrix, error) {
	caller := "kernelSVD"

	m, n := a.Rows(), a.Cols()
	if m == 0 || n == 0 {
		return nil, nil, nil, newShapeError(caller, "matrix has a zero dimension")
	}

	transposed := false
	work := a.Clone()
	if m < n {
		transposed = true
		work = Dagger(work)
		m, n = n, m
	}

	size := m
	if n > size {
		size = n
	}
	b := make([]float64, size)
	c := make([]float64, size)

	// Householder bidiagonalization. work's lower triangle ends up
	// holding the column reflectors and its upper triangle the row
	// reflectors; the back-accumulation phase below reads them back
	// out of work(k,k) rather than from a separately stored vector.
	k := 0
	for {
		k1 := k + 1
		z := 0.0
		for i := k; i < m; i++ {
			mag := cmplx.Abs(work.At(i, k))
			z += mag * mag
		}
		b[k] = 0.0
		if tol < z {
			z = math.Sqrt(z)
			b[k] = z
			w := cmplx.Abs(work.At(k, k))

			var q complex128
			if floatAlmostEqual(w, 0.0, zeroThreshold) {
				q = complex(1.0, 0.0)
			} else {
				q = work.At(k, k) / complex(w, 0)
			}
			work.Set(k, k, q*complex(z+w, 0))

			if k != n-1 {
				for j := k1; j < n; j++ {
					qq := complex(0.0, 0.0)
					for i := k; i < m; i++ {
						qq += conjugate(work.At(i, k)) * work.At(i, j)
					}
					qq /= complex(z*(z+w), 0)
					for i := k; i < m; i++ {
						work.Set(i, j, work.At(i, j)-qq*work.At(i, k))
					}
				}
				phase := -conjugate(work.At(k, k)) / complex(cmplx.Abs(work.At(k, k)), 0)
				for j := k1; j < n; j++ {
					work.Set(k, j, phase*work.At(k, j))
				}
			}
		}
		if k == n-1 {
			break
		}

		z = 0.0
		for j := k1; j < n; j++ {
			mag := cmplx.Abs(work.At(k, j))
			z += mag * mag
		}
		c[k1] = 0.0

		if tol < z {
			z = math.Sqrt(z)
			c[k1] = z
			w := cmplx.Abs(work.At(k, k1))

			var q complex128
			if floatAlmostEqual(w, 0.0, zeroThreshold) {
				q = complex(1.0, 0.0)
			} else {
				q = work.At(k, k1) / complex(w, 0)
			}
			work.Set(k, k1, q*complex(z+w, 0))

			for i := k1; i < m; i++ {
				qq := complex(0.0, 0.0)
				for j := k1; j < n; j++ {
					qq += conjugate(work.At(k, j)) * work.At(i, j)
				}
				qq /= complex(z*(z+w), 0)
				for j := k1; j < n; j++ {
					work.Set(i, j, work.At(i, j)-qq*work.At(k, j))
				}
			}
			phase := -conjugate(work.At(k, k1)) / complex(cmplx.Abs(work.At(k, k1)), 0)
			for i := k1; i < m; i++ {
				work.Set(i, k1, work.At(i, k1)*phase)
			}
		}
		k = k1
	}

	S := make([]float64, n)
	t := make([]float64, size)
	eps := 0.0
	for kk := 0; kk < n; kk++ {
		S[kk] = b[kk]
		t[kk] = c[kk]
		if S[kk]+t[kk] > eps {
			eps = S[kk] + t[kk]
		}
	}
	eps *= eta

	U := NewComplexMatrix(m, m)
	for j := 0; j < m; j++ {
		U.Set(j, j, complex(1.0, 0.0))
	}
	V := NewComplexMatrix(n, n)
	for j := 0; j < n; j++ {
		V.Set(j, j, complex(1.0, 0.0))
	}

	for k := n - 1; k >= 0; k-- {
		var w, f, x float64
		for {
			jump := false
			l := k
			for ; l >= 0; l-- {
				if math.Abs(t[l]) < eps {
					jump = true
					break
				}
				if l == 0 {
					break
				}
				if math.Abs(S[l-1]) < eps {
					break
				}
			}
			if !jump && l > 0 {
				cs := 0.0
				sn := 1.0
				l1 := l - 1
				for i := l; i <= k; i++ {
					ft := sn * t[i]
					t[i] = cs * t[i]
					if math.Abs(ft) < eps {
						break
					}
					h := S[i]
					ww := math.Sqrt(ft*ft + h*h)
					S[i] = ww
					cs = h / ww
					sn = -ft / ww

					for j := 0; j < n; j++ {
						ux := real(U.At(j, l1))
						uy := real(U.At(j, i))
						U.Set(j, l1, complex(ux*cs+uy*sn, 0.0))
						U.Set(j, i, complex(uy*cs-ux*sn, 0.0))
					}
				}
			}
			w = S[k]
			if l == k {
				break
			}
			x = S[l]
			y := S[k-1]
			g := t[k-1]
			h := t[k]
			f = ((y-w)*(y+w) + (g-h)*(g+h)) / (2.0 * h * y)
			g = math.Sqrt(f*f + 1.0)
			if f < -1.0e-13 {
				g = -g
			}
			f = ((x-w)*(x+w) + (y/(f+g)-h)*h) / x

			cs := 1.0
			sn := 1.0
			l1 := l + 1
			for i := l1; i <= k; i++ {
				g = t[i]
				y = S[i]
				h = sn * g
				g = cs * g
				ww := math.Sqrt(h*h + f*f)
				t[i-1] = ww
				cs = f / ww
				sn = h / ww
				f = x*cs + g*sn

				largeF := bignumber.NewFromInt64(0)
				if floatAlmostEqual(f, 0.0, zeroThreshold) {
					var err error
					largeF, err = rescueProduct(x, g, cs, sn)
					if err != nil {
						return nil, nil, nil, err
					}
				}

				g = g*cs - x*sn
				h = y * sn
				y = y * cs

				for j := 0; j < n; j++ {
					vx := real(V.At(j, i-1))
					vw := real(V.At(j, i))
					V.Set(j, i-1, complex(vx*cs+vw*sn, 0.0))
					V.Set(j, i, complex(vw*cs-vx*sn, 0.0))
				}

				tinyW := false
				if math.Abs(h) < 1e-13 && math.Abs(f) < 1e-13 && !largeF.IsZero() {
					tinyW = true
				}
				ww = math.Sqrt(h*h + f*f)
				if floatAlmostEqual(ww, 0.0, zeroThreshold) && !tinyW {
					return nil, nil, nil, &convergenceFailure{caller: caller}
				}

				S[i-1] = ww
				if tinyW {
					cs = 1.0
					sn = 0.0
				} else {
					cs = f / ww
					sn = h / ww
				}

				f = cs*g + sn*y
				x = cs*y - sn*g
				for j := 0; j < n; j++ {
					uy := real(U.At(j, i-1))
					uw := real(U.At(j, i))
					U.Set(j, i-1, complex(uy*cs+uw*sn, 0.0))
					U.Set(j, i, complex(uw*cs-uy*sn, 0.0))
				}
			}
			t[l] = 0.0
			t[k] = f
			S[k] = x
		}

		if w < -1e-13 {
			S[k] = -w
			for j := 0; j < n; j++ {
				V.Set(j, k, -V.At(j, k))
			}
		}
	}

	// Selection sort, descending.
	for k := 0; k < n; k++ {
		best := -1.0
		j := k
		for i := k; i < n; i++ {
			if best < S[i] {
				best = S[i]
				j = i
			}
		}
		if j != k {
			S[j], S[k] = S[k], best
			for i := 0; i < n; i++ {
				q := V.At(i, j)
				V.Set(i, j, V.At(i, k))
				V.Set(i, k, q)
			}
			for i := 0; i < n; i++ {
				q := U.At(i, j)
				U.Set(i, j, U.At(i, k))
				U.Set(i, k, q)
			}
		}
	}

	// Back-accumulate the column Householder reflectors into U.
	for k := n - 1; k >= 0; k-- {
		if !floatAlmostEqual(b[k], 0.0, zeroThreshold) {
			q := -work.At(k, k) / complex(cmplx.Abs(work.At(k, k)), 0)
			for j := 0; j < m; j++ {
				U.Set(k, j, q*U.At(k, j))
			}
			for j := 0; j < m; j++ {
				qq := complex(0.0, 0.0)
				for i := k; i < m; i++ {
					qq += conjugate(work.At(i, k)) * U.At(i, j)
				}
				qq /= complex(cmplx.Abs(work.At(k, k))*b[k], 0)
				for i := k; i < m; i++ {
					U.Set(i, j, U.At(i, j)-qq*work.At(i, k))
				}
			}
		}
	}

	// Back-accumulate the row Householder reflectors into V.
	for k := n - 2; k >= 0; k-- {
		k1 := k + 1
		if !floatAlmostEqual(c[k1], 0.0, zeroThreshold) {
			q := -conjugate(work.At(k, k1)) / complex(cmplx.Abs(work.At(k, k1)), 0)
			for j := 0; j < n; j++ {
				V.Set(k1, j, q*V.At(k1, j))
			}
			for j := 0; j < n; j++ {
				qq := complex(0.0, 0.0)
				for i := k1; i < n; i++ {
					qq += work.At(k, i) * V.At(i, j)
				}
				qq /= complex(cmplx.Abs(work.At(k, k1))*c[k1], 0)
				for i := k1; i < n; i++ {
					V.Set(i, j, V.At(i, j)-qq*conjugate(work.At(k, i)))
				}
			}
		}
	}

	if transposed {
		U, V = V, U
	}
	return U, S, V, nil
}

package svd

// Tunable constants, matching spec.md section 6 and the defaults in
// the original source's svd.cpp exactly.
const (
	// THRESHOLD bounds the relative error accepted in reconstruction
	// checks, and is the tolerance for the renormalization invariant
	// |1 - sum(S_i^2)| after truncation.
	THRESHOLD = 1e-9

	// NUM_SVD_TRIES is the number of rescale-and-retry attempts
	// kernelSVDWithRetry makes after an initial kernelSVD failure.
	NUM_SVD_TRIES = 15

	// mulFactor is the multiplicative rescaling applied to A on each
	// retry. It compounds: the k-th retry uses A0 * mulFactor^k.
	mulFactor = 100.0

	// extendedPrecisionBits is the bit precision passed to
	// bignumber.Init for the underflow rescue path, well above a
	// float64 mantissa's 53 bits.
	extendedPrecisionBits = 128

	// eta scales the max diagonal+superdiagonal sum into the
	// convergence threshold eps used by the implicit-QR sweep.
	eta = 1e-10

	// tol is the squared-norm floor below which a Householder column
	// or row is treated as already zero.
	tol = 1.5e-34

	// zeroThreshold is the absolute tolerance used when comparing a
	// floating-point value against zero throughout the kernel (the
	// "almost_equal(x, 0.0, zero_threshold)" calls in the original).
	zeroThreshold = 1e-50

	// defaultChopThreshold is CHOP_THRESHOLD from the original source:
	// the significance cutoff TruncateAndRenormalize applies via
	// NumSignificant before maxRank or truncationBudget are considered
	// at all. The MPS engine that owns CHOP_THRESHOLD in the original
	// source is out of scope here (spec.md section 1); this is the
	// value the original compiles in by default.
	defaultChopThreshold = 1e-16
)

package filter

import (
	"math"

	"github.com/gogpu/ggedit/internal/cache"
)

// MaxKernelHalf bounds the half-width of every kernel.
const MaxKernelHalf = 1 << 14

// maxCenti is the largest quantized sigma a cache key holds. It is exact in
// a float64, so the conversion to int64 never overflows.
const maxCenti = 1 << 53

// GaussianKernel generates a normalized 1D Gaussian kernel for the given
// standard deviation.
//
// The kernel size is 2 * ceil(sigma * 3) + 1, which covers 99.7% of the
// distribution, up to 2*MaxKernelHalf+1. For sigma <= 0 it returns the
// identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	return TruncatedGaussianKernel(sigma, MaxKernelHalf)
}

// TruncatedGaussianKernel is GaussianKernel with its half-width limited to
// maxHalf taps. A truncated kernel keeps the weights of the full one, so the
// mass beyond maxHalf is dropped rather than folded back in: blurring an
// image no wider than maxHalf with it matches the full kernel exactly, since
// every dropped tap lands on a transparent pixel.
func TruncatedGaussianKernel(sigma float64, maxHalf int) []float32 {
	if !(sigma > 0) {
		return []float32{1}
	}
	natural := naturalHalf(sigma)
	half := kernelHalf(sigma, maxHalf)
	kernel := make([]float32, half*2+1)

	twoSigmaSq := 2 * sigma * sigma
	weights := make([]float64, len(kernel))
	sum := 0.0
	for i := range weights {
		x := float64(i - half)
		weights[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += weights[i]
	}
	if half < natural {
		sum = gaussianSum(sigma, natural)
	}

	for i, v := range weights {
		kernel[i] = float32(v / sum)
	}
	return kernel
}

// KernelSize returns the length of GaussianKernel(sigma).
func KernelSize(sigma float64) int {
	if !(sigma > 0) {
		return 1
	}
	return kernelHalf(sigma, MaxKernelHalf)*2 + 1
}

// naturalHalf is ceil(3*sigma), saturated so it always fits an int.
func naturalHalf(sigma float64) int {
	h := math.Ceil(sigma * 3)
	if h >= maxCenti {
		return maxCenti
	}
	return int(h)
}

func kernelHalf(sigma float64, limit int) int {
	if limit <= 0 || limit > MaxKernelHalf {
		limit = MaxKernelHalf
	}
	return min(naturalHalf(sigma), limit)
}

// gaussianSum returns the sum of exp(-x²/2σ²) over x in [-half, half].
// Past a few thousand taps the series matches σ√(2π) to float precision.
func gaussianSum(sigma float64, half int) float64 {
	if half > 4*MaxKernelHalf {
		return sigma * math.Sqrt(2*math.Pi)
	}
	twoSigmaSq := 2 * sigma * sigma
	sum := 1.0
	for x := 1; x <= half; x++ {
		fx := float64(x)
		sum += 2 * math.Exp(-(fx*fx)/twoSigmaSq)
	}
	return sum
}

type kernelKey struct {
	centi int64
	half  int
}

// kernels memoizes kernels by sigma quantized to 0.01 and by half-width.
var kernels = cache.New[kernelKey, []float32](64)

// CachedGaussianKernel returns a shared kernel for sigma whose half-width
// is at most maxHalf (MaxKernelHalf when maxHalf <= 0). The result must not
// be modified.
func CachedGaussianKernel(sigma float64, maxHalf int) []float32 {
	if !(sigma > 0) {
		return []float32{1}
	}
	centi := int64(math.Round(math.Min(sigma*100, maxCenti)))
	q := float64(centi) / 100
	key := kernelKey{centi: centi, half: kernelHalf(q, maxHalf)}
	return kernels.GetOrCreate(key, func() []float32 {
		return TruncatedGaussianKernel(q, key.half)
	})
}

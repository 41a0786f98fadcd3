package sequence

import (
	"fmt"
	"math"
)

// PhredOffset is the ASCII offset of Sanger-encoded quality scores.
const PhredOffset = 33

// phredErrorRates maps an ASCII quality byte to its error
// probability, 10^(-q/10) for Phred score q.
var phredErrorRates = func() [256]float64 {
	var rates [256]float64
	for c := PhredOffset; c < len(rates); c++ {
		rates[c] = math.Pow(10, -float64(c-PhredOffset)/10)
	}
	return rates
}()

// AverageErrorRate returns the mean per-base error probability of a
// FASTQ quality string. Bytes below the Phred offset or outside
// printable ASCII are rejected.
func AverageErrorRate(qualities []byte) (float64, error) {
	if len(qualities) == 0 {
		return 0, fmt.Errorf("empty quality string")
	}
	var sum float64
	for _, c := range qualities {
		if c < PhredOffset || c > '~' {
			return 0, fmt.Errorf("invalid quality character %q", c)
		}
		sum += phredErrorRates[c]
	}
	return sum / float64(len(qualities)), nil
}

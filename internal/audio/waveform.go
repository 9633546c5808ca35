package audio

import "math"

// WaveformPeaks summarizes samples into exactly n amplitude peaks for
// visualization. The input is partitioned into n blocks of
// floor(len/n) samples; each peak is the maximum absolute sample in
// its block, clamped to [0, 1]. Trailing samples that do not fill a
// block are ignored. Deterministic for identical input.
func WaveformPeaks(samples []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	peaks := make([]float64, n)
	block := len(samples) / n
	if block == 0 {
		return peaks
	}
	for i := 0; i < n; i++ {
		var peak float64
		for _, v := range samples[i*block : (i+1)*block] {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
		if peak > 1 {
			peak = 1
		}
		peaks[i] = peak
	}
	return peaks
}

// Package features derives clip-level acoustic features from a decoded
// audio buffer: frame energies and voice activity, pause segmentation,
// a pitch track, and spectral centroid/contrast statistics. All frame-based
// features share one framing grid so they refer to the same time axis.
package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"

	"github.com/fluentive/speechscore/audio"
)

const (
	// FrameLength and HopLength define the shared analysis grid.
	FrameLength = 2048
	HopLength   = 512

	// silenceFraction of the mean frame energy marks a frame silent. The
	// threshold adapts to recording loudness instead of being absolute.
	silenceFraction = 0.1

	// Voiced-band limits for pitch peak picking, Hz.
	pitchFloorHz = 50
	pitchCeilHz  = 500

	// contrastBands is the number of octave sub-bands for spectral contrast.
	contrastBands = 6
	// contrastBaseHz is the upper edge of the lowest contrast sub-band.
	contrastBaseHz = 200

	magEps = 1e-10
)

// Acoustic is the read-only feature record consumed by the scorers.
type Acoustic struct {
	Duration float64

	// Pitch holds per-frame fundamental-frequency estimates in Hz for
	// voiced frames only; unvoiced and silent frames are excluded.
	Pitch     []float64
	PitchMean float64
	PitchStd  float64

	Centroids    []float64 // spectral centroid per frame, Hz
	CentroidMean float64
	CentroidStd  float64
	Contrast     float64 // mean spectral contrast, dB

	RMS     []float64 // per-frame RMS energy
	Silence []bool    // per-frame silence mask

	VoiceActivity float64 // fraction of frames above the energy threshold
	PauseCount    int
	PauseDuration float64 // seconds
}

// Extract computes the full acoustic feature set for sig. It is a pure
// function of the buffer. A buffer shorter than one analysis frame cannot
// be framed and fails with audio.LoadError.
func Extract(sig audio.Signal) (*Acoustic, error) {
	if len(sig.Samples) < FrameLength {
		return nil, &audio.LoadError{Reason: "buffer shorter than one analysis frame"}
	}
	if sig.SampleRate <= 0 {
		return nil, &audio.LoadError{Reason: "non-positive sample rate"}
	}

	frames := frameStarts(len(sig.Samples))
	n := len(frames)

	ac := &Acoustic{
		Duration: sig.Duration(),
		RMS:      make([]float64, n),
		Silence:  make([]bool, n),
	}

	// Frame energies first: the silence threshold needs the clip mean.
	energies := make([]float64, n)
	for i, start := range frames {
		e := 0.0
		for _, v := range sig.Samples[start : start+FrameLength] {
			e += v * v
		}
		energies[i] = e
		ac.RMS[i] = math.Sqrt(e / FrameLength)
	}
	threshold := stat.Mean(energies, nil) * silenceFraction

	active := 0
	for i, e := range energies {
		if e > threshold {
			active++
		} else {
			ac.Silence[i] = true
		}
	}
	ac.VoiceActivity = float64(active) / float64(n)
	ac.PauseCount, ac.PauseDuration = segmentPauses(ac.Silence, sig.SampleRate)

	// Spectral pass over the same grid.
	fft := fourier.NewFFT(FrameLength)
	buf := make([]float64, FrameLength)
	coeffs := make([]complex128, FrameLength/2+1)
	mags := make([]float64, FrameLength/2+1)
	binHz := float64(sig.SampleRate) / FrameLength

	ac.Centroids = make([]float64, n)
	bandEdges := contrastBandEdges(sig.SampleRate, binHz)
	contrastSum, contrastFrames := 0.0, 0

	for i, start := range frames {
		copy(buf, sig.Samples[start:start+FrameLength])
		window.Hann(buf)
		fft.Coefficients(coeffs, buf)
		for k, c := range coeffs {
			mags[k] = math.Hypot(real(c), imag(c))
		}

		ac.Centroids[i] = centroid(mags, binHz)
		if !ac.Silence[i] {
			if p, ok := pickPitch(mags, binHz); ok {
				ac.Pitch = append(ac.Pitch, p)
			}
			contrastSum += frameContrast(mags, bandEdges)
			contrastFrames++
		}
	}

	if contrastFrames > 0 {
		ac.Contrast = contrastSum / float64(contrastFrames)
	}
	ac.CentroidMean = stat.Mean(ac.Centroids, nil)
	if n > 1 {
		ac.CentroidStd = stat.StdDev(ac.Centroids, nil)
	}
	if len(ac.Pitch) > 0 {
		ac.PitchMean = stat.Mean(ac.Pitch, nil)
		if len(ac.Pitch) > 1 {
			ac.PitchStd = stat.StdDev(ac.Pitch, nil)
		}
	}

	return ac, nil
}

func frameStarts(total int) []int {
	var starts []int
	for i := 0; i+FrameLength <= total; i += HopLength {
		starts = append(starts, i)
	}
	return starts
}

// segmentPauses counts maximal runs of silent frames and converts their
// total length back to seconds on the shared hop grid.
func segmentPauses(silence []bool, sampleRate int) (count int, duration float64) {
	silentFrames := 0
	inPause := false
	for _, s := range silence {
		if s {
			silentFrames++
			if !inPause {
				inPause = true
				count++
			}
		} else {
			inPause = false
		}
	}
	duration = float64(silentFrames) * HopLength / float64(sampleRate)
	return count, duration
}

// centroid returns the magnitude-weighted mean frequency of the spectrum,
// or 0 for an all-zero frame.
func centroid(mags []float64, binHz float64) float64 {
	num, den := 0.0, 0.0
	for k, m := range mags {
		num += float64(k) * binHz * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// pickPitch selects the strongest bin inside the voiced band. Frames whose
// peak magnitude is negligible carry no defined pitch.
func pickPitch(mags []float64, binHz float64) (float64, bool) {
	lo := int(math.Ceil(pitchFloorHz / binHz))
	hi := int(math.Floor(pitchCeilHz / binHz))
	if hi >= len(mags) {
		hi = len(mags) - 1
	}
	best, bestMag := 0, 0.0
	for k := lo; k <= hi; k++ {
		if mags[k] > bestMag {
			best, bestMag = k, mags[k]
		}
	}
	if bestMag <= magEps {
		return 0, false
	}
	return float64(best) * binHz, true
}

// contrastBandEdges builds octave sub-band bin boundaries starting at
// contrastBaseHz and doubling up to the Nyquist frequency.
func contrastBandEdges(sampleRate int, binHz float64) []int {
	edges := make([]int, 0, contrastBands+1)
	edges = append(edges, 1) // skip DC
	hz := float64(contrastBaseHz)
	nyquist := float64(sampleRate) / 2
	for b := 0; b < contrastBands; b++ {
		if hz > nyquist {
			hz = nyquist
		}
		edges = append(edges, int(hz/binHz))
		hz *= 2
	}
	return edges
}

// frameContrast averages the peak-to-valley spread, in dB, across the
// octave sub-bands. Peaks and valleys are quartile means so a single bin
// does not dominate the estimate.
func frameContrast(mags []float64, edges []int) float64 {
	sum, bands := 0.0, 0
	for b := 0; b+1 < len(edges); b++ {
		lo, hi := edges[b], edges[b+1]
		if hi > len(mags) {
			hi = len(mags)
		}
		if hi-lo < 2 {
			continue
		}
		peak, valley := quartileMeans(mags[lo:hi])
		sum += 20 * math.Log10((peak+magEps)/(valley+magEps))
		bands++
	}
	if bands == 0 {
		return 0
	}
	return sum / float64(bands)
}

// quartileMeans returns the mean of the top and bottom quartiles of band.
func quartileMeans(band []float64) (peak, valley float64) {
	sorted := make([]float64, len(band))
	copy(sorted, band)
	sort.Float64s(sorted)
	q := len(sorted) / 4
	if q == 0 {
		q = 1
	}
	for _, v := range sorted[len(sorted)-q:] {
		peak += v
	}
	for _, v := range sorted[:q] {
		valley += v
	}
	return peak / float64(q), valley / float64(q)
}

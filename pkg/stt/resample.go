package stt

// monoFloat32 converts interleaved PCM16 to mono float32 samples
// normalised to the range [-1.0, 1.0], averaging all channels per
// frame.
func monoFloat32(samples []int16, channels int) []float32 {
	if channels <= 1 {
		out := make([]float32, len(samples))
		for i, s := range samples {
			out[i] = float32(s) / 32768.0
		}
		return out
	}

	frames := len(samples) / channels
	out := make([]float32, frames)
	for i := range frames {
		var sum float32
		for ch := range channels {
			sum += float32(samples[i*channels+ch]) / 32768.0
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// resampleFloat32 converts audio from one sample rate to another using
// linear interpolation. This is a simple resampler suitable for speech
// audio.
func resampleFloat32(samples []float32, fromRate, toRate int) []float32 {
	if fromRate == toRate {
		return samples
	}
	if len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	newLen := int(float64(len(samples)) / ratio)
	if newLen == 0 {
		return []float32{}
	}

	result := make([]float32, newLen)
	for i := range newLen {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		if srcIdx >= len(samples)-1 {
			result[i] = samples[len(samples)-1]
		} else {
			s1 := float64(samples[srcIdx])
			s2 := float64(samples[srcIdx+1])
			result[i] = float32(s1 + frac*(s2-s1))
		}
	}
	return result
}

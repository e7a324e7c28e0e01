package transcode

// downmixInterleaved averages interleaved integer frames into mono floats,
// scaling by fullScale
func downmixInterleaved(data []int, channels int, fullScale float64, offset int) []float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := range frames {
		var sum int
		for c := range channels {
			sum += data[i*channels+c] - offset
		}
		out[i] = float64(sum) / float64(channels) / fullScale
	}
	return out
}

// downmixPlanar averages per-channel sample blocks into dst
func downmixPlanar(dst []float64, planes [][]int32, fullScale float64) []float64 {
	if len(planes) == 0 {
		return dst
	}
	n := len(planes[0])
	for i := range n {
		var sum int64
		for _, plane := range planes {
			sum += int64(plane[i])
		}
		dst = append(dst, float64(sum)/float64(len(planes))/fullScale)
	}
	return dst
}

// fullScaleFor returns the magnitude of the most negative value at bitDepth
func fullScaleFor(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

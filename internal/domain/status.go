package domain

// Warning bands in °C, measured inwards from each threshold.
const (
	WarnBandMax = 2.0
	WarnBandMin = 1.0
)

// BandedStatus classifies an ambient reading: critical outside
// [min, max], warning within WarnBandMax of max or WarnBandMin of min.
func BandedStatus(temperature, min, max float64) Status {
	switch {
	case temperature > max || temperature < min:
		return StatusCritical
	case temperature > max-WarnBandMax || temperature < min+WarnBandMin:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// ClimbStatus classifies a scripted-failure reading. It only looks at the
// upper bound; the climb never approaches the lower one.
func ClimbStatus(temperature, max float64) Status {
	switch {
	case temperature > max:
		return StatusCritical
	case temperature > max-WarnBandMax:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// SpikeStatus is the coarse rule used by manual temperature spikes. It has
// no warning band.
func SpikeStatus(temperature, min, max float64) Status {
	if temperature > max || temperature < min {
		return StatusCritical
	}
	return StatusNormal
}

// Midpoint returns the centre of the device threshold band.
func (d Device) Midpoint() float64 {
	return (d.ThresholdMin + d.ThresholdMax) / 2
}

// BandWidth returns the width of the device threshold band.
func (d Device) BandWidth() float64 {
	return d.ThresholdMax - d.ThresholdMin
}

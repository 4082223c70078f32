package telemetry

// FullPercent is where every battery estimate starts.
const FullPercent = 100

// Battery is a state-of-charge estimate that only ever goes down, so
// sampling noise never shows as a charge increase.
type Battery struct {
	percent int
}

// NewBattery returns an estimate at FullPercent.
func NewBattery() *Battery {
	return &Battery{percent: FullPercent}
}

// Percent returns the stored estimate.
func (b *Battery) Percent() int {
	return b.percent
}

// Offer replaces the estimate with p if p is strictly lower and reports
// whether it did.
func (b *Battery) Offer(p int) bool {
	if p < b.percent {
		b.percent = p
		return true
	}
	return false
}

// IngestRemoteByte folds a state-of-charge byte reported by the hexapod.
func (b *Battery) IngestRemoteByte(v byte) bool {
	return b.Offer(int(v))
}

// IngestLocalReading folds a raw reading of the remote's own battery.
func (b *Battery) IngestLocalReading(adc int) bool {
	return b.Offer(LocalPercent(adc))
}

// LocalPercent converts the battery ADC reading to a percentage. The cell
// is read through a 10k:10k divider on a 6.6 V full-scale 10-bit ADC, so
// 650 counts is 4.2 V (100 %) and 500 counts is 3.2 V (0 %). Readings
// below 500 count as empty.
func LocalPercent(adc int) int {
	return max((adc-500)*2/3, 0)
}

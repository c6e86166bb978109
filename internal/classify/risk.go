package classify

import (
	"time"

	"github.com/anstrom/lanwatch/internal/device"
)

// MaxRiskScore is the ceiling of RiskScore.
const MaxRiskScore = 100

// riskWeights scores exposed services: plaintext remote admin highest,
// encrypted services lowest.
var riskWeights = map[int]int{
	23: 30, // telnet
	21: 20, // ftp

	3389: 15,
	5900: 15,
	5901: 15,
	5902: 15,
	445:  15, // smb

	22:    10,
	139:   10,
	135:   10,
	1433:  10,
	3306:  10,
	5432:  10,
	27017: 10,

	8080: 5,
	8000: 5,
	80:   3,
	8443: 3,

	443: 1,
	993: 1,
	995: 1,
}

// Risk band lower bounds. A score of zero is Low.
const (
	mediumRiskFrom   = 20
	highRiskFrom     = 40
	criticalRiskFrom = 70
)

// RiskScore sums the weight of every distinct open port, capped at MaxRiskScore.
func RiskScore(ports []int) int {
	score := 0
	for p := range newPortSet(ports) {
		score += riskWeights[p]
	}
	return min(score, MaxRiskScore)
}

// RiskLevelFor bands a score. The banding is monotonic in score.
func RiskLevelFor(score int) device.RiskLevel {
	switch {
	case score >= criticalRiskFrom:
		return device.RiskCritical
	case score >= highRiskFrom:
		return device.RiskHigh
	case score >= mediumRiskFrom:
		return device.RiskMedium
	default:
		return device.RiskLow
	}
}

// Score is RiskScore over the device's current open ports.
func Score(d device.Device) int {
	return RiskScore(d.PortNumbers())
}

// Uptime trend labels.
const (
	TrendNew       = "New"
	TrendTracking  = "Tracking"
	TrendAlwaysOn  = "Always On"
	TrendFrequent  = "Frequent"
	TrendSporadic  = "Sporadic"
	TrendRare      = "Rare"
	trendWindow    = 10
	trendMinScans  = 5
	trendMinSample = 2
)

// UptimeTrend labels how consistently a device has been seen online across
// its most recent scans.
func UptimeTrend(history []time.Time, discoveryCount int) string {
	if len(history) < trendMinSample {
		return TrendNew
	}
	if discoveryCount <= trendMinScans {
		return TrendTracking
	}

	recent := min(len(history), trendWindow)
	ratio := float64(recent) / float64(min(discoveryCount, trendWindow))
	switch {
	case ratio >= 0.9:
		return TrendAlwaysOn
	case ratio >= 0.5:
		return TrendFrequent
	case ratio >= 0.2:
		return TrendSporadic
	default:
		return TrendRare
	}
}

// Trend is UptimeTrend for a device.
func Trend(d device.Device) string {
	return UptimeTrend(d.OnlineHistory, d.DiscoveryCount)
}

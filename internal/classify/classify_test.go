package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anstrom/lanwatch/internal/device"
)

func TestDeviceType(t *testing.T) {
	tests := []struct {
		name     string
		ports    []int
		expected device.DeviceType
	}{
		{"printer wins over web", []int{9100, 80, 443}, device.TypePrinter},
		{"ipp printer", []int{631}, device.TypePrinter},
		{"camera rtsp with web", []int{554, 80}, device.TypeCamera},
		{"camera rtsp with alt web", []int{554, 8080}, device.TypeCamera},
		{"rtsp alone is unknown", []int{554}, device.TypeUnknown},
		{"plex", []int{32400, 80}, device.TypeMediaServer},
		{"jellyfin", []int{8096}, device.TypeMediaServer},
		{"mqtt broker", []int{1883}, device.TypeSmartHome},
		{"postgres", []int{5432, 22}, device.TypeDatabaseServer},
		{"mail", []int{25, 143}, device.TypeMailServer},
		{"smb and netbios", []int{445, 139}, device.TypeFileServer},
		{"smb alone", []int{445}, device.TypeUnknown},
		{"rdp", []int{3389, 445}, device.TypeComputer},
		{"vnc", []int{5900}, device.TypeComputer},
		{"router", []int{80, 53, 443}, device.TypeRouter},
		{"dns alone", []int{53}, device.TypeUnknown},
		{"iphone sync", []int{62078}, device.TypePhone},
		{"mdns", []int{5353}, device.TypePhone},
		{"chromecast", []int{8008, 8443}, device.TypeSmartTV},
		{"8008 alone", []int{8008}, device.TypeUnknown},
		{"https web server", []int{443}, device.TypeWebServer},
		{"proxy web server", []int{8080}, device.TypeWebServer},
		{"database beats mail", []int{3306, 25}, device.TypeDatabaseServer},
		{"empty", nil, device.TypeUnknown},
		{"ssh only", []int{22}, device.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeviceType(tt.ports))
		})
	}
}

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name     string
		ports    []int
		expected int
	}{
		{"telnet and ftp", []int{23, 21}, 50},
		{"duplicates count once", []int{23, 23, 21}, 50},
		{"https only", []int{443}, 1},
		{"web alt ports", []int{80, 8080, 8000, 8443}, 16},
		{"smb", []int{445, 139}, 25},
		{"unweighted ports", []int{53, 631}, 0},
		{"clamped", []int{23, 21, 3389, 5900, 5901, 5902, 445, 22, 139}, MaxRiskScore},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskScore(tt.ports))
		})
	}
}

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score    int
		expected device.RiskLevel
	}{
		{0, device.RiskLow},
		{19, device.RiskLow},
		{20, device.RiskMedium},
		{39, device.RiskMedium},
		{40, device.RiskHigh},
		{69, device.RiskHigh},
		{70, device.RiskCritical},
		{100, device.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskLevelFor(tt.score), "score %d", tt.score)
	}
}

func TestRiskLevelFor_Monotonic(t *testing.T) {
	rank := map[device.RiskLevel]int{
		device.RiskLow:      0,
		device.RiskMedium:   1,
		device.RiskHigh:     2,
		device.RiskCritical: 3,
	}

	prev := rank[RiskLevelFor(0)]
	for score := 1; score <= MaxRiskScore; score++ {
		cur := rank[RiskLevelFor(score)]
		assert.GreaterOrEqual(t, cur, prev, "band decreased at score %d", score)
		prev = cur
	}
}

func history(n int) []time.Time {
	h := make([]time.Time, n)
	for i := range h {
		h[i] = time.Unix(int64(i*60), 0)
	}
	return h
}

func TestUptimeTrend(t *testing.T) {
	tests := []struct {
		name     string
		history  int
		count    int
		expected string
	}{
		{"no samples", 0, 0, TrendNew},
		{"one sample", 1, 10, TrendNew},
		{"few scans", 3, 5, TrendTracking},
		{"always on", 10, 10, TrendAlwaysOn},
		{"always on long history", 20, 40, TrendAlwaysOn},
		{"frequent", 6, 10, TrendFrequent},
		{"sporadic", 3, 12, TrendSporadic},
		{"two samples over many scans", 2, 20, TrendSporadic},
		{"ratio from short count", 6, 6, TrendAlwaysOn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UptimeTrend(history(tt.history), tt.count))
		})
	}
}

func TestGuessOS(t *testing.T) {
	tests := []struct {
		name     string
		ttl      int
		banners  []string
		expected string
	}{
		{"ubuntu banner", 64, []string{"SSH-2.0-OpenSSH_9.6p1 Ubuntu-3ubuntu13"}, "Linux (Ubuntu)"},
		{"windows banner beats ttl", 64, []string{"Microsoft-IIS/10.0"}, "Windows"},
		{"linux ttl", 63, nil, "Linux/Unix"},
		{"windows ttl", 127, nil, "Windows"},
		{"network gear ttl", 254, nil, "Network Device"},
		{"no ttl", 0, nil, device.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GuessOS(tt.ttl, tt.banners))
		})
	}
}

func TestClassify(t *testing.T) {
	d := device.New("192.168.1.30")
	d.TTL = 64
	d.OpenPorts = []device.PortObservation{
		{Port: 23, IsOpen: true},
		{Port: 21, IsOpen: true},
		{Port: 80, IsOpen: true},
	}

	Classify(&d)

	assert.Equal(t, device.TypeWebServer, d.DeviceType)
	assert.Equal(t, device.RiskHigh, d.RiskLevel)
	assert.Equal(t, "Linux/Unix", d.OperatingSystem)
	assert.Equal(t, 53, Score(d))
}

func TestClassify_KeepsEnrichedOS(t *testing.T) {
	d := device.New("192.168.1.31")
	d.TTL = 128
	d.OperatingSystem = "RouterOS 7.14"

	Classify(&d)

	assert.Equal(t, "RouterOS 7.14", d.OperatingSystem)
	assert.Equal(t, device.RiskLow, d.RiskLevel)
}

//go:build integration

package integration

import (
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"netmend/internal/domain"
	"netmend/internal/remedy"
	"netmend/internal/usecase"
)

// fakeDevice bundles fake collaborators simulating one device. The probe
// script answers IsReachable calls in order; the last value repeats.
type fakeDevice struct {
	elevated    bool
	probeScript []bool
	probeCalls  int
	pingReplies int
	wifi        domain.WifiStatus
	wifiErr     error
	mobileData  bool
	vpn         domain.VPNStatus
	execResults map[string]domain.ExecutionResult
	executed    []string
	toggles     []string
	toggleErr   error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		elevated:    true,
		probeScript: []bool{false},
		pingReplies: 4,
		wifi:        domain.WifiStatus{Enabled: true, Connected: true, SSID: "TestNet", SignalDBm: -48},
		vpn:         domain.VPNInactive,
		execResults: map[string]domain.ExecutionResult{},
	}
}

func (d *fakeDevice) IsElevated(ctx context.Context) bool { return d.elevated }

func (d *fakeDevice) IsReachable(ctx context.Context) bool {
	i := d.probeCalls
	d.probeCalls++
	if i >= len(d.probeScript) {
		i = len(d.probeScript) - 1
	}
	return d.probeScript[i]
}

func (d *fakeDevice) PingCount(ctx context.Context, count int) (int, error) {
	return d.pingReplies, nil
}

func (d *fakeDevice) Execute(ctx context.Context, command string, elevate bool, timeout time.Duration) domain.ExecutionResult {
	d.executed = append(d.executed, command)
	if res, ok := d.execResults[command]; ok {
		return res
	}
	return domain.OKResult("no output")
}

func (d *fakeDevice) ActiveNetworkKind() domain.NetworkKind  { return domain.NetworkWifi }
func (d *fakeDevice) WifiStatus() (domain.WifiStatus, error) { return d.wifi, d.wifiErr }
func (d *fakeDevice) MobileDataConnected() (bool, error)     { return d.mobileData, nil }
func (d *fakeDevice) VPN() domain.VPNStatus                  { return d.vpn }
func (d *fakeDevice) DescribeState() string                  { return "" }

func (d *fakeDevice) HasBlockingRules(out string) bool { return false }
func (d *fakeDevice) BlockedUIDs(out string) []int     { return nil }
func (d *fakeDevice) ResolveOwners(uids []int) []string {
	return nil
}

func (d *fakeDevice) FindByNameFragments(fragments []string) []string { return nil }

func (d *fakeDevice) Disable(ctx context.Context) error {
	d.toggles = append(d.toggles, "disable")
	return d.toggleErr
}

func (d *fakeDevice) Enable(ctx context.Context) error {
	d.toggles = append(d.toggles, "enable")
	return d.toggleErr
}

func buildRemediator(d *fakeDevice) *usecase.Remediator {
	diag := usecase.NewDiagnostician(d, d, d, d, d, d, "wlan0", time.Second, 4, zap.NewNop())
	return usecase.NewRemediator(diag, remedy.NewPlanner("wlan0", "wwan0"),
		d, d, d, d, time.Second, 0, zap.NewNop())
}

func stepNames(events []domain.LogEvent) []string {
	var names []string
	for _, e := range events {
		if strings.HasPrefix(e.Text, "Running step: ") {
			names = append(names, strings.TrimPrefix(e.Text, "Running step: "))
		}
	}
	return names
}

var _ = Describe("Remediation", func() {
	var device *fakeDevice

	BeforeEach(func() {
		device = newFakeDevice()
	})

	Describe("Wi-Fi repair with root", func() {
		Context("when a mid-plan step restores connectivity", func() {
			It("stops immediately and never runs the remaining steps", func() {
				// Unreachable through diagnosis and the first retest,
				// restored after the third step.
				device.probeScript = []bool{false, false, true}

				events := buildRemediator(device).Run(context.Background(), domain.NetworkWifi)

				names := stepNames(events)
				Expect(names).To(HaveLen(3))
				Expect(names[len(names)-1]).To(Equal("Enable adapter"))

				last := events[len(events)-1]
				Expect(last.Severity).To(Equal(domain.SeveritySuccess))
				Expect(last.Text).To(ContainSubstring("Connection restored"))
			})
		})

		Context("when no step restores connectivity", func() {
			It("runs the full plan and ends with the could-not-fix entry", func() {
				device.probeScript = []bool{false}

				events := buildRemediator(device).Run(context.Background(), domain.NetworkWifi)

				// Connectivity-only issue list appends nothing:
				// 4 baseline + 2 trailing steps.
				Expect(stepNames(events)).To(HaveLen(6))

				last := events[len(events)-1]
				Expect(last.Severity).To(Equal(domain.SeverityError))
				Expect(last.Text).To(ContainSubstring("Could not fix"))
				Expect(last.Text).To(ContainSubstring(domain.ManualResetHint))
			})
		})

		Context("when the diagnosis finds a DNS fault", func() {
			It("executes the resolver flush inside the plan", func() {
				device.probeScript = []bool{false}
				device.pingReplies = 1

				events := buildRemediator(device).Run(context.Background(), domain.NetworkWifi)

				Expect(stepNames(events)).To(ContainElement("Flush DNS resolver cache"))
				Expect(device.executed).To(ContainElement("resolvectl flush-caches"))
			})
		})
	})

	Describe("mobile repair without root", func() {
		BeforeEach(func() {
			device.elevated = false
			device.mobileData = false
		})

		It("toggles the radio directly with no plan-based steps", func() {
			events := buildRemediator(device).Run(context.Background(), domain.NetworkMobile)

			Expect(device.toggles).To(Equal([]string{"disable", "enable"}))
			Expect(device.executed).To(BeEmpty())
			Expect(stepNames(events)).To(BeEmpty())

			last := events[len(events)-1]
			Expect(last.Severity).To(Equal(domain.SeveritySuccess))
			Expect(last.Text).To(Equal("Mobile data toggled successfully"))
		})
	})

	Describe("diagnosis on a healthy device", func() {
		It("reports no issues and a success log tail", func() {
			device.probeScript = []bool{true}
			diag := usecase.NewDiagnostician(device, device, device, device, device, device,
				"wlan0", time.Second, 4, zap.NewNop())

			issues, events := diag.Diagnose(context.Background(), domain.NetworkWifi)

			Expect(issues).To(BeEmpty())
			last := events[len(events)-1]
			Expect(last.Severity).To(Equal(domain.SeveritySuccess))
			Expect(last.Text).To(Equal("no issues detected"))
		})
	})
})

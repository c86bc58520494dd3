package infra

import (
	"context"
	"fmt"
	"os/exec"

	"netmend/internal/domain"
)

// NmcliToggler implements domain.MobileDataToggler via `nmcli radio wwan`,
// which works without elevation on a standard NetworkManager setup. This is
// the only remediation primitive available on a non-elevated mobile path.
type NmcliToggler struct{}

// NewMobileDataToggler creates an nmcli-backed toggler.
func NewMobileDataToggler() *NmcliToggler {
	return &NmcliToggler{}
}

// Disable switches the mobile radio off.
func (t *NmcliToggler) Disable(ctx context.Context) error {
	return t.radio(ctx, "off")
}

// Enable switches the mobile radio on.
func (t *NmcliToggler) Enable(ctx context.Context) error {
	return t.radio(ctx, "on")
}

func (t *NmcliToggler) radio(ctx context.Context, state string) error {
	cmd := exec.CommandContext(ctx, "nmcli", "radio", "wwan", state)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("nmcli radio wwan %s: %w output=%s", state, err, string(out))
	}
	return nil
}

// Ensure NmcliToggler implements domain.MobileDataToggler.
var _ domain.MobileDataToggler = (*NmcliToggler)(nil)

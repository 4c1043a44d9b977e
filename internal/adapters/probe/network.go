package probe

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	gopsnet "github.com/shirou/gopsutil/v4/net"

	"github.com/anhprgm/dev-info/internal/domain"
)

func (p *Probe) Network(ctx context.Context) (domain.NetworkInfo, error) {
	ifaces, err := gopsnet.InterfacesWithContext(ctx)
	if err != nil {
		return domain.NetworkInfo{}, fmt.Errorf("interfaces: %w", err)
	}
	return networkFromInterfaces(ifaces), nil
}

var connectionRank = map[string]int{
	domain.ConnectionWiFi:     0,
	domain.ConnectionEthernet: 1,
	domain.ConnectionCellular: 2,
	domain.ConnectionOther:    3,
}

// networkFromInterfaces lists every interface and reports the best
// up, non-loopback interface holding an IPv4 address as the active one.
func networkFromInterfaces(ifaces gopsnet.InterfaceStatList) domain.NetworkInfo {
	out := domain.NetworkInfo{
		ConnectionType: domain.ConnectionDisconnected,
		Interfaces:     make([]domain.NetworkInterface, 0, len(ifaces)),
	}
	best := len(connectionRank)

	for _, iface := range ifaces {
		ni := domain.NetworkInterface{
			Name:         iface.Name,
			HardwareAddr: iface.HardwareAddr,
			MTU:          iface.MTU,
			Up:           hasFlag(iface.Flags, "up"),
			Addresses:    make([]string, 0, len(iface.Addrs)),
		}
		for _, a := range iface.Addrs {
			ni.Addresses = append(ni.Addresses, a.Addr)
		}
		out.Interfaces = append(out.Interfaces, ni)

		if !ni.Up || hasFlag(iface.Flags, "loopback") {
			continue
		}
		ip := firstIPv4(ni.Addresses)
		if ip == "" {
			continue
		}
		kind := classify(iface.Name)
		if rank := connectionRank[kind]; rank < best {
			best = rank
			out.ConnectionType = kind
			out.InterfaceName = iface.Name
			out.IPAddress = ip
		}
	}
	return out
}

func classify(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.HasPrefix(n, "wlan"), strings.HasPrefix(n, "wl"), strings.HasPrefix(n, "wifi"):
		return domain.ConnectionWiFi
	case strings.HasPrefix(n, "eth"), strings.HasPrefix(n, "en"):
		return domain.ConnectionEthernet
	case strings.HasPrefix(n, "rmnet"), strings.HasPrefix(n, "ccmni"),
		strings.HasPrefix(n, "wwan"), strings.HasPrefix(n, "ppp"):
		return domain.ConnectionCellular
	}
	return domain.ConnectionOther
}

func firstIPv4(addrs []string) string {
	for _, a := range addrs {
		if pfx, err := netip.ParsePrefix(a); err == nil {
			if pfx.Addr().Is4() {
				return pfx.Addr().String()
			}
			continue
		}
		if ip, err := netip.ParseAddr(a); err == nil && ip.Is4() {
			return ip.String()
		}
	}
	return ""
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

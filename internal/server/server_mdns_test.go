package server

import (
	"net"
	"strings"
	"testing"
)

func TestListenPortFromAddr(t *testing.T) {
	if got := listenPortFromAddr(""); got != "8112" {
		t.Fatalf("expected default port 8112, got %q", got)
	}
	if got := listenPortFromAddr(":9000"); got != "9000" {
		t.Fatalf("expected :9000 to parse to 9000, got %q", got)
	}
	if got := listenPortFromAddr("127.0.0.1:7777"); got != "7777" {
		t.Fatalf("expected host:port to parse port 7777, got %q", got)
	}
	if got := listenPortFromAddr("not-a-port:"); got != "" {
		t.Fatalf("expected invalid addr parse to empty, got %q", got)
	}
}

func TestFilterAdvertiseIPs(t *testing.T) {
	mk := func(s string) net.Addr {
		return &net.IPNet{IP: net.ParseIP(s), Mask: net.CIDRMask(24, 32)}
	}
	got := filterAdvertiseIPs([]net.Addr{
		mk("fd00::5"),
		mk("127.0.0.1"),
		mk("192.168.1.20"),
		mk("169.254.3.4"),
		mk("10.0.0.2"),
		mk("192.168.1.20"),
		&net.IPAddr{IP: net.ParseIP("10.9.9.9")},
	})
	var parts []string
	for _, ip := range got {
		parts = append(parts, ip.String())
	}
	if strings.Join(parts, ",") != "10.0.0.2,192.168.1.20,fd00::5" {
		t.Fatalf("unexpected advertise IPs: %v", parts)
	}
	if filterAdvertiseIPs(nil) != nil {
		t.Fatal("expected nil for no addresses")
	}
}

func TestMDNSMeta(t *testing.T) {
	meta := strings.Join(mdnsMeta(), " ")
	if !strings.Contains(meta, "name=owltest") || !strings.Contains(meta, "api_version=1") {
		t.Fatalf("unexpected meta: %s", meta)
	}
}

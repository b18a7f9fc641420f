package server

import (
	"log/slog"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/mdns"
)

const mdnsServiceType = "_owltest._tcp"

// startMDNSAdvertiser announces the HTTP server on the LAN and returns the
// function that stops the announcement.
func startMDNSAdvertiser(serverAddr string) func() {
	port := listenPortFromAddr(serverAddr)
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum <= 0 {
		return func() {}
	}

	host, _ := os.Hostname()
	if strings.TrimSpace(host) == "" {
		host = "owltest"
	}
	instance := "owltest-" + strings.TrimSpace(host)

	service, err := mdns.NewMDNSService(instance, mdnsServiceType, "", "", portNum, discoverAdvertiseIPs(), mdnsMeta())
	if err != nil {
		slog.Error("mdns advertise service setup failed", "error", err)
		return func() {}
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		slog.Error("mdns advertise start failed", "error", err)
		return func() {}
	}
	slog.Info("mdns advertising enabled", "service", mdnsServiceType, "instance", instance, "port", port)

	return func() {
		server.Shutdown()
	}
}

func mdnsMeta() []string {
	return []string{
		"name=owltest",
		"api_version=" + strconv.Itoa(apiVersion),
		"version=" + currentVersion(),
	}
}

func discoverAdvertiseIPs() []net.IP {
	ifAddrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	return filterAdvertiseIPs(ifAddrs)
}

func filterAdvertiseIPs(addrs []net.Addr) []net.IP {
	if len(addrs) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet == nil || ipNet.IP == nil {
			continue
		}
		ip := ipNet.IP
		if ip.IsLoopback() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			continue
		}
		normalized := ip.To16()
		if normalized == nil {
			continue
		}
		key := normalized.String()
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		ai := out[i].To4() != nil
		aj := out[j].To4() != nil
		if ai != aj {
			return ai
		}
		return out[i].String() < out[j].String()
	})
	return out
}

func listenPortFromAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "8112"
	}
	if strings.HasPrefix(addr, ":") {
		return strings.TrimPrefix(addr, ":")
	}
	if strings.Count(addr, ":") == 0 {
		return addr
	}
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return p
}

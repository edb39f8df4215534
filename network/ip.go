package network

import (
	"fmt"
	"net"
)

// IP the IPv4 addresses of the network interfaces, by interface name
func IP() (map[string]string, error) {
	res := map[string]string{}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("read network interfaces: %w", err)
	}
	for _, i := range ifaces {
		addrs, err := i.Addrs()
		if err != nil {
			return nil, fmt.Errorf("read %s addresses: %w", i.Name, err)
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip.To4() != nil {
				res[i.Name] = ip.String()
			}
		}
	}
	return res, nil
}

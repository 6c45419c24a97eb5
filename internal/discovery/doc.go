// Package discovery finds regtree register servers on the local network.
//
// Servers started by regtree-sim advertise the "_regtree._tcp" mDNS service.
// Their TXT records describe the simulated device:
//
//	device=STM32-demo
//	registers=7
//	path=/ws
//	version=v0.3.0
//
// # Usage Example
//
//	endpoints, err := discovery.Scan(ctx, 3*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, ep := range endpoints {
//	    fmt.Println(ep, ep.URL())
//	}
//
// WaitFor stops at the first server whose instance or device name matches,
// which is what `regtree --discover` uses.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery

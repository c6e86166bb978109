// Package scanning implements lanwatch's discovery engine.
//
// # Overview
//
// A sweep expands a loose address prefix into concrete targets, then runs one
// host pipeline per target under a global concurrency bound:
//
//	ping (ICMP echo) -> hostname / hardware address / vendor lookup
//	                 -> TCP connect scan with banner capture
//	                 -> classification and risk scoring
//
// # Main Components
//
//   - ExpandRange: turns "192.168.1" or "10.0" plus a start/end host number
//     into a Range. Two octets select broad mode across all 256 subnets.
//   - HostProbe: the default Prober. Liveness uses ICMPPinger; hostname,
//     hardware address, vendor and SNMP lookups are best effort and leave
//     "Unknown" on failure.
//   - TCPPortScanner: the default PortScanner. Connects run concurrently per
//     host, capped by ScanOptions.MaxPortConcurrency.
//   - Orchestrator: fans out host pipelines through a FixedResourceManager
//     sized to ScanOptions.MaxParallelScans and aggregates Progress.
//
// # Usage
//
//	logger := logging.NewDefault()
//	probe := scanning.NewHostProbe(scanning.NewICMPPinger(), logger,
//		scanning.WithHardwareResolver(lookup.NewARPTable("")),
//	)
//	orch := scanning.NewOrchestrator(probe, scanning.NewTCPPortScanner(logger), nil, logger)
//
//	opts := scanning.DefaultOptions()
//	opts.Range = "10.0.0"
//	devices, err := orch.Run(ctx, uuid.NewString(), opts, scanning.Hooks{
//		OnDeviceFound: func(d device.Device) { fmt.Println(d.Address) },
//	})
//
// # Cancellation
//
// A single context is threaded through every ping, connect and banner read.
// Canceling it stops new host pipelines from starting. Pipelines that had not
// finished are dropped, so the result never holds half-scanned devices. There
// is no sweep-wide deadline; each operation is bounded by its own timeout.
//
// # Privileges
//
// ICMPPinger first tries an unprivileged ICMP datagram socket, which on Linux
// requires net.ipv4.ping_group_range to include the process group, and falls
// back to a raw socket, which needs CAP_NET_RAW.
package scanning

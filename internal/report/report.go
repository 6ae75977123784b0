package report

import (
	"fmt"
	"strings"

	"komaribot/internal/komari"
)

// NodeReport renders the single-node status view from a joined
// inventory record and live metrics pair. The GPU line is omitted when
// the node reports no GPU; the update-time line is omitted when the
// inventory carries no timestamp. RAM/swap are shown in MiB, disk and
// the cumulative network counters in GiB, instantaneous throughput in
// Mbps, every float with two decimals.
func NodeReport(siteName string, node komari.Node, m komari.NodeMetrics) string {
	ramTotal, ramUsed := mib(m.RAM.Total), mib(m.RAM.Used)
	swapTotal, swapUsed := mib(m.Swap.Total), mib(m.Swap.Used)
	diskTotal, diskUsed := gib(m.Disk.Total), gib(m.Disk.Used)

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %s\n\n", siteName, node.Region, node.Name)

	fmt.Fprintf(&b, "CPU: `%s` @ `%d Cores`\n", node.CPUName, node.CPUCores)
	if node.GPUName != "" {
		fmt.Fprintf(&b, "GPU: `%s`\n", node.GPUName)
	}
	fmt.Fprintf(&b, "ARCH: `%s`\n", node.Arch)
	fmt.Fprintf(&b, "VIRT: `%s`\n", node.Virtualization)
	fmt.Fprintf(&b, "OS: `%s`\n", node.OS)
	fmt.Fprintf(&b, "KERN: `%s`\n", node.KernelVersion)
	fmt.Fprintf(&b, "UPTIME: `%s`\n\n", FormatDuration(m.Uptime))

	fmt.Fprintf(&b, "CPU: `%.2f%%`\n", m.CPU.Usage)
	fmt.Fprintf(&b, "RAM: `%.2f` / `%.2f MB` `%.2f%%`\n", ramUsed, ramTotal, percent(ramUsed, ramTotal))
	fmt.Fprintf(&b, "SWAP: `%.2f` / `%.2f MB` `%.2f%%`\n", swapUsed, swapTotal, percent(swapUsed, swapTotal))
	fmt.Fprintf(&b, "DISK: `%.2f` / `%.2f GB` `%.2f%%`\n\n", diskUsed, diskTotal, percent(diskUsed, diskTotal))

	fmt.Fprintf(&b, "LOAD: `%.2f` / `%.2f` / `%.2f`\n", m.Load.Load1, m.Load.Load5, m.Load.Load15)
	fmt.Fprintf(&b, "PROC: `%d`\n\n", m.Process)

	fmt.Fprintf(&b, "NET: `%.2f GB` / `%.2f GB`\n", gib(m.Network.TotalDown), gib(m.Network.TotalUp))
	fmt.Fprintf(&b, "UP: `%.2f Mbps`\n", mbps(m.Network.Up))
	fmt.Fprintf(&b, "DOWN: `%.2f Mbps`\n", mbps(m.Network.Down))
	fmt.Fprintf(&b, "CONN: `%d TCP` / `%d UDP`", m.Connections.TCP, m.Connections.UDP)

	if node.UpdatedAt != nil {
		fmt.Fprintf(&b, "\n\nUPDATE AT: `%s`", *node.UpdatedAt)
	}

	return EscapeMarkdown(b.String())
}

// FleetReport renders the all-nodes overview. Sums and averages run over
// the entries present in the live snapshot; the online percentage
// divides by the cached total node count from the profile, which can lag
// the live inventory either way. An empty snapshot makes the averages
// divide by zero and NaN flows into the output; that mirrors upstream
// and is deliberately not guarded here.
func FleetReport(siteName string, totalCount int, snap komari.ClientsSnapshot) string {
	n := float64(len(snap.Data))
	onlinePct := float64(len(snap.Online)) / float64(totalCount) * 100.0

	var avgCPU, avgL1, avgL5, avgL15 float64
	var ramTotal, ramUsed, swapTotal, swapUsed, diskTotal, diskUsed uint64
	var netTotalDown, netTotalUp, netDown, netUp uint64
	var tcp, udp uint32

	for _, m := range snap.Data {
		avgCPU += m.CPU.Usage
		avgL1 += m.Load.Load1
		avgL5 += m.Load.Load5
		avgL15 += m.Load.Load15
		ramTotal += m.RAM.Total
		ramUsed += m.RAM.Used
		swapTotal += m.Swap.Total
		swapUsed += m.Swap.Used
		diskTotal += m.Disk.Total
		diskUsed += m.Disk.Used
		netTotalDown += m.Network.TotalDown
		netTotalUp += m.Network.TotalUp
		netDown += m.Network.Down
		netUp += m.Network.Up
		tcp += m.Connections.TCP
		udp += m.Connections.UDP
	}
	avgCPU /= n
	avgL1 /= n
	avgL5 /= n
	avgL15 /= n

	var b strings.Builder
	fmt.Fprintf(&b, "%s Overview\n", siteName)
	fmt.Fprintf(&b, "Online: `%d` / `%d` `%.2f%%`\n", len(snap.Online), totalCount, onlinePct)
	fmt.Fprintf(&b, "Avg Cpu: `%.2f%%`\n", avgCPU)
	fmt.Fprintf(&b, "Avg Load 1: `%.2f`\n", avgL1)
	fmt.Fprintf(&b, "Avg Load 5: `%.2f`\n", avgL5)
	fmt.Fprintf(&b, "Avg Load 15: `%.2f`\n\n", avgL15)

	fmt.Fprintf(&b, "Mem: `%.2f GB` / `%.2f GB` `%.2f%%`\n", gib(ramUsed), gib(ramTotal), percent(gib(ramUsed), gib(ramTotal)))
	fmt.Fprintf(&b, "Swap: `%.2f GB` / `%.2f GB` `%.2f%%`\n", gib(swapUsed), gib(swapTotal), percent(gib(swapUsed), gib(swapTotal)))
	fmt.Fprintf(&b, "Disk: `%.2f GB` / `%.2f GB` `%.2f%%`\n\n", gib(diskUsed), gib(diskTotal), percent(gib(diskUsed), gib(diskTotal)))

	fmt.Fprintf(&b, "Total Download: `%.2f GB`\n", gib(netTotalDown))
	fmt.Fprintf(&b, "Total Upload: `%.2f GB`\n", gib(netTotalUp))
	fmt.Fprintf(&b, "Download Speed: `%.2f Mbps`\n", mbps(netDown))
	fmt.Fprintf(&b, "Upload Speed: `%.2f Mbps`\n", mbps(netUp))
	fmt.Fprintf(&b, "Connections: `%d TCP` / `%d UDP`", tcp, udp)

	return EscapeMarkdown(b.String())
}

// Summary holds the fleet-wide figures computed from a fresh REST read,
// used both for the post-connect reply and for the cached profile fields.
type Summary struct {
	SiteName        string
	SiteDescription string
	Version         string
	NodeCount       int
	CoreCount       int
	MemTotalGiB     float64
	SwapTotalGiB    float64
	DiskTotalGiB    float64
}

// BuildSummary derives the fleet summary from the three REST responses.
func BuildSummary(public komari.PublicInfo, nodes []komari.Node, version komari.VersionInfo) Summary {
	s := Summary{
		SiteName:        public.SiteName,
		SiteDescription: public.Description,
		Version:         fmt.Sprintf("%s-%s", version.Version, version.Hash),
		NodeCount:       len(nodes),
	}
	for _, n := range nodes {
		s.CoreCount += n.CPUCores
		s.MemTotalGiB += gib(n.MemTotal)
		s.SwapTotalGiB += gib(n.SwapTotal)
		s.DiskTotalGiB += gib(n.DiskTotal)
	}
	return s
}

// SummaryReport renders the site summary shown after /connect and /update.
func (s Summary) SummaryReport() string {
	var b strings.Builder
	b.WriteString("Komari instance connected!\n")
	fmt.Fprintf(&b, "Site name: `%s`\n", s.SiteName)
	fmt.Fprintf(&b, "Site description: `%s`\n", s.SiteDescription)
	fmt.Fprintf(&b, "Komari version: `%s`\n", s.Version)
	fmt.Fprintf(&b, "Node count: `%d`\n", s.NodeCount)
	fmt.Fprintf(&b, "CPU cores total: `%d`\n", s.CoreCount)
	fmt.Fprintf(&b, "Memory total: `%.2f GiB`\n", s.MemTotalGiB)
	fmt.Fprintf(&b, "Swap total: `%.2f GiB`\n", s.SwapTotalGiB)
	fmt.Fprintf(&b, "Disk total: `%.2f GiB`", s.DiskTotalGiB)
	return EscapeMarkdown(b.String())
}

// NodeIDList renders the numbered node listing for /get_node_id. Rows
// follow the sorted snapshot order, so a row number here resolves to the
// same node as /status with that index.
func NodeIDList(entries []Entry, nodes []komari.Node) (string, error) {
	byUUID := make(map[string]komari.Node, len(nodes))
	for _, n := range nodes {
		byUUID[n.UUID] = n
	}

	var b strings.Builder
	for i, e := range entries {
		node, ok := byUUID[e.ID]
		if !ok {
			return "", fmt.Errorf("no node with that index")
		}
		fmt.Fprintf(&b, "`%d` - %s\n", i+1, node.Name)
	}
	return EscapeMarkdown(b.String()), nil
}

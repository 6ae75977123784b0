// Package komari speaks the Komari monitoring instance's public API:
// three REST endpoints for inventory/site/version and one WebSocket
// endpoint for live per-node metrics.
package komari

// Node is one monitored machine from GET /api/nodes.
type Node struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	CPUName        string `json:"cpu_name"`
	Virtualization string `json:"virtualization"`
	Arch           string `json:"arch"`
	CPUCores       int    `json:"cpu_cores"`
	OS             string `json:"os"`
	KernelVersion  string `json:"kernel_version"`
	// GPUName is empty when the node has no GPU.
	GPUName string `json:"gpu_name"`
	Region  string `json:"region"`

	// Static capacity totals, raw byte counts.
	MemTotal  uint64 `json:"mem_total"`
	SwapTotal uint64 `json:"swap_total"`
	DiskTotal uint64 `json:"disk_total"`

	Price     *float64 `json:"price,omitempty"`
	ExpiredAt *string  `json:"expired_at,omitempty"`
	Group     *string  `json:"group,omitempty"`
	Tags      *string  `json:"tags,omitempty"`
	CreatedAt *string  `json:"created_at,omitempty"`
	UpdatedAt *string  `json:"updated_at,omitempty"`
}

// PublicInfo is the site metadata from GET /api/public.
type PublicInfo struct {
	SiteName    string `json:"sitename"`
	Description string `json:"description"`
}

// VersionInfo is the instance version from GET /api/version.
type VersionInfo struct {
	Version string `json:"version"`
	Hash    string `json:"hash"`
}

// ClientsSnapshot is one point-in-time read of the live metrics stream.
// Online lists the node uuids currently reporting; Data maps node uuid
// to its latest metrics. A uuid present in the REST inventory but absent
// here is offline.
type ClientsSnapshot struct {
	Online []string               `json:"online"`
	Data   map[string]NodeMetrics `json:"data"`
}

// NodeMetrics is one node's live metrics from the WebSocket snapshot.
type NodeMetrics struct {
	CPU         CPU         `json:"cpu"`
	RAM         Capacity    `json:"ram"`
	Swap        Capacity    `json:"swap"`
	Load        Load        `json:"load"`
	Disk        Capacity    `json:"disk"`
	Network     Network     `json:"network"`
	Connections Connections `json:"connections"`
	// Uptime in seconds.
	Uptime  uint64 `json:"uptime"`
	Process uint32 `json:"process"`

	Message   *string `json:"message,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type CPU struct {
	Usage float64 `json:"usage"`
}

// Capacity is a used-vs-total pair in raw bytes (RAM, swap, disk).
type Capacity struct {
	Total uint64 `json:"total"`
	Used  uint64 `json:"used"`
}

type Load struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// Network carries instantaneous throughput (Up/Down, bytes per second)
// and lifetime cumulative counters (TotalUp/TotalDown, bytes).
type Network struct {
	Up        uint64 `json:"up"`
	Down      uint64 `json:"down"`
	TotalUp   uint64 `json:"totalUp"`
	TotalDown uint64 `json:"totalDown"`
}

type Connections struct {
	TCP uint32 `json:"tcp"`
	UDP uint32 `json:"udp"`
}

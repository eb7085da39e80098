package meili

import "time"

// CreateIndexRequest is the body of POST /indexes. Empty fields are omitted,
// so an empty UID reaches the server as a missing uid.
type CreateIndexRequest struct {
	UID        string `json:"uid,omitempty"`
	Name       string `json:"name,omitempty"`
	PrimaryKey string `json:"primaryKey,omitempty"`
}

// UpdateIndexRequest is the body of PUT /indexes/{uid}.
type UpdateIndexRequest struct {
	Name       string `json:"name,omitempty"`
	PrimaryKey string `json:"primaryKey,omitempty"`
}

// IndexResponse is the index summary returned by the index routes.
type IndexResponse struct {
	UID        string    `json:"uid"`
	Name       string    `json:"name,omitempty"`
	PrimaryKey *string   `json:"primaryKey"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HasPrimaryKey reports whether the index has a primary key set.
func (r IndexResponse) HasPrimaryKey() bool {
	return r.PrimaryKey != nil
}

// PrimaryKeyOrEmpty returns the primary key, or "" when none is set.
func (r IndexResponse) PrimaryKeyOrEmpty() string {
	if r.PrimaryKey == nil {
		return ""
	}
	return *r.PrimaryKey
}

// Version is the body of GET /version.
type Version struct {
	CommitSha  string `json:"commitSha"`
	BuildDate  string `json:"buildDate"`
	PkgVersion string `json:"pkgVersion"`
}

// IndexStats is the per-index part of GET /stats and the body of GET /indexes/{uid}/stats.
type IndexStats struct {
	NumberOfDocuments int64            `json:"numberOfDocuments"`
	IsIndexing        bool             `json:"isIndexing"`
	FieldsFrequency   map[string]int64 `json:"fieldsFrequency"`
}

// Stats is the body of GET /stats. LastUpdate is null until the first write.
type Stats struct {
	DatabaseSize int64                 `json:"databaseSize"`
	LastUpdate   *time.Time            `json:"lastUpdate"`
	Indexes      map[string]IndexStats `json:"indexes"`
}

// SysInfoGlobal holds host-wide figures in bytes.
type SysInfoGlobal struct {
	TotalMemory uint64 `json:"totalMemory"`
	UsedMemory  uint64 `json:"usedMemory"`
	TotalSwap   uint64 `json:"totalSwap"`
	UsedSwap    uint64 `json:"usedSwap"`
	InputData   uint64 `json:"inputData"`
	OutputData  uint64 `json:"outputData"`
}

// SysInfoProcess holds figures for the server process.
type SysInfoProcess struct {
	Memory uint64  `json:"memory"`
	CPU    float64 `json:"cpu"`
}

// SysInfo is the body of GET /sys-info.
type SysInfo struct {
	MemoryUsage    *float64       `json:"memoryUsage"`
	ProcessorUsage []float64      `json:"processorUsage"`
	Global         SysInfoGlobal  `json:"global"`
	Process        SysInfoProcess `json:"process"`
}

// SysInfoPrettyGlobal is SysInfoGlobal with human formatted values.
type SysInfoPrettyGlobal struct {
	TotalMemory string `json:"totalMemory"`
	UsedMemory  string `json:"usedMemory"`
	TotalSwap   string `json:"totalSwap"`
	UsedSwap    string `json:"usedSwap"`
	InputData   string `json:"inputData"`
	OutputData  string `json:"outputData"`
}

// SysInfoPrettyProcess is SysInfoProcess with human formatted values.
type SysInfoPrettyProcess struct {
	Memory string `json:"memory"`
	CPU    string `json:"cpu"`
}

// SysInfoPretty is the body of GET /sys-info/pretty.
type SysInfoPretty struct {
	MemoryUsage    string               `json:"memoryUsage"`
	ProcessorUsage []string             `json:"processorUsage"`
	Global         SysInfoPrettyGlobal  `json:"global"`
	Process        SysInfoPrettyProcess `json:"process"`
}

// Keys is the body of GET /keys.
type Keys struct {
	Private string `json:"private"`
	Public  string `json:"public"`
}

package update

import (
	"encoding/json"
	"strings"

	"github.com/hashicorp/go-version"
)

// Domain update 實體的域名前綴
const Domain = "update"

// Feature update 實體支持的功能位
type Feature int

const (
	FeatureInstall         Feature = 1
	FeatureSpecificVersion Feature = 2
	FeatureProgress        Feature = 4
	FeatureBackup          Feature = 8
	FeatureReleaseNotes    Feature = 16
)

// 實體狀態
const (
	StateOn          = "on"
	StateOff         = "off"
	StateUnavailable = "unavailable"
)

// 固定排序的系統組件標題
const (
	TitleCore       = "Home Assistant Core"
	TitleOS         = "Home Assistant Operating System"
	TitleSupervisor = "Home Assistant Supervisor"
)

// Entity Home Assistant 狀態機中的一個 update 實體
type Entity struct {
	EntityID   string     `json:"entity_id"`
	State      string     `json:"state"`
	Attributes Attributes `json:"attributes"`
}

// Attributes update 實體屬性
type Attributes struct {
	InstalledVersion  string   `json:"installed_version"`
	LatestVersion     string   `json:"latest_version"`
	SkippedVersion    string   `json:"skipped_version"`
	Title             string   `json:"title"`
	FriendlyName      string   `json:"friendly_name"`
	SupportedFeatures Feature  `json:"supported_features"`
	InProgress        Progress `json:"in_progress"`
	ReleaseSummary    string   `json:"release_summary"`
	ReleaseURL        string   `json:"release_url"`
	AutoUpdate        bool     `json:"auto_update"`
	EntityPicture     string   `json:"entity_picture"`
}

// Progress in_progress 可能是 bool 或百分比數字
type Progress struct {
	Active  bool
	Percent int // -1 表示未知
}

func (p *Progress) UnmarshalJSON(data []byte) error {
	p.Active, p.Percent = false, -1

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		p.Active = b
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		p.Active = true
		p.Percent = int(n)
		return nil
	}

	// null 或其他類型視為未進行
	return nil
}

func (p Progress) MarshalJSON() ([]byte, error) {
	if p.Active && p.Percent >= 0 {
		return json.Marshal(p.Percent)
	}
	return json.Marshal(p.Active)
}

// Domain 返回實體 ID 的域名部分
func (e Entity) Domain() string {
	if i := strings.IndexByte(e.EntityID, '.'); i > 0 {
		return e.EntityID[:i]
	}
	return ""
}

// Supports 檢查功能位
func (e Entity) Supports(f Feature) bool {
	return e.Attributes.SupportedFeatures&f != 0
}

// Installable 是否具備安裝能力
func (e Entity) Installable() bool {
	return e.Supports(FeatureInstall)
}

// Skipped 用戶跳過了當前最新版本，用於展示
func (e Entity) Skipped() bool {
	return e.State == StateOff && e.HasSkippedVersion()
}

// HasSkippedVersion 只看 skipped_version，不看狀態
// 實體 unavailable 時也可能帶有跳過記錄
func (e Entity) HasSkippedVersion() bool {
	return e.Attributes.SkippedVersion != ""
}

// Name 顯示名稱：title 優先，其次 friendly_name，最後實體 ID
func (e Entity) Name() string {
	if e.Attributes.Title != "" {
		return e.Attributes.Title
	}
	if e.Attributes.FriendlyName != "" {
		return e.Attributes.FriendlyName
	}
	return e.EntityID
}

// Bump 版本跳躍類型
type Bump string

const (
	BumpNone    Bump = ""
	BumpMajor   Bump = "major"
	BumpMinor   Bump = "minor"
	BumpPatch   Bump = "patch"
	BumpUnknown Bump = "unknown"
)

// Bump 比較 installed 與 latest 版本
// 任一版本無法解析時返回 BumpUnknown
func (e Entity) Bump() Bump {
	installed, latest := e.Attributes.InstalledVersion, e.Attributes.LatestVersion
	if installed == "" || latest == "" {
		return BumpNone
	}

	from, err := version.NewVersion(installed)
	if err != nil {
		return BumpUnknown
	}
	to, err := version.NewVersion(latest)
	if err != nil {
		return BumpUnknown
	}
	if !to.GreaterThan(from) {
		return BumpNone
	}

	a, b := from.Segments(), to.Segments()
	switch {
	case b[0] != a[0]:
		return BumpMajor
	case b[1] != a[1]:
		return BumpMinor
	default:
		return BumpPatch
	}
}
